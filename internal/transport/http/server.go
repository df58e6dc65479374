package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"socialplay/internal/config"
	"socialplay/internal/database"
	"socialplay/internal/handler"
	"socialplay/internal/inference"
	"socialplay/internal/repository"
	"socialplay/internal/service"
	"socialplay/internal/storage"
	"socialplay/internal/view"
)

// App is the wired application: its router and the session service used at startup.
type App struct {
	Router   chi.Router
	Sessions *service.SessionService
}

// NewApp builds repositories, services and handlers on top of db.
func NewApp(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*App, error) {
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up media storage: %w", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	chatRepo := repository.NewChatRepository(db)

	mediaService := service.NewMediaService(store, cfg.DefaultAvatarURL)
	userService := service.NewUserService(userRepo, scoreRepo, mediaService)
	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.SecretKey, time.Duration(cfg.SessionMaxAge)*time.Second)
	feedService := service.NewFeedService(postRepo, commentRepo, mediaService)
	gameService := service.NewGameService(scoreRepo)
	chatService := service.NewChatService(chatRepo, inference.NewHTTPClient(cfg.AIEndpoint, cfg.AIMaxTokens, cfg.AITimeout))

	pages := handler.NewPages(renderer)

	routerCfg := RouterConfig{
		Pages:       pages,
		AuthHandler: handler.NewAuthHandler(userService, sessionService, pages, cfg.SessionMaxAge),
		UserHandler: handler.NewUserHandler(userService, pages, cfg.MaxUploadBytes),
		FeedHandler: handler.NewFeedHandler(feedService, pages, cfg.MaxUploadBytes),
		GameHandler: handler.NewGameHandler(gameService, pages),
		ChatHandler: handler.NewChatHandler(chatService, pages),
		Sessions:    sessionService,
		StaticDir:   cfg.StaticDir,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		routerCfg.UploadDir = local.Root()
	}

	return &App{
		Router:   NewRouter(routerCfg),
		Sessions: sessionService,
	}, nil
}

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database and migrate
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Wire the application
	app, err := NewApp(ctx, cfg, db)
	if err != nil {
		return err
	}

	// Expired rows are otherwise only removed when their token is presented.
	if n, err := app.Sessions.PurgeExpired(ctx); err != nil {
		log.Printf("[SessionService] Failed to purge expired sessions: %v", err)
	} else if n > 0 {
		log.Printf("[SessionService] Purged %d expired sessions", n)
	}

	// 4. Serve until interrupted
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
