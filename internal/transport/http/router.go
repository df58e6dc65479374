package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"socialplay/internal/handler"
	"socialplay/internal/httputil"
	"socialplay/internal/view"
	sessionmw "socialplay/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Pages       *handler.Pages
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	FeedHandler *handler.FeedHandler
	GameHandler *handler.GameHandler
	ChatHandler *handler.ChatHandler
	Sessions    sessionmw.SessionResolver
	// StaticDir replaces the built-in assets under /static when set.
	StaticDir string
	// UploadDir is served under /uploads when media is stored locally.
	UploadDir string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteOK(w)
	})

	static := http.FS(view.Static())
	if cfg.StaticDir != "" {
		static = http.Dir(cfg.StaticDir)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static)))
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(sessionmw.Session(cfg.Sessions))

		r.NotFound(cfg.Pages.NotFound)

		// Public pages
		r.Get("/", cfg.Pages.Home)
		r.Get("/register", cfg.AuthHandler.RegisterPage)
		r.Post("/register", cfg.AuthHandler.Register)
		r.Get("/login", cfg.AuthHandler.LoginPage)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Get("/logout", cfg.AuthHandler.Logout)

		// Pages that require a signed-in user
		r.Group(func(r chi.Router) {
			r.Use(sessionmw.RequireLogin)

			r.Get("/profile", cfg.UserHandler.Profile)
			r.Get("/profile/edit", cfg.UserHandler.EditProfilePage)
			r.Post("/profile/edit", cfg.UserHandler.EditProfile)
			r.Get("/user/{id}", cfg.UserHandler.UserProfile)

			r.Get("/feed", cfg.FeedHandler.Feed)
			r.Post("/feed", cfg.FeedHandler.Submit)

			r.Get("/games", cfg.GameHandler.Games)
			r.Get("/games/tetris", cfg.GameHandler.Tetris)
			r.Get("/games/pacman", cfg.GameHandler.Pacman)
			r.Get("/games/ranking", cfg.GameHandler.Ranking)

			r.Get("/ai-chat", cfg.ChatHandler.Chat)
			r.Post("/ai-chat", cfg.ChatHandler.Send)
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Use(sessionmw.RequireLoginAPI)

			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				httputil.WriteNotFound(w, "Endpoint not found")
			})
			r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
				httputil.WriteMethodNotAllowed(w)
			})

			r.Post("/games/score", cfg.GameHandler.SubmitScore)
			r.Get("/games/score", cfg.GameHandler.GetRanking)
		})
	})

	return r
}
