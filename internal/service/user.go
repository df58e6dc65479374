package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"socialplay/internal/model"
	"socialplay/internal/repository"
)

// UserService handles business logic for accounts and profiles
type UserService struct {
	repo   repository.UserRepository
	scores repository.ScoreRepository
	media  *MediaService
}

func NewUserService(repo repository.UserRepository, scores repository.ScoreRepository, media *MediaService) *UserService {
	return &UserService{
		repo:   repo,
		scores: scores,
		media:  media,
	}
}

// Register creates a new account from the registration form.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Password != req.PasswordConfirm {
		return nil, model.ErrPasswordMismatch
	}

	user, err := s.CreateDirect(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	log.Printf("[UserService] Registered user %d (%s)", user.ID, user.Username)
	return user, nil
}

// CreateDirect creates an account without a confirmation password. Used by
// Register and the createuser command.
func (s *UserService) CreateDirect(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if email == "" {
		return nil, model.ErrEmailRequired
	}
	if password == "" {
		return nil, model.ErrPasswordRequired
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check credentials: %w", err)
	}
	if exists {
		return nil, model.ErrCredentialsTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrCredentialsTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user by username or email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		// Don't reveal whether the account exists
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns a user with their per-game best scores. viewerID is the
// signed-in user looking at the page.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID int64) (*model.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	best, err := s.scores.BestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load best scores: %w", err)
	}

	return &model.Profile{
		User:       user,
		AvatarURL:  s.media.AvatarURL(user.AvatarPath),
		IsSelf:     userID == viewerID,
		BestScores: best,
	}, nil
}

// UpdateProfile applies the edit form. avatar is optional; without it the
// current avatar is kept.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, form model.ProfileForm, avatar *model.Upload) error {
	update := model.ProfileUpdate{
		DisplayName: optional(form.DisplayName),
		Bio:         optional(form.Bio),
		City:        optional(form.City),
		StatusMsg:   optional(form.StatusMsg),
		Gender:      optional(form.Gender),
	}

	if raw := strings.TrimSpace(form.Age); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return model.ErrInvalidAge
		}
		update.Age = &age
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	update.AvatarPath = user.AvatarPath

	if avatar != nil {
		key, err := s.media.StoreAvatar(ctx, userID, avatar)
		if err != nil {
			return err
		}
		update.AvatarPath = &key
	}

	if err := s.repo.UpdateProfile(ctx, userID, update); err != nil {
		return err
	}

	log.Printf("[UserService] Updated profile of user %d", userID)
	return nil
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
