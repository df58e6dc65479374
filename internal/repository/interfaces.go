package repository

import (
	"context"
	"time"

	"socialplay/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByIdentifier finds a user whose username or email equals identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID int64, update model.ProfileUpdate) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, content, mediaPath *string) (*model.Post, error)
	Exists(ctx context.Context, postID int64) (bool, error)
	// ListWithAuthors returns every post newest first, joined with its author.
	ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error)
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error)
	// ListWithAuthors returns every comment oldest first, joined with its author.
	ListWithAuthors(ctx context.Context) ([]model.CommentWithAuthor, error)
}

type ScoreRepository interface {
	Create(ctx context.Context, userID int64, game string, score int64) (*model.Score, error)
	BestByUser(ctx context.Context, userID int64) ([]model.BestScore, error)
	Leaderboard(ctx context.Context, game string, limit int) ([]model.RankingEntry, error)
}

type ChatRepository interface {
	Append(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error)
	ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error)
}
