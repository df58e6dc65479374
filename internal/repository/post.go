package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, userID int64, content, mediaPath *string) (*model.Post, error) {
	post := model.Post{
		UserID:    userID,
		Content:   content,
		MediaPath: mediaPath,
		CreatedAt: now(),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (user_id, content, media_path, created_at) VALUES (?, ?, ?, ?)`,
		post.UserID, post.Content, post.MediaPath, post.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	post.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read post id: %w", err)
	}

	return &post, nil
}

// Exists checks if a post exists.
func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

// ListWithAuthors returns every post newest first. id breaks ties between posts
// created in the same instant.
func (r *postRepository) ListWithAuthors(ctx context.Context) ([]model.PostWithAuthor, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.media_path, p.created_at,
		       u.username, u.display_name, u.avatar_path
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
	`

	var posts []model.PostWithAuthor
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}
