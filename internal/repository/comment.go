package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. The foreign keys reject unknown posts and users.
func (r *commentRepository) Create(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
	comment := model.Comment{
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now(),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read comment id: %w", err)
	}

	return &comment, nil
}

// ListWithAuthors returns every comment oldest first.
func (r *commentRepository) ListWithAuthors(ctx context.Context) ([]model.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username, u.display_name, u.avatar_path
		FROM comments c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at ASC, c.id ASC
	`

	var comments []model.CommentWithAuthor
	if err := r.db.SelectContext(ctx, &comments, query); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
