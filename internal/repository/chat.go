package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/model"
)

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Append adds one message to the user's chat log.
func (r *chatRepository) Append(ctx context.Context, userID int64, role, content string) (*model.ChatMessage, error) {
	msg := model.ChatMessage{
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: now(),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ai_chats (user_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.UserID, msg.Role, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	msg.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read chat message id: %w", err)
	}

	return &msg, nil
}

// ListByUser returns the user's full log, oldest first.
func (r *chatRepository) ListByUser(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, created_at
		FROM ai_chats
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`

	var messages []model.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return messages, nil
}
