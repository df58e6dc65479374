package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"-"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CommentWithAuthor is a comment row joined with its author.
type CommentWithAuthor struct {
	Comment
	Username         string  `db:"username"`
	DisplayName      *string `db:"display_name"`
	AuthorAvatarPath *string `db:"avatar_path"`
}

// FeedComment is a comment as shown under a feed post.
type FeedComment struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

// Comment errors
var (
	ErrContentRequired = errors.New("comment content is required")
)
