package model

import (
	"errors"
	"time"
)

// Post represents a user's post. At least one of Content or MediaPath is non-empty.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   *string   `db:"content" json:"content"`
	MediaPath *string   `db:"media_path" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostWithAuthor is a post row joined with its author.
type PostWithAuthor struct {
	Post
	Username         string  `db:"username"`
	DisplayName      *string `db:"display_name"`
	AuthorAvatarPath *string `db:"avatar_path"`
}

// FeedPost is an enriched post for feed display.
type FeedPost struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	MediaURL  string        `json:"media_url,omitempty"`
	MediaKind MediaKind     `json:"media_kind"`
	Author    UserSummary   `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	Comments  []FeedComment `json:"comments"`
}

// IsImage and IsVideo keep templates free of comparisons.
func (p FeedPost) IsImage() bool { return p.MediaKind == MediaImage }
func (p FeedPost) IsVideo() bool { return p.MediaKind == MediaVideo }

// CreatePostRequest is the input for a new post. Media is optional.
type CreatePostRequest struct {
	Content string
	Media   *Upload
}

// Post errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyPost        = errors.New("post must have content or media")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
