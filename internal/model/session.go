package model

import (
	"errors"
	"time"
)

// Session links an opaque token to a user until it expires.
type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInvalid  = errors.New("invalid session token")
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"` // "success" or "error"
	Message  string `json:"message"`
}
