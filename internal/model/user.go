package model

import (
	"errors"
	"time"
)

// User represents a registered account with its optional profile fields.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // "-" hides from JSON output
	DisplayName  *string   `db:"display_name" json:"display_name"`
	Bio          *string   `db:"bio" json:"bio"`
	City         *string   `db:"city" json:"city"`
	StatusMsg    *string   `db:"status_msg" json:"status_msg"`
	Age          *int      `db:"age" json:"age"`
	Gender       *string   `db:"gender" json:"gender"`
	AvatarPath   *string   `db:"avatar_path" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Name returns the display name when set, the username otherwise.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// UserSummary is the author identity attached to posts and comments.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
}

// Name returns the display name when set, the username otherwise.
func (s UserSummary) Name() string {
	if s.DisplayName != nil && *s.DisplayName != "" {
		return *s.DisplayName
	}
	return s.Username
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// LoginRequest carries a username or email plus the password.
type LoginRequest struct {
	Identifier string
	Password   string
}

// ProfileForm is the profile edit form as submitted. Empty fields clear the column.
type ProfileForm struct {
	DisplayName string
	Bio         string
	City        string
	StatusMsg   string
	Age         string
	Gender      string
}

// ProfileUpdate holds the editable profile fields. Nil clears the column.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	City        *string
	StatusMsg   *string
	Age         *int
	Gender      *string
	AvatarPath  *string
}

// Profile is a user page: the user, their best scores and whether the viewer owns it.
type Profile struct {
	User       *User
	AvatarURL  string
	IsSelf     bool
	BestScores []BestScore
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrCredentialsTaken is returned when the username or email is already registered
	ErrCredentialsTaken = errors.New("username or email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordMismatch is returned when the password confirmation differs
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")

	// ErrInvalidAge is returned when a profile age is not a non-negative integer
	ErrInvalidAge = errors.New("age must be a number")
)
