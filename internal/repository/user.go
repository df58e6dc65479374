package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialplay/internal/model"
)

const userColumns = `id, username, email, password_hash, display_name, bio, city, status_msg,
		       age, gender, avatar_path, created_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	createdAt := now()
	res, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.DisplayName, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrCredentialsTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}

	u.ID = id
	u.CreatedAt = createdAt
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByIdentifier retrieves a user by username or email
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? OR email = ? LIMIT 1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, identifier, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return &u, nil
}

// ExistsByUsernameOrEmail checks if either credential is already taken
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ? OR email = ?)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username, email)
	if err != nil {
		return false, fmt.Errorf("failed to check credentials existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile overwrites every editable profile column.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, p model.ProfileUpdate) error {
	query := `
		UPDATE users
		SET display_name = ?, bio = ?, city = ?, status_msg = ?, age = ?, gender = ?, avatar_path = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		p.DisplayName,
		p.Bio,
		p.City,
		p.StatusMsg,
		p.Age,
		p.Gender,
		p.AvatarPath,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}
