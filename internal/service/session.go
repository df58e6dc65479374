package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"socialplay/internal/model"
	"socialplay/internal/repository"
)

// SessionService issues and resolves login sessions. The cookie value is a
// signed token that only carries the session id; the row decides validity.
type SessionService struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	secret   []byte
	maxAge   time.Duration
}

func NewSessionService(sessions repository.SessionRepository, users repository.UserRepository, secret string, maxAge time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		secret:   []byte(secret),
		maxAge:   maxAge,
	}
}

// Login starts a session for userID and returns the cookie token and its expiry.
func (s *SessionService) Login(ctx context.Context, userID int64) (string, time.Time, error) {
	issuedAt := time.Now()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: issuedAt.Add(s.maxAge),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.sign(session, issuedAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, session.ExpiresAt, nil
}

// Logout ends the session named by token. Unknown or malformed tokens are ignored.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	sid, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Resolve returns the user behind a cookie token. Expired session rows are
// removed when encountered.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.User, error) {
	sid, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, sid)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			log.Printf("[SessionService] Failed to delete expired session: %v", err)
		}
		return nil, model.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// PurgeExpired deletes every session row past its expiry.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now())
}

func (s *SessionService) sign(session *model.Session, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID,
		"exp": session.ExpiresAt.Unix(),
		"iat": issuedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) parse(tokenString string, opts ...jwt.ParserOption) (string, error) {
	if tokenString == "" {
		return "", model.ErrSessionNotFound
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", model.ErrSessionExpired
		}
		return "", model.ErrSessionInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", model.ErrSessionInvalid
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", model.ErrSessionInvalid
	}
	return sid, nil
}
