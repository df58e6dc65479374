package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialplay/internal/model"
)

func newTestSessionService(sessions *mockSessionRepository, maxAge time.Duration) *SessionService {
	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}
	return NewSessionService(sessions, users, "test-secret", maxAge)
}

func TestSessionService_LoginResolveLogout(t *testing.T) {
	// ARRANGE
	sessions := newMockSessionRepository()
	svc := newTestSessionService(sessions, time.Hour)
	ctx := context.Background()

	// ACT
	token, expires, err := svc.Login(ctx, 7)

	// ASSERT
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if time.Until(expires) <= 0 {
		t.Errorf("expiry %v should be in the future", expires)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(sessions.sessions))
	}

	user, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user id = %d, want 7", user.ID)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("Resolve after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionService_Resolve_Rejections(t *testing.T) {
	sessions := newMockSessionRepository()
	svc := newTestSessionService(sessions, time.Hour)
	ctx := context.Background()

	other := NewSessionService(sessions, &mockUserRepository{}, "another-secret", time.Hour)
	forged, _, err := other.Login(ctx, 1)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: model.ErrSessionNotFound},
		{name: "garbage", token: "not-a-jwt", wantErr: model.ErrSessionInvalid},
		{name: "wrong secret", token: forged, wantErr: model.ErrSessionInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Resolve(ctx, tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

func TestSessionService_Resolve_ExpiredRowIsDeleted(t *testing.T) {
	sessions := newMockSessionRepository()
	svc := newTestSessionService(sessions, time.Hour)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, 1)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	// Expire the row while the token itself is still valid.
	for _, s := range sessions.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = svc.Resolve(ctx, token)

	if !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	if len(sessions.deleteCalls) != 1 {
		t.Errorf("Delete called %d times, want 1", len(sessions.deleteCalls))
	}
}

func TestSessionService_Resolve_ExpiredToken(t *testing.T) {
	sessions := newMockSessionRepository()
	svc := newTestSessionService(sessions, time.Hour)

	claims := jwt.MapClaims{"sid": "abc", "exp": time.Now().Add(-time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, model.ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
}

func TestSessionService_PurgeExpired(t *testing.T) {
	sessions := newMockSessionRepository()
	sessions.sessions["old"] = &model.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Hour)}
	sessions.sessions["new"] = &model.Session{ID: "new", ExpiresAt: time.Now().Add(time.Hour)}
	svc := newTestSessionService(sessions, time.Hour)

	n, err := svc.PurgeExpired(context.Background())

	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
	if _, ok := sessions.sessions["new"]; !ok {
		t.Error("live session should remain")
	}
}
