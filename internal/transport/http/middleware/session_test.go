package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialplay/internal/model"
)

type stubResolver struct {
	users map[string]*model.User
}

func (s stubResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, model.ErrSessionInvalid
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	if u, ok := CurrentUser(r.Context()); ok {
		w.Write([]byte(u.Username))
		return
	}
	w.Write([]byte("anonymous"))
}

func TestSession_LoadsUser(t *testing.T) {
	resolver := stubResolver{users: map[string]*model.User{"good": {ID: 1, Username: "alice"}}}
	handler := Session(resolver)(http.HandlerFunc(echoUser))

	tests := []struct {
		name        string
		cookie      string
		want        string
		wantCleared bool
	}{
		{name: "no cookie", want: "anonymous"},
		{name: "valid", cookie: "good", want: "alice"},
		{name: "invalid", cookie: "bad", want: "anonymous", wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
			cleared := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == SessionCookie && c.MaxAge < 0 {
					cleared = true
				}
			}
			if cleared != tt.wantCleared {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.wantCleared)
			}
		})
	}
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	handler := RequireLogin(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a flash cookie")
	}
}

func TestRequireLogin_PassesSignedIn(t *testing.T) {
	handler := RequireLogin(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req = req.WithContext(WithUser(req.Context(), &model.User{ID: 1, Username: "alice"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestRequireLoginAPI_Returns401(t *testing.T) {
	handler := RequireLoginAPI(http.HandlerFunc(echoUser))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/games/score", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
}
