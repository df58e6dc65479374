package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"socialplay/internal/httputil"
	"socialplay/internal/model"
)

// SessionCookie is the name of the cookie holding the signed session token.
const SessionCookie = "session"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the signed-in *model.User
	UserKey contextKey = "user"
)

// SessionResolver maps a cookie token to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Session loads the signed-in user, if any, into the request context. It
// never rejects a request; guards decide what anonymous users may reach.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !isSessionError(err) {
					log.Printf("[Session] Failed to resolve session: %v", err)
				}
				ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireLogin redirects anonymous visitors to the login page with a notice.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			httputil.AddFlash(w, r, httputil.FlashError, "Please log in to continue.")
			httputil.Redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLoginAPI answers anonymous API calls with a JSON 401.
func RequireLoginAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			httputil.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the signed-in user stored by Session.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok && user != nil
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// SetSessionCookie stores token in the session cookie for maxAge seconds.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func isSessionError(err error) bool {
	return errors.Is(err, model.ErrSessionNotFound) ||
		errors.Is(err, model.ErrSessionExpired) ||
		errors.Is(err, model.ErrSessionInvalid) ||
		errors.Is(err, model.ErrUserNotFound)
}
