package handler

import (
	"errors"
	"log"
	"net/http"

	"socialplay/internal/httputil"
	"socialplay/internal/model"
	"socialplay/internal/service"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

// AuthHandler groups registration, login and logout.
type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
	pages          *Pages
	sessionMaxAge  int
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService, pages *Pages, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		pages:          pages,
		sessionMaxAge:  sessionMaxAge,
	}
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, view.PageRegister, "Register", nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashRedirect(w, r, httputil.FlashError, "Invalid form data.", "/register")
		return
	}

	req := model.RegisterRequest{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	_, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordMismatch):
			flashRedirect(w, r, httputil.FlashError, "Passwords do not match.", "/register")
		case errors.Is(err, model.ErrCredentialsTaken):
			flashRedirect(w, r, httputil.FlashError, "Username or email already registered.", "/register")
		case errors.Is(err, model.ErrUsernameRequired),
			errors.Is(err, model.ErrEmailRequired),
			errors.Is(err, model.ErrPasswordRequired):
			flashRedirect(w, r, httputil.FlashError, "Username, email and password are required.", "/register")
		default:
			h.pages.ServerError(w, r, "Register", err)
		}
		return
	}

	flashRedirect(w, r, httputil.FlashSuccess, "Account created! Please log in.", "/login")
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusOK, view.PageLogin, "Log in", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashRedirect(w, r, httputil.FlashError, "Invalid form data.", "/login")
		return
	}

	identifier := r.PostFormValue("identifier")
	user, err := h.userService.Login(r.Context(), &model.LoginRequest{
		Identifier: identifier,
		Password:   r.PostFormValue("password"),
	})
	if err != nil {
		log.Printf("[AuthHandler] Login failed for identifier=%s", identifier)
		flashRedirect(w, r, httputil.FlashError, "Incorrect username or password.", "/login")
		return
	}

	token, _, err := h.sessionService.Login(r.Context(), user.ID)
	if err != nil {
		h.pages.ServerError(w, r, "Login", err)
		return
	}

	middleware.SetSessionCookie(w, token, h.sessionMaxAge)
	log.Printf("[AuthHandler] Login success user_id=%d", user.ID)
	flashRedirect(w, r, httputil.FlashSuccess, "Welcome back!", "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.sessionService.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("[ERROR] Logout handler: %v", err)
		}
	}
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		log.Printf("[AuthHandler] Logout user_id=%d", user.ID)
	}

	middleware.ClearSessionCookie(w)
	flashRedirect(w, r, httputil.FlashSuccess, "You have been logged out.", "/")
}
