package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"socialplay/internal/httputil"
	"socialplay/internal/model"
	"socialplay/internal/service"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

type UserHandler struct {
	userService *service.UserService
	pages       *Pages
	maxUpload   int64
}

func NewUserHandler(userService *service.UserService, pages *Pages, maxUpload int64) *UserHandler {
	return &UserHandler{
		userService: userService,
		pages:       pages,
		maxUpload:   maxUpload,
	}
}

// Profile handles GET /profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.CurrentUser(r.Context())
	h.renderProfile(w, r, viewer.ID, viewer.ID)
}

// UserProfile handles GET /user/{id}
func (h *UserHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		h.pages.NotFound(w, r)
		return
	}

	viewer, _ := middleware.CurrentUser(r.Context())
	h.renderProfile(w, r, userID, viewer.ID)
}

func (h *UserHandler) renderProfile(w http.ResponseWriter, r *http.Request, userID, viewerID int64) {
	profile, err := h.userService.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.pages.NotFound(w, r)
			return
		}
		h.pages.ServerError(w, r, "Profile", err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, view.PageProfile, profile.User.Name(), profile)
}

// EditProfilePage handles GET /profile/edit
func (h *UserHandler) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	h.pages.Render(w, r, http.StatusOK, view.PageEditProfile, "Edit profile", user)
}

// EditProfile handles POST /profile/edit (multipart, optional avatar)
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		flashRedirect(w, r, httputil.FlashError, "The upload is too large or malformed.", "/profile/edit")
		return
	}

	form := model.ProfileForm{
		DisplayName: r.FormValue("display_name"),
		Bio:         r.FormValue("bio"),
		City:        r.FormValue("city"),
		StatusMsg:   r.FormValue("status_msg"),
		Age:         r.FormValue("age"),
		Gender:      r.FormValue("gender"),
	}

	avatar, file, err := formUpload(r, "avatar")
	if err != nil {
		flashRedirect(w, r, httputil.FlashError, "Invalid avatar upload.", "/profile/edit")
		return
	}
	if file != nil {
		defer file.Close()
	}

	err = h.userService.UpdateProfile(r.Context(), user.ID, form, avatar)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidAge):
			flashRedirect(w, r, httputil.FlashError, "Age must be a number.", "/profile/edit")
		case errors.Is(err, model.ErrInvalidImageType):
			flashRedirect(w, r, httputil.FlashError, "The avatar must be a PNG, JPG or GIF image.", "/profile/edit")
		case errors.Is(err, model.ErrFileTooLarge):
			flashRedirect(w, r, httputil.FlashError, "The avatar exceeds the 5MB limit.", "/profile/edit")
		default:
			h.pages.ServerError(w, r, "EditProfile", err)
		}
		return
	}

	flashRedirect(w, r, httputil.FlashSuccess, "Profile updated!", "/profile")
}
