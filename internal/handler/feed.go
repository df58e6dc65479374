package handler

import (
	"errors"
	"net/http"
	"strconv"

	"socialplay/internal/httputil"
	"socialplay/internal/model"
	"socialplay/internal/service"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

type FeedHandler struct {
	feedService *service.FeedService
	pages       *Pages
	maxUpload   int64
}

func NewFeedHandler(feedService *service.FeedService, pages *Pages, maxUpload int64) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		pages:       pages,
		maxUpload:   maxUpload,
	}
}

// Feed handles GET /feed
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feedService.ListFeed(r.Context())
	if err != nil {
		h.pages.ServerError(w, r, "Feed", err)
		return
	}
	h.pages.Render(w, r, http.StatusOK, view.PageFeed, "Feed", posts)
}

// Submit handles POST /feed. form_type selects between a new post and a comment.
func (h *FeedHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		flashRedirect(w, r, httputil.FlashError, "The upload is too large or malformed.", "/feed")
		return
	}

	switch r.FormValue("form_type") {
	case "new_post":
		h.createPost(w, r)
	case "new_comment":
		h.addComment(w, r)
	default:
		flashRedirect(w, r, httputil.FlashError, "Unknown form.", "/feed")
	}
}

func (h *FeedHandler) createPost(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	media, file, err := formUpload(r, "media")
	if err != nil {
		flashRedirect(w, r, httputil.FlashError, "Invalid media upload.", "/feed")
		return
	}
	if file != nil {
		defer file.Close()
	}

	_, err = h.feedService.CreatePost(r.Context(), user.ID, model.CreatePostRequest{
		Content: r.FormValue("content"),
		Media:   media,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPost):
			flashRedirect(w, r, httputil.FlashError, "A post cannot be empty.", "/feed")
		case errors.Is(err, model.ErrUnsupportedMedia):
			flashRedirect(w, r, httputil.FlashError, "Unsupported file type. Allowed: png, jpg, jpeg, gif, mp4, mov, webm.", "/feed")
		default:
			h.pages.ServerError(w, r, "CreatePost", err)
		}
		return
	}

	flashRedirect(w, r, httputil.FlashSuccess, "Post published!", "/feed")
}

func (h *FeedHandler) addComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	postID, err := strconv.ParseInt(r.FormValue("post_id"), 10, 64)
	if err != nil {
		flashRedirect(w, r, httputil.FlashError, "Invalid comment.", "/feed")
		return
	}

	_, err = h.feedService.AddComment(r.Context(), user.ID, postID, r.FormValue("comment_content"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired), errors.Is(err, model.ErrPostNotFound):
			flashRedirect(w, r, httputil.FlashError, "Invalid comment.", "/feed")
		default:
			h.pages.ServerError(w, r, "AddComment", err)
		}
		return
	}

	flashRedirect(w, r, httputil.FlashSuccess, "Comment added!", "/feed")
}
