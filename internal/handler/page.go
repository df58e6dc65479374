package handler

import (
	"log"
	"net/http"

	"socialplay/internal/httputil"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

// Pages renders HTML pages with the signed-in user and pending flash notices.
type Pages struct {
	renderer *view.Renderer
}

func NewPages(renderer *view.Renderer) *Pages {
	return &Pages{renderer: renderer}
}

func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) {
	user, _ := middleware.CurrentUser(r.Context())
	p.renderer.Render(w, status, page, view.Page{
		Title:   title,
		User:    user,
		Flashes: httputil.PopFlashes(w, r),
		Data:    data,
	})
}

// Home handles GET /
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusOK, view.PageHome, "", nil)
}

// NotFound renders the generic 404 page.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusNotFound, view.PageNotFound, "Not found", nil)
}

// ServerError logs err and renders the generic 500 page.
func (p *Pages) ServerError(w http.ResponseWriter, r *http.Request, where string, err error) {
	logError(where, err)
	p.Render(w, r, http.StatusInternalServerError, view.PageError, "Error", nil)
}

// flashRedirect queues a notice and redirects with 303.
func flashRedirect(w http.ResponseWriter, r *http.Request, category, message, to string) {
	httputil.AddFlash(w, r, category, message)
	httputil.Redirect(w, r, to)
}

func logError(where string, err error) {
	log.Printf("[ERROR] %s handler: %v", where, err)
}
