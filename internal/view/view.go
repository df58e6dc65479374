package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"socialplay/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render
const (
	PageHome        = "home"
	PageRegister    = "register"
	PageLogin       = "login"
	PageProfile     = "profile"
	PageEditProfile = "edit_profile"
	PageFeed        = "feed"
	PageGames       = "games"
	PageTetris      = "tetris"
	PagePacman      = "pacman"
	PageRanking     = "ranking"
	PageChat        = "ai_chat"
	PageNotFound    = "404"
	PageError       = "500"
)

var pages = []string{
	PageHome, PageRegister, PageLogin, PageProfile, PageEditProfile, PageFeed,
	PageGames, PageTetris, PagePacman, PageRanking, PageChat, PageNotFound, PageError,
}

// Page is the data passed to every template. Data holds the page-specific value.
type Page struct {
	Title   string
	User    *model.User
	Flashes []model.Flash
	Data    interface{}
}

// Static returns the built-in stylesheet, scripts and images, rooted so that
// "js/tetris.js" is served as /static/js/tetris.js.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render writes the named page. The template is executed into a buffer first
// so a failing template never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("[ERROR] Render: unknown page %q", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Printf("[ERROR] Render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatTime": FormatTime,
		"deref":      deref,
		"inc":        func(i int) int { return i + 1 },
	}
}

// FormatTime renders a timestamp the way pages show it.
func FormatTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func deref(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return ""
		}
		return *p
	case *int:
		if p == nil {
			return ""
		}
		return *p
	default:
		return v
	}
}
