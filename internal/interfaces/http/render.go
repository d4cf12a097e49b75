package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"
)

// Page templates, each parsed together with the layout and partials.
const (
	viewHome        = "home"
	viewReport      = "report"
	viewSimulations = "simulations"
	viewLogin       = "login"
)

var views = []string{viewHome, viewReport, viewSimulations, viewLogin}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses templates/<view>.html of fsys for every view.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(views))}
	for _, v := range views {
		t, err := template.ParseFS(fsys,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+v+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", v, err)
		}
		r.pages[v] = t
	}
	return r, nil
}

// Render writes the view with status. The page is buffered so a template
// error still yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) {
	t, ok := rd.pages[view]
	if !ok {
		zerolog.Ctx(r.Context()).Error().Str("view", view).Msg("unknown view")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("view", view).Msg("failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
