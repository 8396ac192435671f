package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/placeholder-car.svg
var placeholderSVG []byte

// pages holds one template set per page; each set is the shared layout
// and partials plus the page's own content block.
type pages struct {
	set map[string]*template.Template
}

var pageNames = []string{"listing", "fragment", "detail", "notfound", "error"}

func loadPages() (*pages, error) {
	p := &pages{set: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.set[name] = t
	}
	return p, nil
}

// render executes the page into a buffer first so a template failure never
// leaves a half-written 200 response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, ok := s.pages.set[name]
	if !ok {
		s.log.Error("unknown page", "page", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	root := "page"
	if name == "fragment" {
		root = "fragment"
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, root, data); err != nil {
		s.log.Error("render page", "page", name, "error", err, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
