// Package views renders the HTML pages and carries flash messages between requests.
package views

import (
	"bytes"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the rendering context shared by every template.
type Page struct {
	Title   string
	Heading string
	User    models.Identity
	IsAdmin bool
	Flashes []string
	Posts   []*models.Post
	Post    *models.Post
	Form    map[string]string
	Errors  map[string]string
	Action  string
	Status  int
	Message string
}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

var pages = []string{"index", "post", "make-post", "register", "login", "about", "contact", "error"}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"gravatar": Gravatar,
		"date":     func(t time.Time) string { return t.Format(models.DateLayout) },
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes the page into a buffer so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page *Page) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Gravatar returns the avatar URL for email: 35px, rated g, retro fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{"s": {"35"}, "d": {"retro"}, "r": {"g"}}
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
