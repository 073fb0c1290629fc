package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/horizon/internal/authform"
)

// Page templates
const (
	PageAuthForm    = "auth_form.html"
	PageLinkAccount = "link_account.html"
	PageHome        = "home.html"
)

var pages = []string{PageAuthForm, PageLinkAccount, PageHome}

// Renderer executes the embedded page templates inside the shared layout
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template once
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"inputID": func(name string) string { return "field-" + name },
		"lower":   strings.ToLower,
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(Files, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// MustNewRenderer is NewRenderer for program start-up
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page with status. The page is buffered so a template error
// never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data interface{}) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %s", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// HomeData feeds the home page
type HomeData struct {
	Title    string
	Name     string
	Subtext  string
	SignedIn bool
}

// HomeSubtext is shown under the greeting on the home page
const HomeSubtext = "Access and manage your account and transactions efficiently."

// AuthFormData feeds the auth form and link account pages
type AuthFormData struct {
	authform.Page
}
