// Package templates renders the HTML fragments the server patches into
// live pages: the page shell, marker pins, the tool control and the
// measurement overlay. Fragments ship embedded so the binary is
// self-contained; a web dir can override them during development.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"path/filepath"
	"sync"
)

//go:embed fragments/*.html
var embedded embed.FS

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// raw marks pre-rendered fragment HTML as safe
	"raw": func(s string) template.HTML {
		return template.HTML(s)
	},
	// dict builds a map from key-value pairs for nested templates
	"dict": func(values ...any) map[string]any {
		if len(values)%2 != 0 {
			return nil
		}
		m := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				continue
			}
			m[key] = values[i+1]
		}
		return m
	},
}

// PageData feeds the page shell template.
type PageData struct {
	Title string
	Slug  string
	Body  string
}

// Renderer manages the HTML fragment templates.
type Renderer struct {
	mu        sync.RWMutex
	templates *template.Template
}

// NewEmbedded creates a renderer over the embedded fragments.
func NewEmbedded() *Renderer {
	tmpl := template.Must(
		template.New("").Funcs(funcMap).ParseFS(embedded, "fragments/*.html"))
	return &Renderer{templates: tmpl}
}

// New creates a renderer from a fragments directory, falling back to
// the embedded set when the directory is missing or empty.
func New(fragmentsDir string) (*Renderer, error) {
	pattern := filepath.Join(fragmentsDir, "*.html")
	tmpl, err := template.New("").Funcs(funcMap).ParseGlob(pattern)
	if err != nil {
		return NewEmbedded(), nil
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustRender renders a template and panics on error. Use only for
// templates known to exist.
func (r *Renderer) MustRender(name string, data any) string {
	s, err := r.Render(name, data)
	if err != nil {
		panic(err)
	}
	return s
}
