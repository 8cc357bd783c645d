package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed all:templates
var files embed.FS

const baseTemplate = "_base.html"

// Templates caches one parsed set per page, each combined with the base layout.
type Templates struct {
	pages map[string]*template.Template
}

func Parse() (*Templates, error) {
	entries, err := fs.ReadDir(files, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	t := &Templates{pages: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == baseTemplate || path.Ext(name) != ".html" {
			continue
		}
		tmpl, err := template.ParseFS(files, path.Join("templates", baseTemplate), path.Join("templates", name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		t.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return t, nil
}

// Page is the data every template receives.
type Page struct {
	Title    string
	User     string
	Messages []string
}

// Render executes the named page into a buffer first, so a template error
// never leaves a half written response.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data Page) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
