// Package view is the seam between handlers and the template files
// deployed alongside the binary. Handlers hand a template name and a
// payload to a Renderer and never touch the template engine directly.
package view

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/drugis/mcda-patient/httpx"
)

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any)
}

type templates struct {
	root *template.Template
}

// NewTemplates loads every .html file under dir, keyed by its
// slash-separated path relative to dir (e.g. "admin/edit.html").
func NewTemplates(dir string) (Renderer, error) {
	root := template.New("")
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = root.New(filepath.ToSlash(rel)).Parse(string(content))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &templates{root}, nil
}

func (tpl *templates) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	err := tpl.root.ExecuteTemplate(&buf, name, data)
	if err != nil {
		httpx.LogInternalError(w, "view.render."+name, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
