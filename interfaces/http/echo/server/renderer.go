package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Renderer executes one page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, path.Join("templates", layoutFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		page, err := template.Must(layout.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}
