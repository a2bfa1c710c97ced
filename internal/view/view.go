// Package view renders the public pages with html/template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/studio-site/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages lists the page templates; each is parsed together with layout.html.
var Pages = []string{"home", "shows", "join", "contact"}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"icon": model.IconGlyph,
	"focal": func(x, y float64) string {
		return model.FocalPoint{X: x, Y: y}.CSSPosition()
	},
	"youtubeThumb": func(videoID string) string {
		if videoID == "" {
			return ""
		}
		return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
	},
	"fallback": func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	},
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the layout of the named page with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
