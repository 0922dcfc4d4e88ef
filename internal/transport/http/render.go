package http

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zachrizzo/hens-travel/internal/service"
)

//go:embed templates/*.html static/*
var assets embed.FS

type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"bookingDate": func(d *time.Time) string {
			if d == nil {
				return "-"
			}
			return d.Format("2006-01-02")
		},
		"problems": func(err error) []string {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return verr.Problems
			}
			return nil
		},
	}
	return &renderer{
		templates: template.Must(template.New("pages").Funcs(funcs).ParseFS(assets, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// chrome is what every page's head and footer need.
type chrome struct {
	Lang   string
	Title  string
	Year   int
	Rights string
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
