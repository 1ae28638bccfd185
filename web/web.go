// Package web holds the embedded templates and static assets for the two
// application screens.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates holds the parsed screen templates.
var Templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// StaticHandler serves the embedded static assets.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
