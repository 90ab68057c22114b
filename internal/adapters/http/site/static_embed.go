package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// FS returns an http.FileSystem for the embedded stylesheet and assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// pageTemplate is parsed once; a broken template is a build defect.
var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))
