package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*
var embeddedTemplatesFS embed.FS

// loadTemplate parses base.html plus one page template from the
// embedded filesystem. Templates are parsed per render to avoid
// template name conflicts between pages.
func loadTemplate(name string) *template.Template {
	return template.Must(template.ParseFS(embeddedTemplatesFS,
		"templates/base.html", "templates/"+name))
}
