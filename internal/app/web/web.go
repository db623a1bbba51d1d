// Package web holds the HTML views rendered by the handlers.
package web

import (
	"embed"
	"html/template"
	"time"

	"offense_board/internal/platform/http/form"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available to every view.
var Funcs = template.FuncMap{
	"fieldErrors": fieldErrors,
	"date":        formatDate,
	"datetime":    formatDateTime,
}

// Templates parses the embedded views. Each page is defined under its file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html"))
}

func fieldErrors(errs form.Errors, field string) []string {
	return errs[field]
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
