package presentation

import (
	"embed"
	"html/template"
	"io"

	humanize "github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"comma": humanize.Comma,
}).ParseFS(templateFS, "templates/*.html"))

func RenderDashboard(w io.Writer, d *Dashboard) error {
	return pages.ExecuteTemplate(w, "dashboard", d)
}

// RenderError writes a page that carries only the given message.
func RenderError(w io.Writer, message string) error {
	return pages.ExecuteTemplate(w, "error", message)
}
