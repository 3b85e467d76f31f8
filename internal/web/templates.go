// templates.go -- Embedded server-rendered pages.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"timefmt": func(t interface{ Format(string) string }) string {
		return t.Format("2006-01-02 15:04:05")
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

// render executes a page template into a buffer first, so a template error
// becomes a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		InternalServerError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
