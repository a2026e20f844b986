package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webFS embed.FS

// PagesHandler serves the embedded HTML pages and their assets. Pages are
// static; everything dynamic goes through the JSON API.
type PagesHandler struct{}

// Page serves a single embedded HTML file.
func (p *PagesHandler) Page(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := webFS.ReadFile("web/" + name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	})
}

// Static serves CSS/JS under /static/.
func (p *PagesHandler) Static() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		// The embed is part of the binary; a missing subtree is a build
		// defect, not a runtime condition.
		panic(err)
	}
	return http.FileServerFS(sub)
}
