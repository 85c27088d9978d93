// Package web embeds the built game client (dist/) and serves it as a
// single-page application.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed all:dist
var distFS embed.FS

// SPAHandler returns an http.Handler that serves the embedded game client.
// Paths that match no file fall back to index.html; /api/ and /ws/ paths
// never do, so a mistyped endpoint is a 404 rather than the client page.
func SPAHandler() http.Handler {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return spaHandler(subFS)
}

func spaHandler(root fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/ws/") {
			http.NotFound(w, r)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if f, err := root.Open(path); err == nil {
			if closeErr := f.Close(); closeErr != nil {
				slog.Debug("web: failed to close embedded file", "path", path, "error", closeErr)
			}
			fileServer.ServeHTTP(w, r)
			return
		}

		// Client-side route: serve index.html.
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
