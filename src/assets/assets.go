package assets

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves the static app shell. Responses are tagged with the cache
// version so a version bump invalidates everything a client held; GET-only,
// and navigation requests that miss fall back to the shell document so the
// app still opens offline. API traffic never routes through here.
func Handler(dir, version string) http.Handler {
	fs := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("ETag", `"`+version+`"`)
		w.Header().Set("Cache-Control", "public, max-age=86400")

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(path); err != nil && wantsDocument(r) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// wantsDocument detects navigation-type requests, the ones that should get
// the shell instead of a 404.
func wantsDocument(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
