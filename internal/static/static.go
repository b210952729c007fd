package static

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
)

//go:embed styles.css
var stylesCSS []byte

//go:embed favicon.svg
var favicon []byte

//go:embed placeholder.svg
var placeholder []byte

// CSSAssetPath carries the content hash so the stylesheet can be cached
// forever and still roll on deploy.
var CSSAssetPath string

func Init() {
	cssHash := fmt.Sprintf("%x", sha256.Sum256(stylesCSS))
	CSSAssetPath = fmt.Sprintf("/static/styles.%s.css", cssHash[:12])
}

// Register serves static assets and wires template asset paths.
func Register(mux *http.ServeMux) {

	mux.HandleFunc(CSSAssetPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(stylesCSS); err != nil {
			slog.ErrorContext(r.Context(), "failed to write stylesheet", "error", err)
		}
	})

	mux.HandleFunc("/static/favicon.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(favicon); err != nil {
			slog.ErrorContext(r.Context(), "failed to write favicon", "error", err)
		}
	})

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		if _, err := w.Write(favicon); err != nil {
			slog.ErrorContext(r.Context(), "failed to write favicon", "error", err)
		}
	})

	// The mock catalog points its galleries here.
	mux.HandleFunc("GET /static/img/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if _, err := w.Write(placeholder); err != nil {
			slog.ErrorContext(r.Context(), "failed to write placeholder image", "error", err)
		}
	})
}
