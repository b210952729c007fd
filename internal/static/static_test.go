package static

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterServesHashedStylesheet(t *testing.T) {
	Init()
	require.True(t, strings.HasPrefix(CSSAssetPath, "/static/styles."))
	require.True(t, strings.HasSuffix(CSSAssetPath, ".css"))

	mux := http.NewServeMux()
	Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CSSAssetPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestRegisterServesGalleryPlaceholder(t *testing.T) {
	Init()
	mux := http.NewServeMux()
	Register(mux)

	for _, path := range []string{"/static/img/galaxy-a55-azul-1.webp", "/favicon.ico", "/static/favicon.svg"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), path)
	}
}
