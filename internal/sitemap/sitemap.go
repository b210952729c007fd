package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
)

type productLister interface {
	ListProducts(ctx context.Context) ([]catalog.Summary, error)
}

type Server struct {
	catalog productLister
	base    string
}

const robots = `User-agent: *
Allow: /

Sitemap: %s/sitemap.xml
`

func New(catalog productLister, base string) *Server {
	return &Server{catalog: catalog, base: strings.TrimRight(base, "/")}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		http.Error(w, "failed to load sitemap", http.StatusInternalServerError)
		slog.ErrorContext(r.Context(), "failed to list products for sitemap", "error", err)
		return
	}

	entries := make([]urlEntry, 0, len(products)+1)
	entries = append(entries, urlEntry{Loc: s.base + "/"})
	for _, product := range products {
		entries = append(entries, urlEntry{Loc: fmt.Sprintf("%s/products/%d", s.base, product.ID)})
	}
	slog.InfoContext(r.Context(), "serving sitemap", "count", len(entries))

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		slog.ErrorContext(r.Context(), "failed to write sitemap header", "error", err)
		return
	}
	if err := xml.NewEncoder(w).Encode(urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  entries,
	}); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode sitemap", "error", err)
	}
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := fmt.Fprintf(w, robots, s.base); err != nil {
		slog.ErrorContext(r.Context(), "failed to write robots.txt", "error", err)
	}
}
