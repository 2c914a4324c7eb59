package web

import (
	"net/http"

	"github.com/JonMunkholm/booklist/internal/config"
	"github.com/JonMunkholm/booklist/internal/core"
	"github.com/JonMunkholm/booklist/internal/logging"
	"github.com/JonMunkholm/booklist/internal/web/templates"
)

// BooksResponse is the JSON body of GET /api/books.
type BooksResponse struct {
	RunID    string      `json:"run_id"`
	Location string      `json:"location"`
	Count    int         `json:"count"`
	Books    []core.Book `json:"books"`
}

// handleIndex runs the pipeline and renders the page. On failure the table
// carries one error row and no book rows.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cat, err := s.service.Catalog(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.Page(s.cfg.Page.Title, templates.BookTable(cat.Books))
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err, "run_id", cat.RunID)
	}
}

// handleBooks returns the mapped books as JSON.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	cat, err := s.service.Catalog(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	books := cat.Books
	if books == nil {
		books = []core.Book{}
	}
	writeJSON(w, http.StatusOK, BooksResponse{
		RunID:    cat.RunID,
		Location: config.MaskLocation(cat.Location),
		Count:    len(books),
		Books:    books,
	})
}

// handleSourceFile publishes a local source file as-is so other clients can
// fetch the same CSV the page is built from.
func (s *Server) handleSourceFile(w http.ResponseWriter, r *http.Request) {
	location := s.service.Location()
	if !s.cfg.Source.Publish || !core.IsLocalFile(location) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, core.LocalPath(location))
}

// handleHealth reports liveness. It does not touch the source.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
