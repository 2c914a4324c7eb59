package web

// errors.go provides unified error response handling for the web layer.
//
// Every failure goes through respondError, which:
//  1. Maps the error via core.MapError to a user-facing message and code
//  2. Logs the technical error with the request ID for correlation
//  3. Renders JSON for API clients, or the page with the error row otherwise

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/booklist/internal/core"
	"github.com/JonMunkholm/booklist/internal/logging"
	"github.com/JonMunkholm/booklist/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the response status for a failed pipeline run: the source
// misbehaving is a bad gateway, a full load limiter is unavailable, anything
// else is ours.
func statusFor(err error) int {
	var loadErr *core.LoadError
	switch {
	case errors.As(err, &loadErr):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrTooManyLoads):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and returns the
// user-facing message in the format the client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	s.respondErrorPage(w, r, userMsg, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorPage renders the full page with a single error row in place of
// the book rows.
func (s *Server) respondErrorPage(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	page := templates.Page(s.cfg.Page.Title, templates.ErrorTable(msg))
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
