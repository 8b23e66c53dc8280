package web

// errors.go maps core error kinds to HTTP responses. The technical
// error is logged with the request ID; the client gets a JSON body with
// a user-friendly message and a support code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/veemap/taskdash/internal/core"
	"github.com/veemap/taskdash/internal/session"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// statusForError picks the HTTP status for a core error kind.
func statusForError(err error) int {
	var (
		schemaErr    *core.SchemaError
		notFoundErr  *core.NotFoundError
		duplicateErr *core.DuplicateNameError
		columnErr    *core.InvalidColumnError
		valueErr     *core.InvalidValueError
	)

	switch {
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &duplicateErr):
		return http.StatusConflict
	case errors.As(err, &columnErr), errors.As(err, &valueErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStoreFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes the mapped JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  userMsg.Message,
		Action: userMsg.Action,
		Code:   userMsg.Code,
	})
}

// respondBadRequest writes a 400 with a literal message for request
// shape problems that never reach the core.
func respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: "WB400"})
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
