package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/noteservice"
)

// Error codes carried in error responses.
const (
	codeBadRequest   = "bad_request"
	codeOutOfRange   = "index_out_of_range"
	codeMissingFile  = "content_missing"
	codeNoSelection  = "no_selection"
	codeNoSearch     = "search_disabled"
	codeUnauthorized = "unauthorized"
	codeInternal     = "internal"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusTable maps session errors to responses. First match wins.
var statusTable = []struct {
	target error
	status int
	code   string
	msg    string
}{
	{apperr.ErrIndexOutOfRange, http.StatusBadRequest, codeOutOfRange, "index out of range"},
	{apperr.ErrNotFound, http.StatusNotFound, codeMissingFile, "content file missing"},
	{apperr.ErrNoSelection, http.StatusConflict, codeNoSelection, "no note selected"},
	{noteservice.ErrSearchDisabled, http.StatusServiceUnavailable, codeNoSearch, "search disabled"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func writeProblem(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeError maps a service error onto an HTTP status. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, op string, err error) {
	for _, e := range statusTable {
		if errors.Is(err, e.target) {
			writeProblem(w, e.status, e.code, e.msg)
			return
		}
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	writeProblem(w, http.StatusInternalServerError, codeInternal, "internal error")
}
