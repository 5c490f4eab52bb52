package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/starford/notepad/internal/noteservice"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// ListNotes handles GET /notes?q=.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Create(r.Context())
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// Reload handles POST /notes/reload.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, "reload", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Current(r.Context())
	if err != nil {
		writeError(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Select handles PUT /session/selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		writeProblem(w, http.StatusBadRequest, codeBadRequest, "position is required")
		return
	}
	st, err := h.svc.Select(r.Context(), *req.Position)
	if err != nil {
		writeError(w, "select", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Rename handles PUT /session/title.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.svc.Rename(r.Context(), req.Title)
	if err != nil {
		writeError(w, "rename", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SetContent handles PUT /session/content. The buffer is saved by the next tick.
func (h *Handler) SetContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetContent(r.Context(), req.Content); err != nil {
		writeError(w, "set content", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Flush handles POST /session/flush.
func (h *Handler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Flush(r.Context()); err != nil {
		writeError(w, "flush", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search?q=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeProblem(w, http.StatusBadRequest, codeBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
