package api

import (
	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/noteservice"
)

// NoteItem is one row of the note list (aliased from the service layer).
type NoteItem = noteservice.NoteItem

// SessionState is the selection and buffer (aliased from the service layer).
type SessionState = noteservice.State

// NoteListResponse wraps the note list.
type NoteListResponse struct {
	Notes []NoteItem `json:"notes"`
}

// SelectRequest is the body of PUT /session/selection.
type SelectRequest struct {
	Position *int `json:"position"`
}

// RenameRequest is the body of PUT /session/title.
type RenameRequest struct {
	Title string `json:"title"`
}

// ContentRequest is the body of PUT /session/content.
type ContentRequest struct {
	Content string `json:"content"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}
