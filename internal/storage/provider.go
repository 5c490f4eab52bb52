// Package storage persists the metadata index and note content files.
package storage

import "github.com/starford/notepad/internal/models"

// Provider is the interface for note storage operations.
type Provider interface {
	// LoadIndex returns the records of the metadata index, or none when it is missing or malformed.
	LoadIndex() []models.Note
	// SaveIndex overwrites the metadata index with records.
	SaveIndex(records []models.Note) error
	// ReadContent returns the full text of the note file at path.
	ReadContent(path string) (string, error)
	// WriteContent overwrites the note file at path with text.
	WriteContent(path, text string) error
	// CreateEmptyFile creates (or truncates) a zero-length note file at path.
	CreateEmptyFile(path string) error
	// NotePath joins filename onto the storage root.
	NotePath(filename string) string
	// Root returns the storage root directory.
	Root() string
}
