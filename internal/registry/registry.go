// Package registry keeps the ordered in-memory list of note records.
package registry

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

// Entry is a record as it appears in a (possibly filtered) view.
// Position is the record's index in creation order.
type Entry struct {
	Position int
	Note     *models.Note
}

// Registry is the ordered sequence of note records. Order is creation order.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	records []*models.Note
}

// New builds a registry from records loaded off disk.
func New(records []models.Note) *Registry {
	r := &Registry{records: make([]*models.Note, 0, len(records))}
	for i := range records {
		n := records[i]
		r.records = append(r.records, &n)
	}
	return r
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records)
}

// At returns the record at position i.
func (r *Registry) At(i int) (*models.Note, error) {
	if i < 0 || i >= len(r.records) {
		return nil, fmt.Errorf("registry: position %d of %d: %w", i, len(r.records), apperr.ErrIndexOutOfRange)
	}
	return r.records[i], nil
}

// Records returns a copy of all records, ready to persist.
func (r *Registry) Records() []models.Note {
	out := make([]models.Note, len(r.records))
	for i, n := range r.records {
		out[i] = *n
	}
	return out
}

// Append adds a record at the end and returns it.
func (r *Registry) Append(title, filename, filepath string) *models.Note {
	n := &models.Note{Title: title, Filename: filename, Filepath: filepath}
	r.records = append(r.records, n)
	return n
}

// Rename sets the title of n in place. A blank title becomes models.UntitledTitle.
func (r *Registry) Rename(n *models.Note, title string) {
	n.Title = NormalizeTitle(title)
}

// IndexOf returns the creation-order position of n, or -1.
func (r *Registry) IndexOf(n *models.Note) int {
	for i, rec := range r.records {
		if rec == n {
			return i
		}
	}
	return -1
}

// All returns every record as a view entry.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.records))
	for i, n := range r.records {
		out[i] = Entry{Position: i, Note: n}
	}
	return out
}

// Filter returns the records whose title contains query, ignoring case.
// The registry itself is not modified.
func (r *Registry) Filter(query string) []Entry {
	return FilterEntries(r.All(), query)
}

// FilterEntries applies the title filter to an existing view, keeping its order.
func FilterEntries(entries []Entry, query string) []Entry {
	if query == "" {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Note.Title), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Titles extracts the titles of entries.
func Titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Note.Title
	}
	return out
}

// NormalizeTitle trims title and substitutes models.UntitledTitle when nothing is left.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return models.UntitledTitle
	}
	return t
}
