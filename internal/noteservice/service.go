// Package noteservice exposes the editor session to concurrent adapters
// (HTTP, MCP) by running every call on the event loop.
package noteservice

import (
	"context"
	"errors"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/eventloop"
	"github.com/starford/notepad/internal/index"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/session"
)

// ErrSearchDisabled is returned by Search when no content index is configured.
var ErrSearchDisabled = errors.New("search index disabled")

// NoteItem is one row of the note list.
type NoteItem struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// State describes the session selection and its buffer.
type State struct {
	Open     bool   `json:"open"`
	Position int    `json:"position"`
	Title    string `json:"title,omitempty"`
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content"`
}

// Service serializes session access through an event loop.
type Service struct {
	loop *eventloop.Loop
	sess *session.Session
	db   index.ContentIndex
}

// NewService creates a service. db may be nil when search is disabled.
func NewService(loop *eventloop.Loop, sess *session.Session, db index.ContentIndex) *Service {
	return &Service{loop: loop, sess: sess, db: db}
}

// List returns notes whose title matches query, in creation order.
func (s *Service) List(ctx context.Context, query string) ([]NoteItem, error) {
	var items []NoteItem
	err := s.loop.Do(ctx, func() error {
		entries := s.sess.Entries(query)
		items = make([]NoteItem, len(entries))
		for i, e := range entries {
			items[i] = NoteItem{Position: e.Position, Title: e.Note.Title, Filename: e.Note.Filename}
		}
		return nil
	})
	return items, err
}

// Create adds a note and opens it.
func (s *Service) Create(ctx context.Context) (State, error) {
	var st State
	err := s.loop.Do(ctx, func() error {
		if _, err := s.sess.CreateNote(); err != nil {
			return err
		}
		st = s.state()
		return nil
	})
	return st, err
}

// Current returns the selection state.
func (s *Service) Current(ctx context.Context) (State, error) {
	var st State
	err := s.loop.Do(ctx, func() error {
		st = s.state()
		return nil
	})
	return st, err
}

// Select opens the note at position.
func (s *Service) Select(ctx context.Context, position int) (State, error) {
	var st State
	err := s.loop.Do(ctx, func() error {
		if err := s.sess.Select(position); err != nil {
			return err
		}
		st = s.state()
		return nil
	})
	return st, err
}

// Rename retitles the open note.
func (s *Service) Rename(ctx context.Context, title string) (State, error) {
	var st State
	err := s.loop.Do(ctx, func() error {
		if err := s.sess.Rename(title); err != nil {
			return err
		}
		st = s.state()
		return nil
	})
	return st, err
}

// SetContent replaces the buffer of the open note. The next tick persists it.
func (s *Service) SetContent(ctx context.Context, text string) error {
	return s.loop.Do(ctx, func() error {
		s.sess.SetContent(text)
		return nil
	})
}

// Write replaces the buffer and saves it immediately.
func (s *Service) Write(ctx context.Context, text string) error {
	return s.loop.Do(ctx, func() error {
		if _, _, ok := s.sess.Current(); !ok {
			return apperr.ErrNoSelection
		}
		s.sess.SetContent(text)
		return s.sess.Tick()
	})
}

// Flush runs an autosave tick now.
func (s *Service) Flush(ctx context.Context) error {
	return s.loop.Do(ctx, s.sess.Tick)
}

// Reload re-reads the index from disk and clears the selection.
func (s *Service) Reload(ctx context.Context) error {
	return s.loop.Do(ctx, func() error {
		s.sess.Reload()
		return nil
	})
}

// Search queries the content index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, ErrSearchDisabled
	}
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(res), nil
}

func (s *Service) state() State {
	n, pos, ok := s.sess.Current()
	if !ok {
		return State{Position: -1}
	}
	return stateOf(n, pos, s.sess.CurrentContent())
}

func stateOf(n models.Note, pos int, content string) State {
	return State{Open: true, Position: pos, Title: n.Title, Filename: n.Filename, Content: content}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
