// Package session implements the editor session: which note is open, its
// editable buffer, and the load/save protocol against storage.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
	"github.com/starford/notepad/internal/registry"
	"github.com/starford/notepad/internal/storage"
)

// TitleTimeLayout formats the timestamp of a synthesized note title.
const TitleTimeLayout = "2006-01-02 15:04"

// Event kinds emitted to observers.
const (
	EventCreated = "created"
	EventRenamed = "renamed"
	EventSaved   = "saved"
)

// Event describes a completed mutation.
type Event struct {
	Kind     string
	Note     models.Note
	Position int
	// Content is set for created and saved events.
	Content string
}

// Observer is called after each successful mutation.
type Observer func(Event)

// Session mediates between the registry, storage, and a presentation layer.
// It is not safe for concurrent use; all calls must come from one goroutine.
type Session struct {
	store     storage.Provider
	reg       *registry.Registry
	now       func() time.Time
	logger    *slog.Logger
	observers []Observer

	current *models.Note
	buffer  string
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for new note titles.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithObserver registers a mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// New creates a session with no note selected.
func New(store storage.Provider, reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		store:  store,
		reg:    reg,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the registry from store and returns a session over it.
func Open(store storage.Provider, opts ...Option) *Session {
	return New(store, registry.New(store.LoadIndex()), opts...)
}

// Len returns the registry size.
func (s *Session) Len() int {
	return s.reg.Len()
}

// Entries returns the registry view filtered by query.
func (s *Session) Entries(query string) []registry.Entry {
	return s.reg.Filter(query)
}

// ListTitles returns the titles matching query, in creation order.
func (s *Session) ListTitles(query string) []string {
	return registry.Titles(s.reg.Filter(query))
}

// Current returns the open note, its position, and whether a note is open.
func (s *Session) Current() (models.Note, int, bool) {
	if s.current == nil {
		return models.Note{}, -1, false
	}
	return *s.current, s.reg.IndexOf(s.current), true
}

// Select opens the note at position and loads its content into the buffer.
// The previous buffer is discarded without saving. On error the state is unchanged.
func (s *Session) Select(position int) error {
	n, err := s.reg.At(position)
	if err != nil {
		return err
	}
	content, err := s.store.ReadContent(n.Filepath)
	if err != nil {
		return fmt.Errorf("session: open %q: %w", n.Title, err)
	}
	s.current = n
	s.buffer = content
	s.logger.Debug("session: note opened", slog.String("file", n.Filename), slog.Int("position", position))
	return nil
}

// Rename retitles the open note and persists the index.
func (s *Session) Rename(title string) error {
	if s.current == nil {
		return apperr.ErrNoSelection
	}
	s.reg.Rename(s.current, title)
	if err := s.store.SaveIndex(s.reg.Records()); err != nil {
		return fmt.Errorf("session: save index: %w", err)
	}
	s.emit(Event{Kind: EventRenamed, Note: *s.current, Position: s.reg.IndexOf(s.current)})
	return nil
}

// CreateNote appends a new empty note, persists it, and opens it.
func (s *Session) CreateNote() (models.Note, error) {
	size := s.reg.Len()
	filename := models.ContentFilename(size)
	path := s.store.NotePath(filename)
	title := models.NewNoteTitlePrefix + s.now().Format(TitleTimeLayout)

	if err := s.store.CreateEmptyFile(path); err != nil {
		return models.Note{}, fmt.Errorf("session: create note file: %w", err)
	}
	n := s.reg.Append(title, filename, path)
	s.current = n
	s.buffer = ""
	if err := s.store.SaveIndex(s.reg.Records()); err != nil {
		return *n, fmt.Errorf("session: save index: %w", err)
	}
	s.logger.Info("session: note created", slog.String("file", filename), slog.String("title", title))
	s.emit(Event{Kind: EventCreated, Note: *n, Position: size})
	return *n, nil
}

// CurrentContent returns the editable buffer.
func (s *Session) CurrentContent() string {
	return s.buffer
}

// SetContent replaces the editable buffer. Nothing is written until the next Tick.
func (s *Session) SetContent(text string) {
	s.buffer = text
}

// Tick writes the buffer of the open note, trailing whitespace trimmed.
// It writes on every call, changed or not. With no note open it does nothing.
func (s *Session) Tick() error {
	if s.current == nil {
		return nil
	}
	content := strings.TrimRightFunc(s.buffer, unicode.IsSpace)
	if err := s.store.WriteContent(s.current.Filepath, content); err != nil {
		return fmt.Errorf("session: autosave %s: %w", s.current.Filename, err)
	}
	s.emit(Event{Kind: EventSaved, Note: *s.current, Position: s.reg.IndexOf(s.current), Content: content})
	return nil
}

// Reload re-reads the index from storage and clears the selection.
func (s *Session) Reload() {
	s.reg = registry.New(s.store.LoadIndex())
	s.current = nil
	s.buffer = ""
}

// IsUserError reports whether err is a recoverable condition to show the user.
func IsUserError(err error) bool {
	return errors.Is(err, apperr.ErrIndexOutOfRange) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrNoSelection)
}

func (s *Session) emit(ev Event) {
	for _, o := range s.observers {
		o(ev)
	}
}
