// Package tui implements the two-pane terminal front-end: a searchable note
// list on the left, the title and body of the open note on the right.
package tui

import (
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/registry"
	"github.com/starford/notepad/internal/session"
)

type focus int

const (
	focusSearch focus = iota
	focusList
	focusTitle
	focusBody
	focusCount
)

// tickMsg fires the autosave.
type tickMsg time.Time

// StoreChangedMsg reports a change to the storage directory made by another process.
type StoreChangedMsg struct {
	Kind string
	Name string
}

// Option configures a Model.
type Option func(*Model)

// WithInterval sets the autosave interval.
func WithInterval(d time.Duration) Option {
	return func(m *Model) { m.interval = d }
}

// WithFlushOnExit saves the open note once more when quitting.
func WithFlushOnExit(on bool) Option {
	return func(m *Model) { m.flushOnExit = on }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copy = write }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model is the bubbletea model. All session calls happen inside Update, on
// bubbletea's event goroutine.
type Model struct {
	sess   *session.Session
	keys   KeyMap
	logger *slog.Logger

	search textinput.Model
	title  textinput.Model
	body   textarea.Model

	entries []registry.Entry
	cursor  int
	focus   focus

	interval    time.Duration
	flushOnExit bool
	copy        func(string) error

	// ownWrites remembers files this process wrote, so the watcher echo of
	// our own saves is not reported as an external change.
	ownWrites map[string]time.Time

	status        string
	width, height int
}

// ownWriteWindow bounds how long after a save a watcher event is treated as our own.
const ownWriteWindow = time.Second

// New creates the model over an existing session.
func New(sess *session.Session, opts ...Option) *Model {
	search := textinput.New()
	search.Placeholder = "Search titles"
	search.Prompt = "/ "

	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Select or create a note"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.MaxHeight = 0

	m := &Model{
		sess:      sess,
		keys:      DefaultKeyMap(),
		logger:    slog.Default(),
		search:    search,
		title:     title,
		body:      body,
		focus:     focusList,
		interval:  1500 * time.Millisecond,
		copy:      clipboard.WriteAll,
		ownWrites: make(map[string]time.Time),
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refreshList()
	m.loadCurrent()
	m.layout()
	return m
}

// Init starts the autosave timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Status returns the current status bar message.
func (m *Model) Status() string {
	return m.status
}

// refreshList re-filters the registry and keeps the cursor on the open note
// when it is still visible.
func (m *Model) refreshList() {
	m.entries = m.sess.Entries(m.search.Value())
	if _, pos, ok := m.sess.Current(); ok {
		for i, e := range m.entries {
			if e.Position == pos {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// loadCurrent copies the open note into the title and body widgets.
func (m *Model) loadCurrent() {
	n, _, ok := m.sess.Current()
	if !ok {
		m.title.SetValue("")
		m.body.SetValue("")
		return
	}
	m.title.SetValue(n.Title)
	m.body.SetValue(m.sess.CurrentContent())
}

func (m *Model) markOwn(names ...string) {
	now := time.Now()
	for _, n := range names {
		m.ownWrites[n] = now
	}
}

func (m *Model) isOwn(name string) bool {
	t, ok := m.ownWrites[name]
	return ok && time.Since(t) < ownWriteWindow
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.search.Blur()
	m.title.Blur()
	m.body.Blur()
	switch f {
	case focusSearch:
		return m.search.Focus()
	case focusTitle:
		return m.title.Focus()
	case focusBody:
		return m.body.Focus()
	}
	return nil
}

func (m *Model) layout() {
	left := m.leftWidth()
	m.search.Width = left - 4
	right := m.width - left - 4
	if right < 10 {
		right = 10
	}
	m.title.Width = right - 2
	m.body.SetWidth(right)
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	m.body.SetHeight(h)
}

func (m *Model) leftWidth() int {
	w := m.width / 3
	if w < 20 {
		w = 20
	}
	return w
}
