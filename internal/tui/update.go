package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/models"
)

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tickMsg:
		if err := m.sess.Tick(); err != nil {
			m.logger.Error("autosave failed", slog.String("error", err.Error()))
			m.status = "save failed: " + err.Error()
		} else if n, _, ok := m.sess.Current(); ok {
			m.markOwn(n.Filename)
		}
		return m, m.tick()

	case StoreChangedMsg:
		if m.isOwn(msg.Name) {
			return m, nil
		}
		m.status = fmt.Sprintf("%s %s on disk", msg.Name, msg.Kind)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.flushOnExit {
			if err := m.sess.Tick(); err != nil {
				m.logger.Error("flush on exit failed", slog.String("error", err.Error()))
			}
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.New):
		return m, m.createNote()

	case key.Matches(msg, m.keys.Copy):
		if err := m.copy(m.body.Value()); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied to clipboard"
		}
		return m, nil

	case key.Matches(msg, m.keys.NextFocus):
		return m, m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusList {
		return m, m.handleListKey(msg)
	}
	return m, m.updateFocused(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.entries) {
			m.open(m.entries[m.cursor].Position)
		}
	}
	return nil
}

// updateFocused forwards msg to the focused widget and pushes edits into the session.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.refreshList()
		}
	case focusTitle:
		before := m.title.Value()
		m.title, cmd = m.title.Update(msg)
		if m.title.Value() != before {
			m.rename(m.title.Value())
		}
	case focusBody:
		if _, _, ok := m.sess.Current(); !ok {
			return nil
		}
		before := m.body.Value()
		m.body, cmd = m.body.Update(msg)
		if v := m.body.Value(); v != before {
			m.sess.SetContent(v)
		}
	}
	return cmd
}

func (m *Model) open(position int) {
	if err := m.sess.Select(position); err != nil {
		m.status = err.Error()
		return
	}
	m.loadCurrent()
	m.status = ""
}

func (m *Model) rename(title string) {
	if err := m.sess.Rename(title); err != nil {
		m.status = err.Error()
		return
	}
	m.markOwn(models.IndexFilename)
	m.refreshList()
}

func (m *Model) createNote() tea.Cmd {
	n, err := m.sess.CreateNote()
	if err != nil {
		m.logger.Error("create note failed", slog.String("error", err.Error()))
		m.status = "create failed: " + err.Error()
		return nil
	}
	m.markOwn(models.IndexFilename, n.Filename)
	m.search.SetValue("")
	m.refreshList()
	m.loadCurrent()
	m.status = "created " + n.Filename
	return m.setFocus(focusTitle)
}
