package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
	activePaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
	openStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Background(lipgloss.Color("8")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the screen.
func (m *Model) View() string {
	left := m.leftWidth()
	listHeight := m.height - 7
	if listHeight < 1 {
		listHeight = 1
	}

	var list strings.Builder
	list.WriteString(m.search.View())
	list.WriteString("\n\n")
	list.WriteString(m.renderList(left-4, listHeight))

	leftPane := m.pane(m.focus == focusSearch || m.focus == focusList).
		Width(left - 2).
		Height(m.height - 4).
		Render(list.String())

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(m.focus == focusTitle).Width(m.width-left-4).Render(m.title.View()),
		m.pane(m.focus == focusBody).Render(m.body.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, leftPane, right),
		m.statusLine(),
	)
}

func (m *Model) pane(active bool) lipgloss.Style {
	if active {
		return activePaneStyle
	}
	return paneStyle
}

func (m *Model) renderList(width, height int) string {
	if len(m.entries) == 0 {
		return helpStyle.Render("no notes")
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	_, openPos, open := m.sess.Current()

	var b strings.Builder
	for i := start; i < len(m.entries) && i < start+height; i++ {
		e := m.entries[i]
		line := truncate(e.Note.Title, width-2)
		switch {
		case i == m.cursor && m.focus == focusList:
			line = selectedStyle.Render("> " + line)
		case open && e.Position == openPos:
			line = openStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) statusLine() string {
	var help []string
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	text := strings.Join(help, " • ")
	if m.status != "" {
		text = m.status + "  " + helpStyle.Render(text)
	}
	return statusStyle.Width(m.width).Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
