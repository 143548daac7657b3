package notiflist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/keys"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

// ChangedMsg is sent after any mutation so the app can refresh the
// unread badge in the header.
type ChangedMsg struct{}

// Model is the notification center view. It renders the local
// notification store newest-first with unread markers.
type Model struct {
	store  *notify.Store
	keys   *keys.KeyMap
	cursor int
	offset int
	width  int
	height int
}

// New creates a notification list over the given store.
func New(store *notify.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:  store,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Update handles key input for the notification list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampOffset()
		return m, nil

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
		m.clampOffset()
		return m, nil

	case key.Matches(keyMsg, m.keys.Select):
		m.store.MarkRead(m.cursor)
		return m, changed

	case key.Matches(keyMsg, m.keys.Delete):
		m.store.Delete(m.cursor)
		m.clampCursor()
		return m, changed

	case key.Matches(keyMsg, m.keys.MarkAllRead):
		m.store.MarkAllRead()
		return m, changed

	case key.Matches(keyMsg, m.keys.ClearAll):
		m.store.ClearAll()
		m.cursor = 0
		m.offset = 0
		return m, changed
	}

	return m, nil
}

func changed() tea.Msg {
	return ChangedMsg{}
}

// clampCursor keeps the cursor inside the record range after deletes.
func (m *Model) clampCursor() {
	if n := m.store.Len(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	} else if n == 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

// clampOffset scrolls the window to keep the cursor visible.
func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleRows is how many notification rows fit in the viewport.
// Each record renders as two lines plus a spacer.
func (m Model) visibleRows() int {
	rows := (m.height - 2) / 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

// View renders the notification list.
func (m Model) View() string {
	records := m.store.Records()
	if len(records) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications")
	}

	var b strings.Builder
	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(records) {
		end = len(records)
	}

	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRecord(records[i], i == m.cursor))
		b.WriteString("\n")
	}

	if unread := m.store.UnreadCount(); unread > 0 {
		b.WriteString(theme.HelpStyle.Render(
			fmt.Sprintf("%d unread", unread)))
	}

	return b.String()
}

// renderRecord draws one notification as a title line and message line.
func (m Model) renderRecord(n model.Notification, selected bool) string {
	marker := "  "
	if !n.Read {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("● ")
	}

	cursor := "  "
	if selected {
		cursor = theme.SelectedItemStyle.Render("▸ ")
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	if n.Read {
		titleStyle = titleStyle.Foreground(theme.ColorGray)
	} else {
		titleStyle = titleStyle.Bold(true)
	}

	title := titleStyle.Render(n.Title)
	when := theme.HelpStyle.Render(n.CreatedAt.Format("Jan 2 15:04"))
	message := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(m.width - 6).
		Render(n.Message)

	return fmt.Sprintf("%s%s%s  %s\n    %s\n", cursor, marker, title, when, message)
}

// SetSize updates the list dimensions and clamps the cursor window.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampCursor()
}
