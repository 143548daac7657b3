package statsview

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

const fetchTimeout = 30 * time.Second

// StatsLoadedMsg is sent when the stats counters have been fetched.
type StatsLoadedMsg struct {
	Stats model.Stats
	Err   error
}

// API is the slice of the backend client the dashboard fetches through.
type API interface {
	Stats(ctx context.Context) (model.Stats, error)
}

// Model is the stats dashboard: counter cards for report totals,
// mirroring the summary cards on the original dashboard.
type Model struct {
	api      API
	admin    bool
	enhanced bool
	stats    model.Stats
	loaded   bool
	loadErr  error
	width    int
	height   int
}

// New creates a stats dashboard model. With enhanced off the counters
// render as plain rows instead of bordered cards.
func New(a API, admin, enhanced bool, width, height int) Model {
	return Model{api: a, admin: admin, enhanced: enhanced, width: width, height: height}
}

// Init returns a command that loads the counters.
func (m Model) Init() tea.Cmd {
	return m.LoadStats()
}

// Update handles messages for the stats dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if loaded, ok := msg.(StatsLoadedMsg); ok {
		if loaded.Err != nil {
			m.loadErr = loaded.Err
			return m, nil
		}
		m.loadErr = nil
		m.stats = loaded.Stats
		m.loaded = true
	}
	return m, nil
}

// LoadStats returns a tea.Cmd that fetches the counters.
func (m Model) LoadStats() tea.Cmd {
	a := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		stats, err := a.Stats(ctx)
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// View renders the dashboard cards.
func (m Model) View() string {
	if m.loadErr != nil {
		return m.centered("Failed to load stats.\nPress r to retry.")
	}
	if !m.loaded {
		return m.centered("Loading stats...")
	}

	render := m.card
	if !m.enhanced {
		render = m.row
	}

	cards := []string{
		render("Pending", m.stats.Pending, theme.ColorYellow),
		render("In Progress", m.stats.InProgress, theme.ColorBlue),
		render("Resolved", m.stats.Resolved, theme.ColorGreen),
	}
	if m.admin {
		cards = append(cards, render("Total", m.stats.Total, theme.ColorWhite))
	} else {
		cards = append(cards, render("My Reports", m.stats.MyReports, theme.ColorWhite))
	}

	var row string
	if m.enhanced {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(row)
}

// card renders one counter card.
func (m Model) card(label string, count int, color lipgloss.AdaptiveColor) string {
	number := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(fmt.Sprintf("%d", count))
	caption := theme.HelpStyle.Render(label)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Padding(0, 2).
		Margin(0, 1).
		Align(lipgloss.Center).
		Render(number + "\n" + caption)
}

// centered renders a placeholder message in the middle of the view.
func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.HelpStyle.Render(text))
}

// SetEnhanced switches between card and plain-row rendering.
func (m *Model) SetEnhanced(enhanced bool) {
	m.enhanced = enhanced
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// row renders one counter as a plain label line.
func (m Model) row(label string, count int, color lipgloss.AdaptiveColor) string {
	number := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(fmt.Sprintf("%4d", count))
	return fmt.Sprintf("%s  %s", number, theme.HelpStyle.Render(label))
}
