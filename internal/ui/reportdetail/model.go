package reportdetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/keys"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the scrollable single-report view: the full issue text plus
// the resolution record once one exists.
type Model struct {
	report   model.Report
	hasData  bool
	admin    bool
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new report detail model.
func New(k *keys.KeyMap, admin bool, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		admin:    admin,
		width:    width,
		height:   height,
	}
}

// SetReport loads a report into the view and scrolls to the top.
func (m *Model) SetReport(r model.Report) {
	m.report = r
	m.hasData = true
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if !m.hasData {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No report selected")
	}
	return m.viewport.View()
}

// renderContent builds the scrollable body.
func (m Model) renderContent() string {
	r := m.report
	var b strings.Builder

	title := fmt.Sprintf("#%d  %s", r.ID, r.ProblemType)
	b.WriteString(theme.HeaderStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.field("Status", theme.StatusStyle(r.Status).Render(r.Status)))
	b.WriteString(m.field("Priority", theme.PriorityStyle(r.Priority).Render(r.Priority)))
	b.WriteString(m.field("Location", r.Location))
	if r.Date != "" {
		b.WriteString(m.field("Submitted", r.Date))
	}
	if m.admin && r.Username != "" {
		b.WriteString(m.field("Reported by", r.Username))
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(m.width - 4).
		Foreground(theme.ColorWhite).
		Render(r.Issue))
	b.WriteString("\n")

	if r.Status == model.StatusResolved && r.AuditorName != "" {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("Resolution"))
		b.WriteString("\n")
		b.WriteString(m.field("Auditor", r.AuditorName))
		b.WriteString(m.field("Date", r.ResolutionDate))
		if r.ResolutionNotes != "" {
			b.WriteString(lipgloss.NewStyle().
				Width(m.width - 4).
				Foreground(theme.ColorWhite).
				Render(r.ResolutionNotes))
			b.WriteString("\n")
		}
	}

	return theme.DetailPanelStyle.Width(m.width - 2).Render(b.String())
}

// field formats one label/value line.
func (m Model) field(label, value string) string {
	l := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(12).
		Render(label)
	return fmt.Sprintf("%s %s\n", l, value)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
