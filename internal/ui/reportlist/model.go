package reportlist

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/keys"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

const fetchTimeout = 30 * time.Second

// ReportsLoadedMsg is sent when reports have been fetched from the backend.
type ReportsLoadedMsg struct {
	Reports []model.Report
	Err     error
}

// SelectedReportMsg is sent when the user opens a report's detail view.
type SelectedReportMsg struct {
	Report model.Report
}

// StatusChangeRequestMsg is sent when the admin picks a new status for
// the selected report. PrevStatus is what the control showed before, so
// the app can revert it on failure.
type StatusChangeRequestMsg struct {
	ReportID   int
	NewStatus  string
	PrevStatus string
}

// DeleteRequestMsg is sent when the user asks to delete the selected report.
type DeleteRequestMsg struct {
	ReportID int
}

// API is the slice of the backend client this view fetches through.
type API interface {
	UserReports(ctx context.Context, limit int) ([]model.Report, error)
	AllReports(ctx context.Context) ([]model.Report, error)
}

// Model is the report list view: my reports for users, all reports for
// admins. Filtering and search run client-side over the fetched set,
// the way the original dashboard filtered its table rows.
type Model struct {
	list          list.Model
	api           API
	keys          *keys.KeyMap
	admin         bool
	reports       []model.Report
	statusFilters map[string]bool
	query         string
	searchMode    bool
	searchInput   textinput.Model
	pickerOpen    bool
	pickerIndex   int
	loadErr       error
	width         int
	height        int
}

// New creates a new report list model. admin selects the all-reports
// fetch and enables the status picker and reporter column.
func New(a API, k *keys.KeyMap, admin bool, width, height int) Model {
	delegate := ItemDelegate{admin: admin}
	l := list.New([]list.Item{}, delegate, width, height-2)
	if admin {
		l.Title = "All Reports"
	} else {
		l.Title = "My Reports"
	}
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search reports..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:          l,
		api:           a,
		keys:          k,
		admin:         admin,
		statusFilters: make(map[string]bool),
		searchInput:   si,
		width:         width,
		height:        height,
	}
}

// Init returns a command that loads the initial set of reports.
func (m Model) Init() tea.Cmd {
	return m.LoadReports()
}

// Update handles messages for the report list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportsLoadedMsg:
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.reports = msg.Reports
		return m, m.applyFilters()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		if m.pickerOpen {
			return m.handlePickerKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyFilters()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilters()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handlePickerKeys processes key input while the status picker is open.
func (m Model) handlePickerKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pickerOpen = false
		return m, nil

	case "j", "down":
		m.pickerIndex = (m.pickerIndex + 1) % len(model.Statuses)
		return m, nil

	case "k", "up":
		m.pickerIndex = (m.pickerIndex + len(model.Statuses) - 1) % len(model.Statuses)
		return m, nil

	case "enter":
		m.pickerOpen = false
		item, ok := m.list.SelectedItem().(ReportItem)
		if !ok {
			return m, nil
		}
		newStatus := model.Statuses[m.pickerIndex]
		prev := item.Report.Status
		if newStatus == prev {
			return m, nil
		}
		return m, func() tea.Msg {
			return StatusChangeRequestMsg{
				ReportID:   item.Report.ID,
				NewStatus:  newStatus,
				PrevStatus: prev,
			}
		}
	}

	return m, nil
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ReportItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedReportMsg{Report: item.Report}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterPending):
		m.toggleStatusFilter(model.StatusPending)
		return m, m.applyFilters()

	case key.Matches(msg, m.keys.FilterInProgress):
		m.toggleStatusFilter(model.StatusInProgress)
		return m, m.applyFilters()

	case key.Matches(msg, m.keys.FilterResolved):
		m.toggleStatusFilter(model.StatusResolved)
		return m, m.applyFilters()

	case key.Matches(msg, m.keys.ChangeStatus):
		if !m.admin {
			return m, nil
		}
		item, ok := m.list.SelectedItem().(ReportItem)
		if !ok {
			return m, nil
		}
		m.pickerOpen = true
		m.pickerIndex = statusIndex(item.Report.Status)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(ReportItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteRequestMsg{ReportID: item.Report.ID}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleStatusFilter toggles a status filter on or off.
func (m *Model) toggleStatusFilter(status string) {
	if m.statusFilters[status] {
		delete(m.statusFilters, status)
	} else {
		m.statusFilters[status] = true
	}
}

// applyFilters rebuilds the visible item set from the fetched reports,
// the active status filters, and the search query.
func (m *Model) applyFilters() tea.Cmd {
	var items []list.Item
	for _, r := range m.reports {
		if len(m.statusFilters) > 0 && !m.statusFilters[r.Status] {
			continue
		}
		if m.query != "" && !matchesQuery(r, m.query) {
			continue
		}
		items = append(items, ReportItem{Report: r})
	}
	return m.list.SetItems(items)
}

// matchesQuery reports whether the report's text fields contain the
// query, case-insensitively.
func matchesQuery(r model.Report, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{
		r.ProblemType, r.Location, r.Issue, r.Status, r.Username,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// statusIndex returns the position of status in model.Statuses.
func statusIndex(status string) int {
	for i, s := range model.Statuses {
		if s == status {
			return i
		}
	}
	return 0
}

// SetReportStatus updates the displayed status of a report, used for
// optimistic updates and their rollbacks.
func (m *Model) SetReportStatus(reportID int, status string) tea.Cmd {
	for i := range m.reports {
		if m.reports[i].ID == reportID {
			m.reports[i].Status = status
			break
		}
	}
	return m.applyFilters()
}

// RemoveReport drops a report from the local set (optimistic delete).
func (m *Model) RemoveReport(reportID int) tea.Cmd {
	for i := range m.reports {
		if m.reports[i].ID == reportID {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			break
		}
	}
	return m.applyFilters()
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	for _, s := range model.Statuses {
		if m.statusFilters[s] {
			parts = append(parts, s)
		}
	}
	if m.query != "" {
		parts = append(parts, "\""+m.query+"\"")
	}
	if len(parts) == 0 {
		return ""
	}
	return "filter: " + strings.Join(parts, ", ")
}

// View renders the report list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if m.pickerOpen {
		return lipgloss.JoinVertical(
			lipgloss.Left, m.list.View(), m.renderPicker(),
		)
	}

	if m.loadErr != nil {
		return m.renderMessage("Failed to load reports.\nPress r to retry.")
	}

	if len(m.list.Items()) == 0 {
		if m.FilterSummary() != "" {
			return m.renderMessage("No matching reports.\nTry adjusting your filters.")
		}
		if m.admin {
			return m.renderMessage("No reports yet.")
		}
		return m.renderMessage("No reports yet.\n\nPress n to report a problem.")
	}

	return m.list.View()
}

// renderPicker draws the inline status picker under the list.
func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString("Set status: ")
	for i, s := range model.Statuses {
		label := theme.StatusStyle(s).Render(s)
		if i == m.pickerIndex {
			label = theme.SelectedItemStyle.Render("[" + s + "]")
		}
		b.WriteString(label)
		b.WriteString(" ")
	}
	return theme.DetailPanelStyle.Width(m.width - 4).Render(b.String())
}

// renderMessage shows centered guidance text.
func (m Model) renderMessage(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// LoadReports returns a tea.Cmd that fetches the role-appropriate
// report set from the backend.
func (m Model) LoadReports() tea.Cmd {
	a := m.api
	admin := m.admin
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		var (
			reports []model.Report
			err     error
		)
		if admin {
			reports, err = a.AllReports(ctx)
		} else {
			reports, err = a.UserReports(ctx, 0)
		}
		return ReportsLoadedMsg{Reports: reports, Err: err}
	}
}

// SelectedReport returns the report under the cursor.
func (m Model) SelectedReport() (model.Report, bool) {
	item, ok := m.list.SelectedItem().(ReportItem)
	if !ok {
		return model.Report{}, false
	}
	return item.Report, true
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
