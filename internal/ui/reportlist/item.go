package reportlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

// ReportItem wraps a model.Report so it can be used in a bubbles/list.
type ReportItem struct {
	Report model.Report
}

// FilterValue returns the string used for fuzzy filtering.
func (i ReportItem) FilterValue() string {
	return i.Report.ProblemType + " " + i.Report.Location
}

// Title returns the report headline for the list.
func (i ReportItem) Title() string {
	return fmt.Sprintf("#%d %s", i.Report.ID, i.Report.ProblemType)
}

// Description returns a short summary line for the list.
func (i ReportItem) Description() string {
	parts := []string{
		i.Report.Status,
		i.Report.Location,
		i.Report.Date,
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering report rows.
type ItemDelegate struct {
	// admin shows the reporter's username column.
	admin bool
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the gap between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update is unused; key handling lives in the list model.
func (d ItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render draws a single report row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(ReportItem)
	if !ok {
		return
	}
	r := ri.Report

	id := fmt.Sprintf("#%-4d", r.ID)
	problem := theme.ProblemTypeStyle(r.ProblemType).Render(
		fmt.Sprintf("%-8s", r.ProblemType),
	)
	status := theme.StatusStyle(r.Status).Render(
		fmt.Sprintf("%-11s", r.Status),
	)
	priority := theme.PriorityStyle(r.Priority).Render(
		fmt.Sprintf("%-6s", r.Priority),
	)

	location := r.Location
	if len(location) > 30 {
		location = location[:27] + "..."
	}

	fields := []string{id, problem, status, priority, location}
	if d.admin && r.Username != "" {
		fields = append(fields, theme.HelpStyle.Render("by "+r.Username))
	}
	fields = append(fields, theme.HelpStyle.Render(r.Date))

	line := strings.Join(fields, " ")

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render("▸ "+line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}
