package resolutionform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/resolution"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

// SubmitRequestMsg asks the app to run the workflow's submit step for
// the current draft.
type SubmitRequestMsg struct {
	ReportID int
}

// CancelMsg is dispatched when the user dismisses the dialog. The app
// reverts the originating status control to In Progress.
type CancelMsg struct {
	ReportID int
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	auditorName string
	notes       string
	date        string
}

// Model is the Bubble Tea model for the mark-resolved dialog. The
// workflow owns the draft and state; this model owns only the widgets.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	wf     *resolution.Workflow
	errMsg string
	busy   bool
	width  int
	height int
}

// New creates a new resolution dialog model over the given workflow.
func New(wf *resolution.Workflow, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		wf:     wf,
		width:  width,
		height: height,
	}
}

// Start opens the dialog for a report: date prefilled with today,
// prior draft text cleared.
func (m *Model) Start(reportID int) tea.Cmd {
	m.wf.Open(reportID, time.Now())
	m.fb.auditorName = ""
	m.fb.notes = ""
	m.fb.date = m.wf.Draft().ResolutionDate
	m.errMsg = ""
	m.busy = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Reopen returns the dialog to its editable state after a failed
// submit, surfacing the workflow's error message.
func (m *Model) Reopen() tea.Cmd {
	m.errMsg = m.wf.Err()
	m.busy = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.wf.SetFields(m.fb.auditorName, m.fb.notes, m.fb.date)
		reportID := m.wf.ReportID()
		return m, func() tea.Msg {
			return SubmitRequestMsg{ReportID: reportID}
		}
	}
	if m.form.State == huh.StateAborted {
		reportID := m.wf.ReportID()
		m.wf.Cancel()
		return m, func() tea.Msg {
			return CancelMsg{ReportID: reportID}
		}
	}

	return m, cmd
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{
		titleStyle.Render(
			fmt.Sprintf("Resolve Report #%d", m.wf.ReportID()),
		),
	}

	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			MarginBottom(1)
		parts = append(parts, errStyle.Render(m.errMsg))
	}

	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Submitting..."))
	} else {
		parts = append(parts, m.form.View())
	}

	return theme.DetailPanelStyle.
		Width(m.formWidth()).
		Render(strings.Join(parts, "\n"))
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Auditor Name").
				Placeholder("Who verified the fix?").
				Value(&m.fb.auditorName).
				Validate(validateRequired("Auditor name")),
			huh.NewText().
				Title("Resolution Notes").
				Placeholder("What was done?").
				Value(&m.fb.notes).
				Validate(validateRequired("Resolution notes")),
			huh.NewInput().
				Title("Resolution Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validateDate),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Resolution date is required")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
