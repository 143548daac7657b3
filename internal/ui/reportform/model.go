package reportform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/theme"
)

// ReportSubmitMsg is dispatched when the user submits a new report.
type ReportSubmitMsg struct {
	Draft model.ReportDraft
}

// ReportFormCancelMsg is dispatched when the user cancels the form.
type ReportFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	problemType string
	location    string
	issue       string
	priority    string
}

// Model is the Bubble Tea model for the report submission form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new report form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// Start initializes the form with a cleared draft.
func (m *Model) Start() tea.Cmd {
	m.fb.problemType = ""
	m.fb.location = ""
	m.fb.issue = ""
	m.fb.priority = model.PriorityMedium
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the report form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		fb := m.fb
		return m, func() tea.Msg {
			return ReportSubmitMsg{
				Draft: model.ReportDraft{
					ProblemType: fb.problemType,
					Location:    strings.TrimSpace(fb.location),
					Issue:       strings.TrimSpace(fb.issue),
					Priority:    fb.priority,
				},
			}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ReportFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the report form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Report a Problem") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	typeOpts := make([]huh.Option[string], len(model.ProblemTypes))
	for i, t := range model.ProblemTypes {
		typeOpts[i] = huh.NewOption(t, t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Problem Type").
				Options(typeOpts...).
				Value(&m.fb.problemType),
			huh.NewInput().
				Title("Location").
				Placeholder("Street, barangay, landmark...").
				Value(&m.fb.location).
				Validate(validateRequired("Location")),
			huh.NewText().
				Title("Describe the Issue").
				Placeholder("What's wrong?").
				Value(&m.fb.issue).
				Validate(validateRequired("Description")),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
