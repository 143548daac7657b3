package loginform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/theme"
)

// LoginSubmitMsg is dispatched when the user submits credentials.
type LoginSubmitMsg struct {
	Email    string
	Password string
	Remember bool
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	remember bool
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	errMsg string
	busy   bool
	width  int
	height int
}

// New creates a new login form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{remember: true},
		width:  width,
		height: height,
	}
}

// Start initializes the form, prefilling the email from the last session.
func (m *Model) Start(email string) tea.Cmd {
	m.fb.email = email
	m.fb.password = ""
	m.errMsg = ""
	m.busy = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError surfaces a login failure and re-opens the form for another try.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	m.busy = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login form.
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
		fb := m.fb
		return m, func() tea.Msg {
			return LoginSubmitMsg{
				Email:    strings.TrimSpace(fb.email),
				Password: fb.password,
				Remember: fb.remember,
			}
		}
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Sign in to BAYAN")}

	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			MarginBottom(1)
		parts = append(parts, errStyle.Render(m.errMsg))
	}

	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Signing in..."))
	} else {
		parts = append(parts, m.form.View())
	}

	content := strings.Join(parts, "\n")

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
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Remember password?").
				Value(&m.fb.remember),
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

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
