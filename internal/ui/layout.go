package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bayanapp/bayan-tui/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar: title on the left, the unread
// badge (when non-empty) and the poll status on the right.
func (l Layout) RenderHeader(title, badge, pollStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	right := pollStatus
	rightRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(right)

	var badgeRendered string
	if badge != "" {
		badgeRendered = theme.BadgeStyle.Render(badge)
	}

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(badgeRendered) -
		lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		badgeRendered,
		rightRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or a
// transient toast message.
func (l Layout) RenderStatusBar(hints string, isToast bool) string {
	style := theme.StatusBarStyle
	if isToast {
		style = theme.ToastStyle
	}
	rendered := style.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
