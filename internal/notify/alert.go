package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Alerter delivers a notification outside the application's own view,
// the terminal equivalent of a browser notification.
type Alerter interface {
	Alert(title, message string) error
}

// TerminalAlerter emits an OSC 9 desktop-notification escape plus a BEL.
// Terminals that support OSC 9 (kitty, iTerm2, WezTerm) raise a system
// notification; everything else at least rings the bell.
type TerminalAlerter struct {
	w io.Writer
}

// NewTerminalAlerter creates an alerter writing to w; nil means stderr,
// which stays outside Bubble Tea's managed stdout.
func NewTerminalAlerter(w io.Writer) *TerminalAlerter {
	if w == nil {
		w = os.Stderr
	}
	return &TerminalAlerter{w: w}
}

// Alert writes the notification escape sequence.
func (a *TerminalAlerter) Alert(title, message string) error {
	text := title
	if message != "" {
		text += ": " + message
	}
	// Control bytes inside the payload would terminate the sequence early.
	text = strings.Map(func(r rune) rune {
		if r < 0x20 {
			return ' '
		}
		return r
	}, text)

	_, err := fmt.Fprintf(a.w, "\x1b]9;%s\x07\a", text)
	return err
}
