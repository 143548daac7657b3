package notify_test

import (
	"context"
	"testing"

	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/tests/testutil"
)

// recordingAlerter captures delivered alerts for assertions.
type recordingAlerter struct {
	titles []string
}

func (a *recordingAlerter) Alert(title, message string) error {
	a.titles = append(a.titles, title)
	return nil
}

func TestFormatBadge(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, ""},
		{-3, ""},
		{1, "1"},
		{42, "42"},
		{99, "99"},
		{100, "99+"},
		{250, "99+"},
	}

	for _, tt := range tests {
		if got := notify.FormatBadge(tt.count); got != tt.want {
			t.Errorf("FormatBadge(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestBadgeTextTracksUnread(t *testing.T) {
	db := testutil.NewTestStore(t)
	notes := notify.NewStore(db, nil)
	p := notify.NewPresenter(notes, &recordingAlerter{}, db, nil)

	if got := p.BadgeText(); got != "" {
		t.Errorf("badge should be hidden with no records, got %q", got)
	}

	notes.Add("a", "")
	notes.Add("b", "")
	if got := p.BadgeText(); got != "2" {
		t.Errorf("badge = %q, want 2", got)
	}

	notes.MarkAllRead()
	if got := p.BadgeText(); got != "" {
		t.Errorf("badge should hide again at zero unread, got %q", got)
	}
}

func TestAlertAsksPermissionOnce(t *testing.T) {
	db := testutil.NewTestStore(t)
	notes := notify.NewStore(db, nil)
	alerter := &recordingAlerter{}
	p := notify.NewPresenter(notes, alerter, db, nil)
	ctx := context.Background()

	// First alert with permission unasked: nothing delivered yet.
	if got := p.Alert(ctx, "hello", ""); got != notify.AlertNeedsPermission {
		t.Fatalf("expected AlertNeedsPermission, got %v", got)
	}
	if len(alerter.titles) != 0 {
		t.Fatalf("alert delivered before permission was granted")
	}

	p.Grant(ctx)
	if got := p.Alert(ctx, "hello", "world"); got != notify.AlertDelivered {
		t.Fatalf("expected AlertDelivered after grant, got %v", got)
	}
	if len(alerter.titles) != 1 || alerter.titles[0] != "hello" {
		t.Errorf("unexpected delivered alerts: %v", alerter.titles)
	}

	// The grant persists across presenter instances.
	p2 := notify.NewPresenter(notes, alerter, db, nil)
	if got := p2.Permission(ctx); got != store.PermissionGranted {
		t.Errorf("permission not persisted, got %q", got)
	}
}

func TestDenialIsTerminal(t *testing.T) {
	db := testutil.NewTestStore(t)
	notes := notify.NewStore(db, nil)
	alerter := &recordingAlerter{}
	p := notify.NewPresenter(notes, alerter, db, nil)
	ctx := context.Background()

	p.Deny(ctx)

	for i := 0; i < 3; i++ {
		if got := p.Alert(ctx, "ignored", ""); got != notify.AlertSuppressed {
			t.Fatalf("expected AlertSuppressed after denial, got %v", got)
		}
	}
	if len(alerter.titles) != 0 {
		t.Errorf("suppressed alerts were delivered: %v", alerter.titles)
	}
}
