package notify

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/store"
)

// AlertOutcome reports what happened to a platform alert request.
type AlertOutcome int

const (
	// AlertDelivered means the alert was handed to the platform.
	AlertDelivered AlertOutcome = iota

	// AlertNeedsPermission means permission is still unasked; the caller
	// should prompt the user and retry after a grant.
	AlertNeedsPermission

	// AlertSuppressed means permission was denied; denial is terminal
	// and the user is never re-prompted.
	AlertSuppressed
)

// Presenter reflects notification state into the UI surfaces: the
// numeric unread badge and platform-level alerts. The list view itself
// lives in internal/ui/notiflist and reads from the same Store.
type Presenter struct {
	notes    *Store
	alerter  Alerter
	settings store.Store
	log      *zap.Logger
}

// NewPresenter creates a presenter over the given notification store.
// The settings store persists the alert-permission tri-state.
func NewPresenter(notes *Store, alerter Alerter, settings store.Store, log *zap.Logger) *Presenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Presenter{
		notes:    notes,
		alerter:  alerter,
		settings: settings,
		log:      log,
	}
}

// BadgeText formats the unread count for the header badge: empty when
// zero (the badge is hidden), "99+" above 99.
func (p *Presenter) BadgeText() string {
	return FormatBadge(p.notes.UnreadCount())
}

// FormatBadge renders a raw unread count as badge text.
func FormatBadge(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > 99:
		return "99+"
	default:
		return strconv.Itoa(count)
	}
}

// Permission returns the persisted alert-permission state. Storage
// errors degrade to unasked, which only costs an extra prompt.
func (p *Presenter) Permission(ctx context.Context) string {
	v, err := p.settings.GetSetting(ctx, store.SettingAlertPermission)
	if err != nil {
		p.log.Warn("reading alert permission failed", zap.Error(err))
		return store.PermissionUnasked
	}
	return v
}

// Grant persists an affirmative permission answer.
func (p *Presenter) Grant(ctx context.Context) {
	p.setPermission(ctx, store.PermissionGranted)
}

// Deny persists a negative permission answer. Denial is terminal: no
// future alert will prompt again.
func (p *Presenter) Deny(ctx context.Context) {
	p.setPermission(ctx, store.PermissionDenied)
}

func (p *Presenter) setPermission(ctx context.Context, v string) {
	if err := p.settings.SetSetting(ctx, store.SettingAlertPermission, v); err != nil {
		p.log.Warn("persisting alert permission failed", zap.Error(err))
	}
}

// Alert requests a platform-level alert for the given title/message,
// honoring the permission tri-state.
func (p *Presenter) Alert(ctx context.Context, title, message string) AlertOutcome {
	switch p.Permission(ctx) {
	case store.PermissionDenied:
		return AlertSuppressed
	case store.PermissionUnasked:
		return AlertNeedsPermission
	}

	if err := p.alerter.Alert(title, message); err != nil {
		p.log.Warn("delivering platform alert failed", zap.Error(err))
	}
	return AlertDelivered
}
