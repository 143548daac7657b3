package store

import (
	"context"

	"github.com/bayanapp/bayan-tui/internal/model"
)

// Setting keys persisted between sessions.
const (
	// SettingLastNewReportCount is the admin check's scalar baseline.
	SettingLastNewReportCount = "lastNewReportCount"

	// SettingLastUpdateCheck records when the user check last completed.
	// Written for diagnostics; never read back for logic.
	SettingLastUpdateCheck = "lastUpdateCheck"

	// SettingLastAdminUpdateCheck records when the admin check last completed.
	SettingLastAdminUpdateCheck = "lastAdminUpdateCheck"

	// SettingDarkMode forces the dark palette when "true".
	SettingDarkMode = "darkMode"

	// SettingEnhancedUI toggles the richer dashboard rendering.
	SettingEnhancedUI = "useEnhancedUI"

	// SettingAlertPermission is the platform-alert permission tri-state:
	// "" (unasked), "granted", or "denied".
	SettingAlertPermission = "alertPermission"
)

// Alert permission values stored under SettingAlertPermission.
const (
	PermissionUnasked = ""
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

// Store defines the persistence interface for the client's local state:
// the notification list, the change-detection baselines, and settings.
type Store interface {
	// === Notifications ===
	//
	// The notification list is small and rewritten whole on every
	// mutation, so ordering is preserved exactly as given.

	SaveNotifications(ctx context.Context, records []model.Notification) error
	LoadNotifications(ctx context.Context) ([]model.Notification, error)

	// === Report snapshots (change-detection baseline) ===

	SaveSnapshots(ctx context.Context, snaps []model.Snapshot) error
	LoadSnapshots(ctx context.Context) (map[int]model.Snapshot, error)

	// === Settings ===

	// GetSetting returns the stored value, or "" when the key is unset.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
