package model

import "time"

// Notification is a locally raised alert about activity on tracked reports.
// The client keeps at most MaxNotifications of these, newest first.
type Notification struct {
	// ID is monotonic within a session, derived from the creation clock.
	ID int64 `json:"id"`

	// Title classifies the event (e.g. "Report Resolved").
	Title string `json:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has acknowledged this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}

// MaxNotifications is the retention cap for the local notification list.
// The oldest records are evicted first once the cap is reached.
const MaxNotifications = 50
