package model

// Role identifies what kind of account the current session belongs to.
// It decides which report list is shown and which update check runs.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Report statuses exactly as the backend stores and returns them.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Statuses lists the report statuses in workflow order.
var Statuses = []string{StatusPending, StatusInProgress, StatusResolved}

// Report priorities as the backend stores them.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ProblemTypes are the categories offered by the report submission form.
var ProblemTypes = []string{
	"Pothole", "Garbage", "Light", "Water", "Noise", "Other",
}

// Report is a single community issue report as returned by the backend.
// Admin list responses additionally carry the reporter's username.
type Report struct {
	// ID is the backend-assigned report identifier.
	ID int `json:"id"`

	// ProblemType is the issue category (see ProblemTypes).
	ProblemType string `json:"problem_type"`

	// Location is the free-text place description.
	Location string `json:"location"`

	// Issue is the full problem description.
	Issue string `json:"issue"`

	// Date is the submission timestamp as the backend formats it
	// ("2006-01-02 15:04").
	Date string `json:"date"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// Username is the reporter's name; only present in admin responses.
	Username string `json:"username,omitempty"`

	// CreatedAt is the backend creation timestamp string.
	CreatedAt string `json:"created_at,omitempty"`

	// Resolution metadata, present once the report is Resolved.
	AuditorName     string `json:"auditor_name,omitempty"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
	ResolutionDate  string `json:"resolution_date,omitempty"`
}

// Snapshot is the minimal per-report baseline kept between update checks.
// Only the fields compared by the change detector are retained.
type Snapshot struct {
	ID          int    `json:"id"`
	Status      string `json:"status"`
	ProblemType string `json:"problem_type"`
}

// Snapshot reduces a report to its change-detection baseline.
func (r Report) Snapshot() Snapshot {
	return Snapshot{ID: r.ID, Status: r.Status, ProblemType: r.ProblemType}
}

// ReportDraft holds the fields of a not-yet-submitted report.
type ReportDraft struct {
	ProblemType string `json:"problem_type"`
	Location    string `json:"location"`
	Issue       string `json:"issue"`
	Priority    string `json:"priority"`
}

// Resolution carries the auditor metadata required to close a report.
type Resolution struct {
	ReportID        int    `json:"report_id"`
	AuditorName     string `json:"auditor_name"`
	ResolutionNotes string `json:"resolution_notes"`
	ResolutionDate  string `json:"resolution_date"`
}

// Stats is the dashboard counter block from GET /api/stats.
type Stats struct {
	MyReports  int `json:"my_reports"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Total      int `json:"total"`
}

// User is the authenticated account as reported by the login and
// user_info endpoints.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
