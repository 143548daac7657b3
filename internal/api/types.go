package api

import "github.com/bayanapp/bayan-tui/internal/model"

// statusResponse is the plain {success, message} envelope returned by
// all mutating endpoints.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// reportsResponse wraps the report list endpoints.
type reportsResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Reports []model.Report `json:"reports"`
}

// countResponse wraps the scalar count endpoints. new_reports_count
// carries a success flag; notifications_count does not, so Success is
// only checked where the backend sends it.
type countResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// statsResponse wraps GET /api/stats.
type statsResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   model.Stats `json:"stats"`
}

// userResponse wraps the login and user_info endpoints.
type userResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    model.User `json:"user"`
}
