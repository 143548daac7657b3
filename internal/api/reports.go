package api

import (
	"context"
	"fmt"

	"github.com/bayanapp/bayan-tui/internal/model"
)

// UserReports retrieves the current user's reports, newest first.
// limit <= 0 fetches all of them.
func (c *Client) UserReports(
	ctx context.Context,
	limit int,
) ([]model.Report, error) {
	path := "/api/user_reports"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var resp reportsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching user reports: %w", err)
	}
	if !resp.Success {
		return nil, envelopeError(resp.Message)
	}
	return resp.Reports, nil
}

// AllReports retrieves every report in the system. Admin only.
func (c *Client) AllReports(ctx context.Context) ([]model.Report, error) {
	var resp reportsResponse
	if err := c.Get(ctx, "/api/all_reports", &resp); err != nil {
		return nil, fmt.Errorf("fetching all reports: %w", err)
	}
	if !resp.Success {
		return nil, envelopeError(resp.Message)
	}
	return resp.Reports, nil
}

// NewReportsCount returns the number of reports awaiting admin attention.
func (c *Client) NewReportsCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.Get(ctx, "/api/new_reports_count", &resp); err != nil {
		return 0, fmt.Errorf("fetching new report count: %w", err)
	}
	if !resp.Success {
		return 0, envelopeError(resp.Message)
	}
	return resp.Count, nil
}

// NotificationsCount returns the server-side unread notification count.
// The endpoint answers {count: 0} for anonymous sessions rather than an
// error, so no envelope check applies.
func (c *Client) NotificationsCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.Get(ctx, "/api/notifications_count", &resp); err != nil {
		return 0, fmt.Errorf("fetching notification count: %w", err)
	}
	return resp.Count, nil
}

// Stats retrieves the dashboard counters.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var resp statsResponse
	if err := c.Get(ctx, "/api/stats", &resp); err != nil {
		return model.Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	if !resp.Success {
		return model.Stats{}, envelopeError(resp.Message)
	}
	return resp.Stats, nil
}

// SubmitReport files a new report for the current user.
func (c *Client) SubmitReport(
	ctx context.Context,
	draft model.ReportDraft,
) error {
	var resp statusResponse
	if err := c.Post(ctx, "/api/submit_report", draft, &resp); err != nil {
		return fmt.Errorf("submitting report: %w", err)
	}
	if !resp.Success {
		return envelopeError(resp.Message)
	}
	return nil
}

// UpdateReportStatus sets a report's status directly, without auditor
// metadata. Used for every transition except into Resolved.
func (c *Client) UpdateReportStatus(
	ctx context.Context,
	reportID int,
	status string,
) error {
	body := map[string]interface{}{
		"report_id": reportID,
		"status":    status,
	}

	var resp statusResponse
	err := c.Post(ctx, "/api/update_report_status", body, &resp)
	if err != nil {
		return fmt.Errorf("updating report %d status: %w", reportID, err)
	}
	if !resp.Success {
		return envelopeError(resp.Message)
	}
	return nil
}

// UpdateReportWithResolution marks a report Resolved, attaching the
// auditor name, notes, and resolution date.
func (c *Client) UpdateReportWithResolution(
	ctx context.Context,
	res model.Resolution,
) error {
	body := map[string]interface{}{
		"report_id":        res.ReportID,
		"status":           model.StatusResolved,
		"auditor_name":     res.AuditorName,
		"resolution_notes": res.ResolutionNotes,
		"resolution_date":  res.ResolutionDate,
	}

	var resp statusResponse
	err := c.Post(ctx, "/api/update_report_with_resolution", body, &resp)
	if err != nil {
		return fmt.Errorf("resolving report %d: %w", res.ReportID, err)
	}
	if !resp.Success {
		return envelopeError(resp.Message)
	}
	return nil
}

// DeleteReport removes any report. Admin only.
func (c *Client) DeleteReport(ctx context.Context, reportID int) error {
	return c.deleteReport(ctx, "/api/delete_report", reportID)
}

// DeleteUserReport removes one of the current user's own reports.
func (c *Client) DeleteUserReport(ctx context.Context, reportID int) error {
	return c.deleteReport(ctx, "/api/delete_user_report", reportID)
}

func (c *Client) deleteReport(
	ctx context.Context,
	path string,
	reportID int,
) error {
	body := map[string]interface{}{"report_id": reportID}

	var resp statusResponse
	if err := c.Post(ctx, path, body, &resp); err != nil {
		return fmt.Errorf("deleting report %d: %w", reportID, err)
	}
	if !resp.Success {
		return envelopeError(resp.Message)
	}
	return nil
}
