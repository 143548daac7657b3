package resolution

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/model"
)

// State is the workflow position. Validation and submission failures
// return to StateOpen with the failure surfaced; StateCommitted is
// terminal for a given dialog.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateValidating
	StateSubmitting
	StateCommitted
)

// Field names reported for validation failures, used by the dialog to
// move focus to the first invalid field.
const (
	FieldAuditorName     = "auditor_name"
	FieldResolutionNotes = "resolution_notes"
	FieldResolutionDate  = "resolution_date"
)

// Outcome summarizes a Submit attempt.
type Outcome int

const (
	// OutcomeCommitted means the backend accepted the resolution.
	OutcomeCommitted Outcome = iota

	// OutcomeInvalid means validation failed locally; no network call
	// was made.
	OutcomeInvalid

	// OutcomeFailed means the backend rejected the resolution or the
	// request failed in transit.
	OutcomeFailed
)

// Updater is the slice of the backend client the workflow submits through.
type Updater interface {
	UpdateReportWithResolution(ctx context.Context, res model.Resolution) error
}

// Workflow drives the mark-resolved dialog: it owns the transient draft,
// validates the auditor metadata, and commits the status change. The
// draft is discarded on cancel or successful submit, never persisted.
type Workflow struct {
	state        State
	draft        model.Resolution
	errMsg       string
	invalidField string
}

// New returns an idle workflow.
func New() *Workflow {
	return &Workflow{state: StateIdle}
}

// Open starts the dialog for the given report: the date field is
// prefilled with today and any prior draft text is cleared.
func (w *Workflow) Open(reportID int, now time.Time) {
	w.state = StateOpen
	w.draft = model.Resolution{
		ReportID:       reportID,
		ResolutionDate: now.Format("2006-01-02"),
	}
	w.errMsg = ""
	w.invalidField = ""
}

// SetFields copies the dialog's current input into the draft.
func (w *Workflow) SetFields(auditorName, notes, date string) {
	w.draft.AuditorName = auditorName
	w.draft.ResolutionNotes = notes
	w.draft.ResolutionDate = date
}

// Submit validates the draft and, if it passes, sends it to the backend
// with the fixed target status Resolved. Either kind of failure returns
// the workflow to StateOpen with the error surfaced via Err.
func (w *Workflow) Submit(ctx context.Context, up Updater) Outcome {
	if w.state != StateOpen {
		return OutcomeInvalid
	}

	w.state = StateValidating
	if field, msg := w.validate(); field != "" {
		w.state = StateOpen
		w.invalidField = field
		w.errMsg = msg
		return OutcomeInvalid
	}

	w.state = StateSubmitting
	w.invalidField = ""
	if err := up.UpdateReportWithResolution(ctx, w.draft); err != nil {
		w.state = StateOpen
		w.errMsg = submitErrorMessage(err)
		return OutcomeFailed
	}

	w.state = StateCommitted
	w.errMsg = ""
	return OutcomeCommitted
}

// Cancel abandons the dialog and discards the draft. The caller reverts
// the originating status control.
func (w *Workflow) Cancel() {
	w.state = StateIdle
	w.draft = model.Resolution{}
	w.errMsg = ""
	w.invalidField = ""
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// ReportID returns the report the open dialog targets.
func (w *Workflow) ReportID() int {
	return w.draft.ReportID
}

// Draft returns a copy of the current draft.
func (w *Workflow) Draft() model.Resolution {
	return w.draft
}

// Err returns the message to surface for the last failure, or "".
func (w *Workflow) Err() string {
	return w.errMsg
}

// InvalidField names the first invalid field from the last validation
// failure, for focus placement.
func (w *Workflow) InvalidField() string {
	return w.invalidField
}

// validate checks the draft fields in focus order and reports the first
// empty one.
func (w *Workflow) validate() (field, msg string) {
	if strings.TrimSpace(w.draft.AuditorName) == "" {
		return FieldAuditorName, "Auditor name is required"
	}
	if strings.TrimSpace(w.draft.ResolutionNotes) == "" {
		return FieldResolutionNotes, "Resolution notes are required"
	}
	if strings.TrimSpace(w.draft.ResolutionDate) == "" {
		return FieldResolutionDate, "Resolution date is required"
	}
	return "", ""
}

// submitErrorMessage extracts the user-facing message for a failed
// submit: the backend's own message when it reported one, otherwise a
// generic retry prompt for transport failures.
func submitErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Failed to submit resolution. Please try again."
}
