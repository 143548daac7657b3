package resolution_test

import (
	"context"
	"testing"
	"time"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/resolution"
)

// fakeUpdater records submissions and returns a configured error.
type fakeUpdater struct {
	calls []model.Resolution
	err   error
}

func (f *fakeUpdater) UpdateReportWithResolution(_ context.Context, res model.Resolution) error {
	f.calls = append(f.calls, res)
	return f.err
}

var openTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestOpenPrefillsDate(t *testing.T) {
	wf := resolution.New()
	wf.Open(7, openTime)

	if wf.State() != resolution.StateOpen {
		t.Fatalf("expected StateOpen, got %v", wf.State())
	}
	if wf.ReportID() != 7 {
		t.Errorf("report id = %d, want 7", wf.ReportID())
	}
	if got := wf.Draft().ResolutionDate; got != "2026-03-14" {
		t.Errorf("prefilled date = %q, want 2026-03-14", got)
	}
}

func TestSubmitEmptyFieldsMakesNoRequest(t *testing.T) {
	tests := []struct {
		name    string
		auditor string
		notes   string
		date    string
		field   string
	}{
		{"all empty", "", "", "", resolution.FieldAuditorName},
		{"missing notes", "R. Santos", "", "2026-03-14", resolution.FieldResolutionNotes},
		{"missing date", "R. Santos", "patched", "", resolution.FieldResolutionDate},
		{"whitespace only", "   ", "\t", " ", resolution.FieldAuditorName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpdater{}
			wf := resolution.New()
			wf.Open(3, openTime)
			wf.SetFields(tt.auditor, tt.notes, tt.date)

			outcome := wf.Submit(context.Background(), up)

			if outcome != resolution.OutcomeInvalid {
				t.Fatalf("expected OutcomeInvalid, got %v", outcome)
			}
			if len(up.calls) != 0 {
				t.Fatalf("invalid submit reached the backend: %d calls", len(up.calls))
			}
			if wf.State() != resolution.StateOpen {
				t.Errorf("expected dialog back in StateOpen, got %v", wf.State())
			}
			if wf.InvalidField() != tt.field {
				t.Errorf("invalid field = %q, want %q", wf.InvalidField(), tt.field)
			}
			if wf.Err() == "" {
				t.Error("expected a validation message")
			}
		})
	}
}

func TestSubmitCommits(t *testing.T) {
	up := &fakeUpdater{}
	wf := resolution.New()
	wf.Open(12, openTime)
	wf.SetFields("R. Santos", "Pothole filled and surface repaved.", "2026-03-14")

	outcome := wf.Submit(context.Background(), up)

	if outcome != resolution.OutcomeCommitted {
		t.Fatalf("expected OutcomeCommitted, got %v", outcome)
	}
	if wf.State() != resolution.StateCommitted {
		t.Errorf("expected StateCommitted, got %v", wf.State())
	}
	if len(up.calls) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(up.calls))
	}

	sent := up.calls[0]
	if sent.ReportID != 12 {
		t.Errorf("sent report id = %d, want 12", sent.ReportID)
	}
	if sent.AuditorName != "R. Santos" || sent.ResolutionDate != "2026-03-14" {
		t.Errorf("unexpected payload: %+v", sent)
	}
}

func TestSubmitFailureReopensWithMessage(t *testing.T) {
	up := &fakeUpdater{err: &api.Error{Message: "Report not found!"}}
	wf := resolution.New()
	wf.Open(4, openTime)
	wf.SetFields("R. Santos", "notes", "2026-03-14")

	outcome := wf.Submit(context.Background(), up)

	if outcome != resolution.OutcomeFailed {
		t.Fatalf("expected OutcomeFailed, got %v", outcome)
	}
	if wf.State() != resolution.StateOpen {
		t.Errorf("expected StateOpen after failure, got %v", wf.State())
	}
	if wf.Err() != "Report not found!" {
		t.Errorf("error message = %q, want backend message", wf.Err())
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	wf := resolution.New()
	wf.Open(9, openTime)
	wf.SetFields("R. Santos", "half-typed notes", "2026-03-14")

	wf.Cancel()

	if wf.State() != resolution.StateIdle {
		t.Fatalf("expected StateIdle after cancel, got %v", wf.State())
	}
	if wf.Draft().ResolutionNotes != "" {
		t.Error("draft survived cancel")
	}

	// Reopening starts clean.
	wf.Open(9, openTime)
	if wf.Draft().AuditorName != "" || wf.Err() != "" {
		t.Error("stale state after reopen")
	}
}
