package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/model"
)

func newServer(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, nil)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestLoginSuccess(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "resident@example.com" {
			t.Errorf("email = %q", body["email"])
		}

		writeJSON(w, map[string]interface{}{
			"success": true,
			"user": map[string]interface{}{
				"id": 5, "username": "resident", "role": "user",
			},
		})
	})

	user, err := client.Login(context.Background(), "resident@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != 5 || user.Username != "resident" || user.IsAdmin() {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLoginRejectedCarriesMessage(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": false, "message": "Invalid email or password!",
		})
	})

	_, err := client.Login(context.Background(), "x@example.com", "bad")
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid email or password!" {
		t.Errorf("expected backend message, got %v", err)
	}
	if api.IsAuthError(err) {
		t.Error("a rejected login is not a session failure")
	}
}

func TestSessionFailureOverHTTP200(t *testing.T) {
	// The backend reports a missing session as success:false with a
	// fixed message and status 200.
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": false, "message": "Please login first!",
		})
	})

	_, err := client.UserReports(context.Background(), 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !api.IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestHTTP401IsAuthError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Stats(context.Background())
	if !api.IsAuthError(err) {
		t.Errorf("expected auth error on 401, got %v", err)
	}
}

func TestRetriesOn429(t *testing.T) {
	attempts := 0
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "count": 4})
	})

	count, err := client.NewReportsCount(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestUserReportsDecoded(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"success": true,
			"reports": []map[string]interface{}{
				{
					"id": 1, "problem_type": "Pothole", "location": "Main St",
					"status": "Pending", "priority": "High",
				},
			},
		})
	})

	reports, err := client.UserReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetching reports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Status != model.StatusPending || reports[0].ProblemType != "Pothole" {
		t.Errorf("unexpected report: %+v", reports[0])
	}
}

func TestResolutionPostsResolvedStatus(t *testing.T) {
	var body map[string]interface{}
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/update_report_with_resolution" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, map[string]interface{}{"success": true})
	})

	err := client.UpdateReportWithResolution(context.Background(), model.Resolution{
		ReportID:        7,
		AuditorName:     "R. Santos",
		ResolutionNotes: "patched",
		ResolutionDate:  "2026-03-14",
	})
	if err != nil {
		t.Fatalf("submitting resolution: %v", err)
	}

	if body["status"] != model.StatusResolved {
		t.Errorf("status = %v, want %q", body["status"], model.StatusResolved)
	}
	if body["auditor_name"] != "R. Santos" {
		t.Errorf("auditor_name = %v", body["auditor_name"])
	}
}
