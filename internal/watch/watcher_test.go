package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/internal/watch"
	"github.com/bayanapp/bayan-tui/tests/testutil"
)

// fakeAPI serves canned responses so ticks are fully deterministic.
type fakeAPI struct {
	reports []model.Report
	count   int
	err     error
}

func (f *fakeAPI) UserReports(context.Context, int) ([]model.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reports, nil
}

func (f *fakeAPI) NewReportsCount(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

// longInterval keeps the ticker from firing during a test; every tick
// beyond the initial one is triggered manually via RefreshAll.
const longInterval = time.Hour

func startWatcher(t *testing.T, a *fakeAPI, db *store.SQLiteStore, kind watch.CheckKind) (*watch.Watcher, watch.UpdateMsg) {
	t.Helper()

	w := watch.New(a, db, nil)
	w.RegisterCheck(kind, longInterval)
	t.Cleanup(w.Stop)

	first, ok := w.Start()().(watch.UpdateMsg)
	if !ok {
		t.Fatal("first tick produced no UpdateMsg")
	}
	return w, first
}

func nextTick(t *testing.T, w *watch.Watcher) watch.UpdateMsg {
	t.Helper()

	w.RefreshAll()
	msg, ok := w.WaitForNextResult()().(watch.UpdateMsg)
	if !ok {
		t.Fatal("tick produced no UpdateMsg")
	}
	return msg
}

func report(id int, status string) model.Report {
	return model.Report{
		ID:          id,
		ProblemType: "Pothole",
		Location:    "Main St",
		Status:      status,
	}
}

func TestUserCheckFiresOnTransitionIntoResolved(t *testing.T) {
	db := testutil.NewTestStore(t)
	a := &fakeAPI{reports: []model.Report{report(1, model.StatusPending)}}

	w, first := startWatcher(t, a, db, watch.CheckUser)
	if len(first.Events) != 0 {
		t.Fatalf("pending report fired events: %v", first.Events)
	}

	a.reports = []model.Report{report(1, model.StatusResolved)}
	msg := nextTick(t, w)
	if len(msg.Events) != 1 {
		t.Fatalf("expected 1 event on transition, got %d", len(msg.Events))
	}
	if msg.Events[0].ReportID != 1 || msg.Events[0].Title != "Report Resolved" {
		t.Errorf("unexpected event: %+v", msg.Events[0])
	}

	// The same resolved state must not fire again.
	msg = nextTick(t, w)
	if len(msg.Events) != 0 {
		t.Errorf("steady resolved state fired again: %v", msg.Events)
	}
}

func TestUserCheckIgnoresOtherTransitions(t *testing.T) {
	db := testutil.NewTestStore(t)
	a := &fakeAPI{reports: []model.Report{report(2, model.StatusPending)}}

	w, _ := startWatcher(t, a, db, watch.CheckUser)

	a.reports = []model.Report{report(2, model.StatusInProgress)}
	if msg := nextTick(t, w); len(msg.Events) != 0 {
		t.Errorf("Pending to In Progress fired events: %v", msg.Events)
	}

	a.reports = []model.Report{report(2, model.StatusResolved)}
	if msg := nextTick(t, w); len(msg.Events) != 1 {
		t.Errorf("expected the eventual resolution to fire once, got %v", msg.Events)
	}
}

func TestUserCheckFailedTickKeepsBaseline(t *testing.T) {
	db := testutil.NewTestStore(t)
	a := &fakeAPI{reports: []model.Report{report(3, model.StatusPending)}}

	w, _ := startWatcher(t, a, db, watch.CheckUser)

	// The report resolves while the backend is unreachable.
	a.err = context.DeadlineExceeded
	a.reports = []model.Report{report(3, model.StatusResolved)}
	msg := nextTick(t, w)
	if msg.Err == nil {
		t.Fatal("expected an error from the failed tick")
	}
	if len(msg.Events) != 0 {
		t.Fatalf("failed tick fired events: %v", msg.Events)
	}

	// The next healthy tick still catches the transition.
	a.err = nil
	msg = nextTick(t, w)
	if len(msg.Events) != 1 {
		t.Errorf("transition lost across failed tick: %v", msg.Events)
	}
}

func TestAdminCheckFiresOnceWithDelta(t *testing.T) {
	db := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := db.SetSetting(ctx, store.SettingLastNewReportCount, "3"); err != nil {
		t.Fatal(err)
	}

	a := &fakeAPI{count: 3}
	w, first := startWatcher(t, a, db, watch.CheckAdmin)
	if len(first.Events) != 0 {
		t.Fatalf("unchanged count fired events: %v", first.Events)
	}

	a.count = 7
	msg := nextTick(t, w)
	if len(msg.Events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(msg.Events))
	}
	if msg.Events[0].Delta != 4 {
		t.Errorf("delta = %d, want 4", msg.Events[0].Delta)
	}

	if v, _ := db.GetSetting(ctx, store.SettingLastNewReportCount); v != "7" {
		t.Errorf("baseline = %q, want 7", v)
	}
}

func TestAdminCheckDecreaseUpdatesBaselineSilently(t *testing.T) {
	db := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := db.SetSetting(ctx, store.SettingLastNewReportCount, "9"); err != nil {
		t.Fatal(err)
	}

	a := &fakeAPI{count: 2}
	_, first := startWatcher(t, a, db, watch.CheckAdmin)
	if len(first.Events) != 0 {
		t.Fatalf("count decrease fired events: %v", first.Events)
	}

	if v, _ := db.GetSetting(ctx, store.SettingLastNewReportCount); v != "2" {
		t.Errorf("baseline = %q, want 2", v)
	}
}

func TestAdminCheckFailedTickKeepsBaseline(t *testing.T) {
	db := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := db.SetSetting(ctx, store.SettingLastNewReportCount, "3"); err != nil {
		t.Fatal(err)
	}

	a := &fakeAPI{count: 7, err: context.DeadlineExceeded}
	w, first := startWatcher(t, a, db, watch.CheckAdmin)
	if first.Err == nil {
		t.Fatal("expected an error from the failed tick")
	}
	if v, _ := db.GetSetting(ctx, store.SettingLastNewReportCount); v != "3" {
		t.Errorf("failed tick touched the baseline: %q", v)
	}

	a.err = nil
	msg := nextTick(t, w)
	if len(msg.Events) != 1 || msg.Events[0].Delta != 4 {
		t.Errorf("recovery tick lost the delta: %v", msg.Events)
	}
}

func TestAuthFailureCarriesLoginPrompt(t *testing.T) {
	db := testutil.NewTestStore(t)
	a := &fakeAPI{err: &api.AuthError{Message: "Please login first!"}}

	_, first := startWatcher(t, a, db, watch.CheckUser)
	if first.AuthMessage == "" {
		t.Error("expected an auth message on session rejection")
	}
}
