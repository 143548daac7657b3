package watch

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bayanapp/bayan-tui/internal/api"
	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/store"
)

// CheckKind identifies one of the periodic update checks.
type CheckKind string

const (
	// CheckUser watches the current user's reports for transitions into
	// Resolved.
	CheckUser CheckKind = "user_updates"

	// CheckAdmin watches the backend's new-report count for increases.
	CheckAdmin CheckKind = "admin_new_reports"
)

// CheckState represents the current state of a check.
type CheckState int

const (
	CheckIdle CheckState = iota
	CheckRunning
	CheckError
)

// CheckStatus holds the run state for a single check.
type CheckStatus struct {
	Kind      CheckKind
	State     CheckState
	LastCheck time.Time
	Error     error
}

// Event is one noteworthy change detected during a tick.
type Event struct {
	// Title classifies the event for the notification record.
	Title string

	// Message is the human-readable description.
	Message string

	// ReportID is set for per-report events (user check).
	ReportID int

	// Delta is set for the admin count event (current - previous).
	Delta int
}

// UpdateMsg is a tea.Msg sent when a tick completes.
type UpdateMsg struct {
	Kind   CheckKind
	Events []Event
	Err    error

	// AuthMessage is set when the backend rejected the session; the UI
	// should return to the login screen.
	AuthMessage string
}

// ReportsAPI is the slice of the backend client the watcher depends on.
type ReportsAPI interface {
	UserReports(ctx context.Context, limit int) ([]model.Report, error)
	NewReportsCount(ctx context.Context) (int, error)
}

// fetchTimeout is the maximum time allowed for a single tick's fetch.
const fetchTimeout = 30 * time.Second

// checkEntry holds a registered check and its period.
type checkEntry struct {
	kind     CheckKind
	interval time.Duration
}

// Watcher runs the periodic update checks in the background, diffing
// backend state against the persisted baseline and emitting one event
// per detected change. A tick whose fetch fails leaves the baseline
// untouched so the same transition is caught on the next tick.
type Watcher struct {
	api       ReportsAPI
	store     store.Store
	log       *zap.Logger
	checks    []checkEntry
	statuses  map[CheckKind]*CheckStatus
	inFlight  map[CheckKind]bool
	resultCh  chan UpdateMsg
	triggerCh chan CheckKind
	stopCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// New creates a Watcher over the given API client and baseline store.
func New(a ReportsAPI, s store.Store, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		api:       a,
		store:     s,
		log:       log,
		statuses:  make(map[CheckKind]*CheckStatus),
		inFlight:  make(map[CheckKind]bool),
		resultCh:  make(chan UpdateMsg, 16),
		triggerCh: make(chan CheckKind, 16),
		stopCh:    make(chan struct{}),
	}
}

// RegisterCheck adds a check to run every interval. Which checks get
// registered depends on the session's role.
func (w *Watcher) RegisterCheck(kind CheckKind, interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.checks = append(w.checks, checkEntry{kind: kind, interval: interval})
	w.statuses[kind] = &CheckStatus{
		Kind:  kind,
		State: CheckIdle,
	}
}

// Start launches one goroutine per registered check and returns a
// subscription command that delivers UpdateMsg values to the UI.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, entry := range w.checks {
		go w.runLoop(entry)
	}

	return w.waitForResult()
}

// Stop halts all check goroutines.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// RefreshAll triggers an immediate run of every registered check.
func (w *Watcher) RefreshAll() {
	w.mu.Lock()
	checks := make([]checkEntry, len(w.checks))
	copy(checks, w.checks)
	w.mu.Unlock()

	for _, entry := range checks {
		select {
		case w.triggerCh <- entry.kind:
		default:
			// Channel full; skip to avoid blocking
		}
	}
}

// GetStatuses returns the current status of all registered checks.
func (w *Watcher) GetStatuses() []CheckStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	statuses := make([]CheckStatus, 0, len(w.statuses))
	for _, s := range w.statuses {
		statuses = append(statuses, *s)
	}
	return statuses
}

// runLoop is the per-check goroutine: fixed ticker plus manual triggers.
func (w *Watcher) runLoop(entry checkEntry) {
	interval := entry.interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do an initial check immediately so the first baseline exists.
	w.runCheck(entry.kind)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.runCheck(entry.kind)
		case kind := <-w.triggerCh:
			if kind == entry.kind {
				w.runCheck(entry.kind)
			}
		}
	}
}

// runCheck executes one tick. A tick that starts while the previous one
// for the same check is still in flight is dropped: overlapping ticks
// could double-fire or lose a transition against a half-updated baseline.
func (w *Watcher) runCheck(kind CheckKind) {
	w.mu.Lock()
	if w.inFlight[kind] {
		w.mu.Unlock()
		w.log.Debug("dropping overlapping tick", zap.String("check", string(kind)))
		return
	}
	w.inFlight[kind] = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight[kind] = false
		w.mu.Unlock()
	}()

	w.setStatus(kind, CheckRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var (
		events []Event
		err    error
	)

	switch kind {
	case CheckUser:
		events, err = w.runUserCheck(ctx)
	case CheckAdmin:
		events, err = w.runAdminCheck(ctx)
	default:
		err = fmt.Errorf("unknown check kind %q", kind)
	}

	if err != nil {
		w.setStatus(kind, CheckError, err)
		w.log.Warn("update check failed",
			zap.String("check", string(kind)),
			zap.Error(err),
		)

		msg := UpdateMsg{Kind: kind, Err: err}
		if api.IsAuthError(err) {
			msg.AuthMessage = "Session expired. Please log in again."
		}
		w.sendResult(msg)
		return
	}

	w.setStatus(kind, CheckIdle, nil)
	w.sendResult(UpdateMsg{Kind: kind, Events: events})
}

// runUserCheck diffs the user's reports against the snapshot baseline.
// Only a transition into Resolved (from any other status, or from a
// report not in the baseline at all) fires an event. The baseline is
// replaced with the current snapshot set even when nothing fired, so
// no-op ticks stay idempotent. Reports that disappeared between ticks
// are simply dropped from the baseline.
func (w *Watcher) runUserCheck(ctx context.Context) ([]Event, error) {
	reports, err := w.api.UserReports(ctx, 0)
	if err != nil {
		return nil, err
	}

	prior, err := w.store.LoadSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	var events []Event
	snaps := make([]model.Snapshot, 0, len(reports))
	for _, r := range reports {
		snaps = append(snaps, r.Snapshot())

		if r.Status != model.StatusResolved {
			continue
		}
		prev, seen := prior[r.ID]
		if seen && prev.Status == r.Status {
			continue
		}

		events = append(events, Event{
			Title: "Report Resolved",
			Message: fmt.Sprintf(
				"Your %s report at %s has been resolved.",
				r.ProblemType, r.Location,
			),
			ReportID: r.ID,
		})
	}

	if err := w.store.SaveSnapshots(ctx, snaps); err != nil {
		return nil, err
	}
	w.recordCheckTime(ctx, store.SettingLastUpdateCheck)

	return events, nil
}

// runAdminCheck compares the backend's new-report count against the
// last-seen scalar and fires a single event carrying the delta when the
// count grew. The scalar baseline is updated to the current value
// regardless of direction.
func (w *Watcher) runAdminCheck(ctx context.Context) ([]Event, error) {
	current, err := w.api.NewReportsCount(ctx)
	if err != nil {
		return nil, err
	}

	prevStr, err := w.store.GetSetting(ctx, store.SettingLastNewReportCount)
	if err != nil {
		return nil, err
	}
	previous := 0
	if prevStr != "" {
		if previous, err = strconv.Atoi(prevStr); err != nil {
			// A corrupt baseline resets to zero rather than wedging the check.
			previous = 0
		}
	}

	var events []Event
	if current > previous {
		delta := current - previous
		noun := "reports"
		if delta == 1 {
			noun = "report"
		}
		events = append(events, Event{
			Title:   "New Reports",
			Message: fmt.Sprintf("%d new %s submitted.", delta, noun),
			Delta:   delta,
		})
	}

	err = w.store.SetSetting(
		ctx, store.SettingLastNewReportCount, strconv.Itoa(current),
	)
	if err != nil {
		return nil, err
	}
	w.recordCheckTime(ctx, store.SettingLastAdminUpdateCheck)

	return events, nil
}

// recordCheckTime stamps the given setting with now. The timestamps are
// diagnostic only, so failures are logged and dropped.
func (w *Watcher) recordCheckTime(ctx context.Context, key string) {
	err := w.store.SetSetting(ctx, key, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		w.log.Warn("recording check time failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// setStatus updates the status for a check kind.
func (w *Watcher) setStatus(kind CheckKind, state CheckState, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, ok := w.statuses[kind]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == CheckIdle && err == nil {
		status.LastCheck = time.Now()
	}
}

// sendResult sends an UpdateMsg without blocking the check goroutine.
func (w *Watcher) sendResult(msg UpdateMsg) {
	select {
	case w.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the watcher
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (w *Watcher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-w.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next check
// result. Call after processing an UpdateMsg to keep listening.
func (w *Watcher) WaitForNextResult() tea.Cmd {
	return w.waitForResult()
}
