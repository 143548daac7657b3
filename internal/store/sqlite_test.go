package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/store"
	"github.com/bayanapp/bayan-tui/tests/testutil"
)

func TestSettingsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	// Unset keys read as empty, not as an error.
	v, err := s.GetSetting(ctx, store.SettingDarkMode)
	if err != nil {
		t.Fatalf("reading unset key: %v", err)
	}
	if v != "" {
		t.Errorf("unset key = %q, want empty", v)
	}

	if err := s.SetSetting(ctx, store.SettingDarkMode, "true"); err != nil {
		t.Fatalf("writing setting: %v", err)
	}
	if err := s.SetSetting(ctx, store.SettingDarkMode, "false"); err != nil {
		t.Fatalf("overwriting setting: %v", err)
	}

	v, err = s.GetSetting(ctx, store.SettingDarkMode)
	if err != nil {
		t.Fatal(err)
	}
	if v != "false" {
		t.Errorf("setting = %q, want false", v)
	}
}

func TestSaveNotificationsReplacesList(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	batch := []model.Notification{
		{ID: 3, Title: "newest", Read: false, CreatedAt: now},
		{ID: 2, Title: "middle", Read: true, CreatedAt: now.Add(-time.Minute)},
		{ID: 1, Title: "oldest", Read: false, CreatedAt: now.Add(-2 * time.Minute)},
	}
	if err := s.SaveNotifications(ctx, batch); err != nil {
		t.Fatalf("saving notifications: %v", err)
	}

	// A second save fully replaces the first.
	if err := s.SaveNotifications(ctx, batch[:1]); err != nil {
		t.Fatalf("replacing notifications: %v", err)
	}

	records, err := s.LoadNotifications(ctx)
	if err != nil {
		t.Fatalf("loading notifications: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after replace, got %d", len(records))
	}
	if records[0].Title != "newest" || records[0].Read {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestLoadNotificationsPreservesOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	batch := []model.Notification{
		{ID: 30, Title: "c", CreatedAt: now},
		{ID: 10, Title: "a", CreatedAt: now},
		{ID: 20, Title: "b", CreatedAt: now},
	}
	if err := s.SaveNotifications(ctx, batch); err != nil {
		t.Fatal(err)
	}

	records, err := s.LoadNotifications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"c", "a", "b"} {
		if records[i].Title != want {
			t.Errorf("record %d = %q, want %q", i, records[i].Title, want)
		}
	}
}

func TestSnapshotsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := []model.Snapshot{
		{ID: 1, Status: model.StatusPending, ProblemType: "Pothole"},
		{ID: 2, Status: model.StatusResolved, ProblemType: "Garbage"},
	}
	if err := s.SaveSnapshots(ctx, first); err != nil {
		t.Fatalf("saving snapshots: %v", err)
	}

	// Replacement drops snapshots that are no longer present.
	second := []model.Snapshot{
		{ID: 2, Status: model.StatusResolved, ProblemType: "Garbage"},
	}
	if err := s.SaveSnapshots(ctx, second); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("loading snapshots: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(loaded))
	}
	snap, ok := loaded[2]
	if !ok || snap.Status != model.StatusResolved {
		t.Errorf("unexpected snapshot map: %+v", loaded)
	}
}
