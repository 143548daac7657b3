package notify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/bayanapp/bayan-tui/internal/model"
	"github.com/bayanapp/bayan-tui/internal/notify"
	"github.com/bayanapp/bayan-tui/tests/testutil"
)

func TestAddInsertsNewestFirst(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	s.Add("first", "oldest")
	s.Add("second", "middle")
	s.Add("third", "newest")

	records := s.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Title != "third" || records[2].Title != "first" {
		t.Errorf("records not newest-first: %q, %q, %q",
			records[0].Title, records[1].Title, records[2].Title)
	}
	for i, n := range records {
		if n.Read {
			t.Errorf("record %d should start unread", i)
		}
	}
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		n := s.Add("title", "message")
		if seen[n.ID] {
			t.Fatalf("duplicate notification id %d", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestCapEvictsOldest(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	for i := 0; i < model.MaxNotifications+5; i++ {
		s.Add(fmt.Sprintf("n%d", i), "")
	}

	if s.Len() != model.MaxNotifications {
		t.Fatalf("expected %d records, got %d", model.MaxNotifications, s.Len())
	}

	records := s.Records()
	if got := records[0].Title; got != fmt.Sprintf("n%d", model.MaxNotifications+4) {
		t.Errorf("newest record evicted: got %q", got)
	}
	if got := records[len(records)-1].Title; got != "n5" {
		t.Errorf("expected oldest surviving record n5, got %q", got)
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	s.Add("a", "")
	s.Add("b", "")
	s.Add("c", "")

	if got := s.UnreadCount(); got != 3 {
		t.Fatalf("expected 3 unread, got %d", got)
	}

	s.MarkRead(1)
	if got := s.UnreadCount(); got != 2 {
		t.Errorf("expected 2 unread after MarkRead, got %d", got)
	}
	if !s.Records()[1].Read {
		t.Error("record 1 should be read")
	}

	s.MarkAllRead()
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("expected 0 unread after MarkAllRead, got %d", got)
	}
}

func TestDeleteShiftsRecords(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	s.Add("a", "")
	s.Add("b", "")
	s.Add("c", "")

	// Records are [c, b, a]; removing index 1 drops b.
	s.Delete(1)

	records := s.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "c" || records[1].Title != "a" {
		t.Errorf("unexpected records after delete: %q, %q",
			records[0].Title, records[1].Title)
	}

	// Out-of-range indexes are ignored.
	s.Delete(10)
	s.Delete(-1)
	if s.Len() != 2 {
		t.Errorf("out-of-range delete changed the list: len %d", s.Len())
	}
}

func TestClearAll(t *testing.T) {
	s := notify.NewStore(testutil.NewTestStore(t), nil)

	s.Add("a", "")
	s.Add("b", "")
	s.ClearAll()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d records", s.Len())
	}
	if s.UnreadCount() != 0 {
		t.Errorf("expected 0 unread, got %d", s.UnreadCount())
	}
}

func TestPersistedAcrossSessions(t *testing.T) {
	db := testutil.NewTestStore(t)
	ctx := context.Background()

	first := notify.NewStore(db, nil)
	first.Add("kept", "survives restart")
	first.Add("also kept", "")
	first.MarkRead(0)

	second := notify.NewStore(db, nil)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("loading persisted records: %v", err)
	}

	records := second.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 persisted records, got %d", len(records))
	}
	if records[0].Title != "also kept" {
		t.Errorf("persisted order lost: got %q first", records[0].Title)
	}
	if !records[0].Read {
		t.Error("read flag not persisted")
	}

	// New ids keep increasing past the restored ones.
	n := second.Add("new", "")
	if n.ID <= records[0].ID {
		t.Errorf("new id %d not greater than restored id %d", n.ID, records[0].ID)
	}
}
