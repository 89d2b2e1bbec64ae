package audit_test

import (
	"testing"
	"time"

	"github.com/placementhub/placementhub/internal/app/store/audit"
	"github.com/placementhub/placementhub/internal/testutil"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    "sub-1",
		IP:        "192.168.1.1",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, "sub-1", 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	got := events[0]
	if got.ID.IsZero() {
		t.Error("expected an id to be generated")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected a timestamp to be stamped")
	}
	if got.EventType != audit.EventLoginSuccess || !got.Success {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().Add(-time.Hour)
	seed := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: "sub-1", Timestamp: base},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, UserID: "sub-1", Timestamp: base.Add(time.Minute)},
		{Category: audit.CategoryAdmin, EventType: audit.EventPostCreated, UserID: "sub-2", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 3},
		{"by user", audit.QueryFilter{UserID: "sub-1"}, 2},
		{"by category", audit.QueryFilter{Category: audit.CategoryAdmin}, 1},
		{"by event type", audit.QueryFilter{EventType: audit.EventLogout}, 1},
		{"limit", audit.QueryFilter{Limit: 2}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := store.Query(ctx, tc.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tc.want {
				t.Errorf("events = %d, want %d", len(events), tc.want)
			}
		})
	}

	t.Run("time range", func(t *testing.T) {
		from := base.Add(30 * time.Second)
		to := base.Add(90 * time.Second)
		events, err := store.Query(ctx, audit.QueryFilter{StartTime: &from, EndTime: &to})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(events) != 1 || events[0].EventType != audit.EventLogout {
			t.Errorf("unexpected window result: %+v", events)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		events, err := store.Query(ctx, audit.QueryFilter{})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if events[0].EventType != audit.EventPostCreated {
			t.Errorf("first event = %q, want most recent", events[0].EventType)
		}
	})
}

func TestStore_GetRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    "sub-1",
		}); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	events, err := store.GetRecent(ctx, 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("events = %d, want 3", len(events))
	}
}
