package entries

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/timesheet"
)

func weekEntry(projectID int64, date time.Time, hours string) timesheet.Entry {
	return timesheet.Entry{UserID: 1, ProjectID: projectID, Date: date, Hours: decimal.RequireFromString(hours)}
}

func TestTotalHoursPerProject_ExactDecimalSums(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	store := seededStore()
	store.put(weekEntry(1, monday, "8.0"))
	store.put(weekEntry(1, monday.AddDate(0, 0, 1), "4.0"))
	store.put(weekEntry(2, monday.AddDate(0, 0, 2), "5.5"))
	// Outside the week on both sides.
	store.put(weekEntry(1, monday.AddDate(0, 0, -1), "3"))
	store.put(weekEntry(1, monday.AddDate(0, 0, 7), "3"))

	totals := newTestService(store).TotalHoursPerProject(context.Background(), 1, monday)

	if len(totals) != 2 {
		t.Fatalf("expected 2 projects, got %v", totals)
	}
	if !totals[1].Equal(decimal.RequireFromString("12.0")) {
		t.Fatalf("expected 12.0 for project 1, got %s", totals[1])
	}
	if !totals[2].Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("expected 5.5 for project 2, got %s", totals[2])
	}
}

func TestTotalHoursPerProject_NoFloatingDrift(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	store := seededStore()
	for i := 0; i < 10; i++ {
		store.put(weekEntry(1, monday, "0.1"))
	}
	store.put(weekEntry(2, monday, "0.1"))
	store.put(weekEntry(2, monday, "0.2"))

	totals := newTestService(store).TotalHoursPerProject(context.Background(), 1, monday.AddDate(0, 0, 3))
	if !totals[1].Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected exactly 1, got %s", totals[1])
	}
	if totals[2].String() != "0.3" {
		t.Fatalf("expected exactly 0.3, got %s", totals[2])
	}
}

func TestEntriesForUserAndWeek(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	store := seededStore()
	sunday := store.put(weekEntry(1, monday.AddDate(0, 0, 6), "1"))
	tuesday := store.put(weekEntry(2, monday.AddDate(0, 0, 1), "2"))
	first := store.put(weekEntry(1, monday, "3"))
	other := weekEntry(1, monday, "4")
	other.UserID = 2
	store.put(other)

	svc := newTestService(store)
	got := svc.EntriesForUserAndWeek(context.Background(), 1, monday.AddDate(0, 0, 4))

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	wantOrder := []int64{first, tuesday, sunday}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: expected entry %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestEntriesForUserAndWeek_UnknownUserLooksEmpty(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	store := seededStore()
	svc := newTestService(store)

	unknown := svc.EntriesForUserAndWeek(context.Background(), 404, monday)
	empty := svc.EntriesForUserAndWeek(context.Background(), 3, monday)

	if unknown == nil || empty == nil {
		t.Fatalf("expected non-nil empty slices")
	}
	if len(unknown) != 0 || len(empty) != 0 {
		t.Fatalf("expected both empty, got %d and %d", len(unknown), len(empty))
	}
	if totals := svc.TotalHoursPerProject(context.Background(), 404, monday); len(totals) != 0 {
		t.Fatalf("expected empty totals, got %v", totals)
	}
}

func TestEntriesForUserAndWeek_StoreFailureLooksEmpty(t *testing.T) {
	t.Parallel()

	store := seededStore()
	store.failWith = errStoreDown

	got := newTestService(store).EntriesForUserAndWeek(context.Background(), 1, time.Now())
	if len(got) != 0 {
		t.Fatalf("expected empty result on store failure, got %d", len(got))
	}
}

func TestEntriesForUserAndWeek_WeekStartInOtherLocation(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	_, offset := monday.Zone()
	// Midnight in this zone is a different instant than local midnight.
	elsewhere := time.FixedZone("elsewhere", offset-5*3600)

	store := seededStore()
	first := store.put(weekEntry(1, monday, "8"))
	last := store.put(weekEntry(1, monday.AddDate(0, 0, 6), "2"))
	store.put(weekEntry(1, monday.AddDate(0, 0, 7), "3"))

	svc := newTestService(store)
	for _, weekStart := range []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, elsewhere),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 23, 0, 0, 0, elsewhere),
	} {
		got := svc.EntriesForUserAndWeek(context.Background(), 1, weekStart)
		if len(got) != 2 || got[0].ID != first || got[1].ID != last {
			t.Fatalf("week of %v: expected entries %d and %d, got %+v", weekStart, first, last, got)
		}
		totals := svc.TotalHoursPerProject(context.Background(), 1, weekStart)
		if !totals[1].Equal(decimal.NewFromInt(10)) {
			t.Fatalf("week of %v: expected 10 hours, got %s", weekStart, totals[1])
		}
	}
}
