package entries

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/timesheet"
)

var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)

func fixedClock() time.Time {
	return testNow
}

func today() time.Time {
	return time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.Local)
}

func validEntry() timesheet.Entry {
	return timesheet.Entry{
		UserID:      1,
		ProjectID:   1,
		Date:        today(),
		Hours:       decimal.NewFromInt(8),
		Description: "Test work",
	}
}

func TestValidator_OrderedChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(e *timesheet.Entry)
		actor  int64
		want   timesheet.Kind
	}{
		{name: "valid", mutate: func(*timesheet.Entry) {}, actor: 1, want: timesheet.KindUnknown},
		{name: "forged add", mutate: func(e *timesheet.Entry) { e.UserID = 2 }, actor: 1, want: timesheet.KindUnauthorizedAdd},
		{name: "forged edit", mutate: func(e *timesheet.Entry) { e.ID = 5; e.UserID = 2 }, actor: 1, want: timesheet.KindUnauthorizedEdit},
		{name: "ownership before existence", mutate: func(e *timesheet.Entry) { e.UserID = 99; e.ProjectID = 99 }, actor: 1, want: timesheet.KindUnauthorizedAdd},
		{name: "unknown user", mutate: func(e *timesheet.Entry) { e.UserID = 99 }, actor: 99, want: timesheet.KindUserNotFound},
		{name: "unknown project", mutate: func(e *timesheet.Entry) { e.ProjectID = 99 }, actor: 1, want: timesheet.KindProjectNotFound},
		{name: "project not assigned", mutate: func(e *timesheet.Entry) { e.ProjectID = 3 }, actor: 1, want: timesheet.KindProjectNotAssigned},
		{name: "date tomorrow", mutate: func(e *timesheet.Entry) { e.Date = today().AddDate(0, 0, 1) }, actor: 1, want: timesheet.KindDateInFuture},
		{name: "date earlier today later hour", mutate: func(e *timesheet.Entry) { e.Date = today().Add(23 * time.Hour) }, actor: 1, want: timesheet.KindUnknown},
		{name: "zero hours", mutate: func(e *timesheet.Entry) { e.Hours = decimal.Zero }, actor: 1, want: timesheet.KindInvalidHours},
		{name: "negative hours", mutate: func(e *timesheet.Entry) { e.Hours = decimal.NewFromInt(-1) }, actor: 1, want: timesheet.KindInvalidHours},
		{name: "too many hours", mutate: func(e *timesheet.Entry) { e.Hours = decimal.RequireFromString("24.1") }, actor: 1, want: timesheet.KindInvalidHours},
		{name: "long description", mutate: func(e *timesheet.Entry) { e.Description = strings.Repeat("x", 256) }, actor: 1, want: timesheet.KindDescriptionTooLong},
		{name: "max description", mutate: func(e *timesheet.Entry) { e.Description = strings.Repeat("ü", 255) }, actor: 1, want: timesheet.KindUnknown},
		{name: "future and bad hours reports date first", mutate: func(e *timesheet.Entry) { e.Date = today().AddDate(0, 0, 3); e.Hours = decimal.Zero }, actor: 1, want: timesheet.KindDateInFuture},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			store := seededStore()
			v := NewValidator(store, DefaultRules(), WithClock(fixedClock))

			entry := validEntry()
			tc.mutate(&entry)
			err := v.Validate(context.Background(), entry, tc.actor)

			if tc.want == timesheet.KindUnknown {
				if err != nil {
					t.Fatalf("expected valid entry, got %v", err)
				}
				return
			}
			if got := timesheet.KindOf(err); got != tc.want {
				t.Fatalf("expected %s, got %s (%v)", tc.want, got, err)
			}
		})
	}
}

func TestValidator_HoursBoundsAreInclusive(t *testing.T) {
	t.Parallel()

	rules := Rules{
		MinHours:             decimal.RequireFromString("0.05"),
		MaxHours:             decimal.RequireFromString("23"),
		MaxDescriptionLength: 10,
		AllowDuplicates:      true,
	}
	v := NewValidator(seededStore(), rules, WithClock(fixedClock))

	tests := []struct {
		hours string
		valid bool
	}{
		{hours: "0.05", valid: true},
		{hours: "23", valid: true},
		{hours: "23.00", valid: true},
		{hours: "0.04", valid: false},
		{hours: "0.0499", valid: false},
		{hours: "23.01", valid: false},
	}

	for _, tc := range tests {
		entry := validEntry()
		entry.Description = ""
		entry.Hours = decimal.RequireFromString(tc.hours)
		err := v.Validate(context.Background(), entry, 1)
		if tc.valid && err != nil {
			t.Fatalf("expected %s hours to be valid, got %v", tc.hours, err)
		}
		if !tc.valid && !errors.Is(err, timesheet.ErrInvalidHours) {
			t.Fatalf("expected invalid hours for %s, got %v", tc.hours, err)
		}
	}
}

func TestValidator_DuplicateRule(t *testing.T) {
	t.Parallel()

	store := seededStore()
	existingID := store.put(validEntry())

	rules := DefaultRules()
	rules.AllowDuplicates = false
	v := NewValidator(store, rules, WithClock(fixedClock))

	if err := v.Validate(context.Background(), validEntry(), 1); !errors.Is(err, timesheet.ErrDuplicateEntry) {
		t.Fatalf("expected duplicate entry, got %v", err)
	}

	// Editing the matching entry itself is not a duplicate.
	self := validEntry()
	self.ID = existingID
	self.Hours = decimal.NewFromInt(6)
	if err := v.Validate(context.Background(), self, 1); err != nil {
		t.Fatalf("expected edit of same entry to pass, got %v", err)
	}

	otherDay := validEntry()
	otherDay.Date = today().AddDate(0, 0, -1)
	if err := v.Validate(context.Background(), otherDay, 1); err != nil {
		t.Fatalf("expected other day to pass, got %v", err)
	}

	allowing := NewValidator(store, DefaultRules(), WithClock(fixedClock))
	if err := allowing.Validate(context.Background(), validEntry(), 1); err != nil {
		t.Fatalf("expected duplicates to be allowed by default, got %v", err)
	}
}

func TestValidator_StoreFailureIsReported(t *testing.T) {
	t.Parallel()

	store := seededStore()
	store.failWith = errStoreDown
	v := NewValidator(store, DefaultRules(), WithClock(fixedClock))

	err := v.Validate(context.Background(), validEntry(), 1)
	if !errors.Is(err, timesheet.ErrStoreFailure) {
		t.Fatalf("expected store failure, got %v", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
}

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules must be valid: %v", err)
	}

	bad := []Rules{
		{MinHours: decimal.Zero, MaxHours: decimal.NewFromInt(8), MaxDescriptionLength: 1},
		{MinHours: decimal.NewFromInt(9), MaxHours: decimal.NewFromInt(8), MaxDescriptionLength: 1},
		{MinHours: decimal.NewFromInt(1), MaxHours: decimal.NewFromInt(25), MaxDescriptionLength: 1},
		{MinHours: decimal.NewFromInt(1), MaxHours: decimal.NewFromInt(8), MaxDescriptionLength: 0},
	}
	for i, rules := range bad {
		if err := rules.Validate(); err == nil {
			t.Fatalf("expected rules[%d] to be rejected", i)
		}
	}
}
