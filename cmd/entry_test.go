package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"weeklog/timesheet"
)

func TestParseEntryDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 6, 15, 30, 0, 0, time.Local)

	got, err := parseEntryDate("", now)
	if err != nil {
		t.Fatalf("empty date: %v", err)
	}
	if !got.Equal(time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("expected today at midnight, got %v", got)
	}

	got, err = parseEntryDate("2026-03-02", now)
	if err != nil {
		t.Fatalf("explicit date: %v", err)
	}
	if got.Day() != 2 || got.Hour() != 0 {
		t.Fatalf("unexpected date %v", got)
	}

	if _, err := parseEntryDate("02.03.2026", now); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestParseEntryHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "7.5", want: "7.5"},
		{raw: "7,25", want: "7.25"},
		{raw: " 8 ", want: "8"},
		{raw: "eight", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseEntryHours(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.raw, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("%q: expected %s, got %s", tt.raw, tt.want, got)
		}
	}
}

func TestApplyEntryFlags_OnlyChangedFields(t *testing.T) {
	t.Parallel()

	current := timesheet.Entry{
		ID:          12,
		UserID:      1,
		ProjectID:   1,
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
		Hours:       decimal.RequireFromString("8"),
		Description: "kept",
	}

	var f entryFlags
	flags := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	flags.Int64Var(&f.userID, "user", 0, "")
	flags.Int64Var(&f.projectID, "project", 0, "")
	flags.StringVar(&f.date, "date", "", "")
	flags.StringVar(&f.hours, "hours", "", "")
	flags.StringVar(&f.description, "description", "", "")
	if err := flags.Parse([]string{"--hours", "6.5", "--project", "2"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	got, err := applyEntryFlags(current, f, flags, time.Now())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.ProjectID != 2 || !got.Hours.Equal(decimal.RequireFromString("6.5")) {
		t.Fatalf("changed fields not applied: %+v", got)
	}
	if got.ID != 12 || got.UserID != 1 || got.Description != "kept" || !got.Date.Equal(current.Date) {
		t.Fatalf("unchanged fields modified: %+v", got)
	}
}

func TestDescribeFailure(t *testing.T) {
	t.Parallel()

	got := describeFailure(timesheet.Fail(timesheet.KindProjectNotAssigned))
	if want := "[project_not_assigned]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in %q", want, got)
	}
}

