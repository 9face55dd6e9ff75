package importer

import (
	"testing"

	"weeklog/internal/timeutil"
)

func TestParseHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "8", want: "8"},
		{name: "decimal dot", input: "7.5", want: "7.5"},
		{name: "decimal comma", input: "7,25", want: "7.25"},
		{name: "thousands and comma", input: "1.000,5", want: "1000.5"},
		{name: "negative passes through", input: "-1", want: "-1"},
		{name: "empty", input: " ", wantErr: true},
		{name: "invalid", input: "abc", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseHours(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if got.String() != tc.want {
				t.Fatalf("unexpected hours for %q: want %s, got %s", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2026-03-04", want: "2026-03-04"},
		{input: "04.03.2026", want: "2026-03-04"},
		{input: "2026/03/04", want: "2026-03-04"},
		{input: "03-04-26", want: "2026-03-04"},
		{input: "", wantErr: true},
		{input: "March 4th", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseDate(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if timeutil.FormatDate(got) != tc.want || got.Hour() != 0 {
			t.Fatalf("unexpected date for %q: %v", tc.input, got)
		}
	}
}

func TestMapRecord(t *testing.T) {
	t.Parallel()

	record := Record{RowNumber: 2, Values: map[string]string{
		"date":        "2026-03-04",
		"projectid":   "2",
		"hours":       "7,5",
		"description": "  Review  ",
	}}
	entry, err := MapRecord(record, 1)
	if err != nil {
		t.Fatalf("map record: %v", err)
	}
	if entry.UserID != 1 || entry.ProjectID != 2 || entry.Hours.String() != "7.5" || entry.Description != "Review" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	record.Values["user"] = "3"
	entry, err = MapRecord(record, 1)
	if err != nil {
		t.Fatalf("map record with user: %v", err)
	}
	if entry.UserID != 3 {
		t.Fatalf("expected row user 3, got %d", entry.UserID)
	}

	delete(record.Values, "projectid")
	if _, err := MapRecord(record, 1); err == nil {
		t.Fatalf("expected missing project error")
	}
}
