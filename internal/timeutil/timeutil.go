package timeutil

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Range is a Monday..Sunday week. End is the Sunday itself; membership checks
// use the half-open interval [Start, EndExclusive()).
type Range struct {
	Start time.Time
	End   time.Time
}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// LocalDate keeps the calendar date of value as seen in its own location and
// returns it as local midnight, the form every stored date has.
func LocalDate(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.Local)
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MondayOf returns midnight of the Monday at or before value.
func MondayOf(value time.Time) time.Time {
	// time.Weekday has Sunday = 0; shift so Monday = 0 ... Sunday = 6.
	offset := (int(value.Weekday()) + 6) % 7
	return StartOfDay(value).AddDate(0, 0, -offset)
}

func WeekRangeOf(value time.Time) Range {
	start := MondayOf(value)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

func (r Range) EndExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

func (r Range) Contains(value time.Time) bool {
	return !value.Before(r.Start) && value.Before(r.EndExclusive())
}

// Days returns the seven dates of the week starting at Start.
func (r Range) Days() []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, r.Start.AddDate(0, 0, i))
	}
	return days
}

// ParseDate parses YYYY-MM-DD as local midnight.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(parsed), nil
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}
