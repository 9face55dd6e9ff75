package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/internal/timeutil"
)

// parseHours accepts "7.5", "7,5" and "1.234,5" style numbers.
func parseHours(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("missing hours")
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	return hours, nil
}

var dateLayouts = []string{
	timeutil.DateLayout,
	"02.01.2006",
	"2006/01/02",
	"01-02-06",
	time.RFC3339,
}

// parseDate returns local midnight of the given calendar day.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return timeutil.StartOfDay(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

func parseID(raw, field string) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("missing %s", field)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be > 0", field)
	}
	return id, nil
}
