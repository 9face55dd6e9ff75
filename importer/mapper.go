package importer

import (
	"weeklog/timesheet"
)

// MapRecord turns one imported row into an entry. The row may name its own
// user; otherwise the entry is logged for userID.
func MapRecord(record Record, userID int64) (timesheet.Entry, error) {
	date, err := parseDate(record.Get("date", "day"))
	if err != nil {
		return timesheet.Entry{}, err
	}
	projectID, err := parseID(record.Get("projectid", "project"), "project")
	if err != nil {
		return timesheet.Entry{}, err
	}
	hours, err := parseHours(record.Get("hours", "duration"))
	if err != nil {
		return timesheet.Entry{}, err
	}

	if raw := record.Get("userid", "user"); raw != "" {
		userID, err = parseID(raw, "user")
		if err != nil {
			return timesheet.Entry{}, err
		}
	}

	return timesheet.Entry{
		UserID:      userID,
		ProjectID:   projectID,
		Date:        date,
		Hours:       hours,
		Description: record.Get("description", "comment", "notes"),
	}, nil
}
