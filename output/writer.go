package output

import (
	"fmt"
	"strconv"
	"strings"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

// Writer exports raw entries. Project names are looked up in names; unknown
// projects are written as "Unknown".
type Writer interface {
	Write(path string, entries []timesheet.Entry, names map[int64]string) error
}

var entryHeaders = []string{"ID", "UserID", "Date", "ProjectID", "Project", "Hours", "Description"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ProjectNames indexes project names by ID.
func ProjectNames(projects []timesheet.Project) map[int64]string {
	names := make(map[int64]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names
}

func entryRows(entries []timesheet.Entry, names map[int64]string) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			strconv.FormatInt(entry.UserID, 10),
			timeutil.FormatDate(entry.Date),
			strconv.FormatInt(entry.ProjectID, 10),
			projectName(names, entry.ProjectID),
			entry.Hours.String(),
			entry.Description,
		})
	}
	return rows
}

func projectName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return UnknownProject
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
