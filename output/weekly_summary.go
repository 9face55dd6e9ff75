package output

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

const UnknownProject = "Unknown"

type ProjectTotal struct {
	ProjectID int64
	Project   string
	Hours     decimal.Decimal
	Entries   int
}

type DayTotal struct {
	Date    time.Time
	Hours   decimal.Decimal
	Entries int
}

type WeeklySummary struct {
	Week     timeutil.Range
	Projects []ProjectTotal
	// Days always has seven items, Monday first.
	Days    []DayTotal
	Total   decimal.Decimal
	Entries int
}

// BuildWeeklySummary groups entries of one week by project and by day.
// Entries outside week are ignored.
func BuildWeeklySummary(week timeutil.Range, entries []timesheet.Entry, projects []timesheet.Project) WeeklySummary {
	names := ProjectNames(projects)
	summary := WeeklySummary{
		Week:  week,
		Days:  make([]DayTotal, 0, 7),
		Total: decimal.Zero,
	}
	for _, day := range week.Days() {
		summary.Days = append(summary.Days, DayTotal{Date: day, Hours: decimal.Zero})
	}

	byProject := make(map[int64]*ProjectTotal)
	for _, entry := range entries {
		if !week.Contains(entry.Date) {
			continue
		}

		total, ok := byProject[entry.ProjectID]
		if !ok {
			total = &ProjectTotal{
				ProjectID: entry.ProjectID,
				Project:   projectName(names, entry.ProjectID),
				Hours:     decimal.Zero,
			}
			byProject[entry.ProjectID] = total
		}
		total.Hours = total.Hours.Add(entry.Hours)
		total.Entries++

		for i := range summary.Days {
			if timeutil.SameDay(summary.Days[i].Date, entry.Date) {
				summary.Days[i].Hours = summary.Days[i].Hours.Add(entry.Hours)
				summary.Days[i].Entries++
				break
			}
		}

		summary.Total = summary.Total.Add(entry.Hours)
		summary.Entries++
	}

	summary.Projects = make([]ProjectTotal, 0, len(byProject))
	for _, total := range byProject {
		summary.Projects = append(summary.Projects, *total)
	}
	sort.Slice(summary.Projects, func(i, j int) bool {
		a, b := summary.Projects[i], summary.Projects[j]
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		return a.ProjectID < b.ProjectID
	})

	return summary
}

var summaryHeaders = []string{"Kind", "Key", "Label", "Hours", "Entries"}

// Rows flattens the summary into project rows, day rows and a closing total row.
func (s WeeklySummary) Rows() [][]string {
	rows := make([][]string, 0, len(s.Projects)+len(s.Days)+1)
	for _, p := range s.Projects {
		rows = append(rows, []string{"project", strconv.FormatInt(p.ProjectID, 10), p.Project, p.Hours.String(), strconv.Itoa(p.Entries)})
	}
	for _, d := range s.Days {
		rows = append(rows, []string{"day", timeutil.FormatDate(d.Date), d.Date.Weekday().String(), d.Hours.String(), strconv.Itoa(d.Entries)})
	}
	rows = append(rows, []string{
		"total",
		timeutil.FormatDate(s.Week.Start),
		timeutil.FormatDate(s.Week.End),
		s.Total.String(),
		strconv.Itoa(s.Entries),
	})
	return rows
}

func WriteWeeklySummary(path, format string, summary WeeklySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, summaryHeaders, summary.Rows())
	case "excel", "xlsx":
		return writeExcel(path, "Week "+timeutil.FormatDate(summary.Week.Start), summaryHeaders, summary.Rows())
	default:
		return fmt.Errorf("unsupported output format for weekly summary: %s", format)
	}
}
