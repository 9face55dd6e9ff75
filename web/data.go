package web

import (
	"strconv"

	"github.com/shopspring/decimal"

	"weeklog/internal/timeutil"
	"weeklog/output"
	"weeklog/timesheet"
)

type userView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type projectView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type entryView struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	ProjectID   int64  `json:"project_id"`
	Project     string `json:"project"`
	Date        string `json:"date"`
	Hours       string `json:"hours"`
	Description string `json:"description"`
}

type projectTotalView struct {
	ProjectID int64  `json:"project_id"`
	Project   string `json:"project"`
	Hours     string `json:"hours"`
	Entries   int    `json:"entries"`
}

type dayTotalView struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Hours   string `json:"hours"`
}

type weekView struct {
	Start    string             `json:"start"`
	End      string             `json:"end"`
	Entries  []entryView        `json:"entries"`
	Totals   map[string]string  `json:"totals"`
	Projects []projectTotalView `json:"projects"`
	Days     []dayTotalView     `json:"days"`
	Total    string             `json:"total"`
}

// buildWeekView renders one user's week. totals must be computed from list
// and is keyed by project ID.
func buildWeekView(week timeutil.Range, list []timesheet.Entry, totals map[int64]decimal.Decimal, projects []timesheet.Project) weekView {
	summary := output.BuildWeeklySummary(week, list, projects)
	names := output.ProjectNames(projects)

	view := weekView{
		Start:    timeutil.FormatDate(week.Start),
		End:      timeutil.FormatDate(week.End),
		Entries:  make([]entryView, 0, len(list)),
		Totals:   make(map[string]string, len(totals)),
		Projects: make([]projectTotalView, 0, len(summary.Projects)),
		Days:     make([]dayTotalView, 0, len(summary.Days)),
		Total:    summary.Total.String(),
	}
	for _, entry := range list {
		view.Entries = append(view.Entries, toEntryView(entry, names))
	}

	for id, hours := range totals {
		view.Totals[strconv.FormatInt(id, 10)] = hours.String()
	}

	for _, p := range summary.Projects {
		view.Projects = append(view.Projects, projectTotalView{
			ProjectID: p.ProjectID,
			Project:   p.Project,
			Hours:     p.Hours.String(),
			Entries:   p.Entries,
		})
	}
	for _, d := range summary.Days {
		view.Days = append(view.Days, dayTotalView{
			Date:    timeutil.FormatDate(d.Date),
			Weekday: d.Date.Weekday().String(),
			Hours:   d.Hours.String(),
		})
	}

	return view
}

func toEntryView(entry timesheet.Entry, names map[int64]string) entryView {
	project := names[entry.ProjectID]
	if project == "" {
		project = output.UnknownProject
	}
	return entryView{
		ID:          entry.ID,
		UserID:      entry.UserID,
		ProjectID:   entry.ProjectID,
		Project:     project,
		Date:        timeutil.FormatDate(entry.Date),
		Hours:       entry.Hours.String(),
		Description: entry.Description,
	}
}
