package entries

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

// EntriesForUserAndWeek returns the user's entries for the Monday..Sunday week
// containing the calendar date of weekStart, ordered by date. The location of
// weekStart only decides which calendar date it names. An unknown user and a
// user without entries both yield an empty slice; store failures are logged
// and also yield an empty slice.
func (s *Service) EntriesForUserAndWeek(ctx context.Context, userID int64, weekStart time.Time) []timesheet.Entry {
	log := s.log.With("op", "week", "user_id", userID)

	_, found, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		log.Error("load user failed", "error", err)
		return []timesheet.Entry{}
	}
	if !found {
		return []timesheet.Entry{}
	}

	week := timeutil.WeekRangeOf(timeutil.LocalDate(weekStart))
	result, err := s.store.EntriesInRange(ctx, userID, week.Start, week.EndExclusive())
	if err != nil {
		log.Error("load week entries failed", "error", err, "week_start", timeutil.FormatDate(week.Start))
		return []timesheet.Entry{}
	}

	filtered := make([]timesheet.Entry, 0, len(result))
	for _, entry := range result {
		if week.Contains(entry.Date) {
			filtered = append(filtered, entry)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].ID < filtered[j].ID
		}
		return filtered[i].Date.Before(filtered[j].Date)
	})
	return filtered
}

// TotalHoursPerProject sums the week's hours per project ID.
func (s *Service) TotalHoursPerProject(ctx context.Context, userID int64, weekStart time.Time) map[int64]decimal.Decimal {
	return SumHoursByProject(s.EntriesForUserAndWeek(ctx, userID, weekStart))
}

func SumHoursByProject(list []timesheet.Entry) map[int64]decimal.Decimal {
	totals := make(map[int64]decimal.Decimal)
	for _, entry := range list {
		totals[entry.ProjectID] = totals[entry.ProjectID].Add(entry.Hours)
	}
	return totals
}
