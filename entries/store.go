package entries

import (
	"context"
	"time"

	"weeklog/timesheet"
)

// Store is the persistence contract the entry pipeline depends on.
// Lookups report absence through the bool result, never through the error.
type Store interface {
	FindUserByID(ctx context.Context, id int64) (timesheet.User, bool, error)
	FindProjectByID(ctx context.Context, id int64) (timesheet.Project, bool, error)
	ProjectsAssignedTo(ctx context.Context, userID int64) ([]timesheet.Project, error)
	FindEntryByID(ctx context.Context, id int64) (timesheet.Entry, bool, error)
	// EntriesInRange returns the user's entries with start <= date < end, ordered by date.
	EntriesInRange(ctx context.Context, userID int64, start, end time.Time) ([]timesheet.Entry, error)
	CreateEntry(ctx context.Context, entry timesheet.Entry) (int64, error)
	// UpdateEntry overwrites project, date, hours and description; false when the row is gone.
	UpdateEntry(ctx context.Context, entry timesheet.Entry) (bool, error)
	DeleteEntry(ctx context.Context, id int64) (bool, error)
	ExistsForUserProjectDate(ctx context.Context, userID, projectID int64, date time.Time) (bool, error)
}
