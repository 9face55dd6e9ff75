package entries

import (
	"context"
	"time"
	"unicode/utf8"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

// Validator checks a candidate entry for the acting user. Checks run in a fixed
// order and stop at the first violation; ownership comes first so a forged user
// id never reveals whether another user's data exists.
type Validator struct {
	store Store
	rules Rules
	now   func() time.Time
}

type ValidatorOption func(*Validator)

// WithClock replaces the clock used to decide what "today" is.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(store Store, rules Rules, opts ...ValidatorOption) *Validator {
	v := &Validator{store: store, rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate returns nil for a valid entry, otherwise a *timesheet.Error. An entry
// without an ID is treated as an add, any other as an edit, which only decides
// the kind reported for an ownership violation.
func (v *Validator) Validate(ctx context.Context, entry timesheet.Entry, actingUserID int64) error {
	if entry.UserID != actingUserID {
		if entry.ID == 0 {
			return timesheet.Fail(timesheet.KindUnauthorizedAdd)
		}
		return timesheet.Fail(timesheet.KindUnauthorizedEdit)
	}

	if _, found, err := v.store.FindUserByID(ctx, entry.UserID); err != nil {
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	} else if !found {
		return timesheet.Failf(timesheet.KindUserNotFound, "user %d", entry.UserID)
	}

	if _, found, err := v.store.FindProjectByID(ctx, entry.ProjectID); err != nil {
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	} else if !found {
		return timesheet.Failf(timesheet.KindProjectNotFound, "project %d", entry.ProjectID)
	}

	assigned, err := v.store.ProjectsAssignedTo(ctx, entry.UserID)
	if err != nil {
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	if !containsProject(assigned, entry.ProjectID) {
		return timesheet.Failf(timesheet.KindProjectNotAssigned, "project %d, user %d", entry.ProjectID, entry.UserID)
	}

	today := timeutil.StartOfDay(v.now())
	if timeutil.StartOfDay(entry.Date).After(today) {
		return timesheet.Failf(timesheet.KindDateInFuture, "%s", timeutil.FormatDate(entry.Date))
	}

	if !v.rules.hoursInRange(entry.Hours) {
		return timesheet.Failf(timesheet.KindInvalidHours, "%s not within %s..%s", entry.Hours, v.rules.MinHours, v.rules.MaxHours)
	}

	if n := utf8.RuneCountInString(entry.Description); n > v.rules.MaxDescriptionLength {
		return timesheet.Failf(timesheet.KindDescriptionTooLong, "%d > %d characters", n, v.rules.MaxDescriptionLength)
	}

	if !v.rules.AllowDuplicates {
		return v.checkDuplicate(ctx, entry)
	}
	return nil
}

func (v *Validator) checkDuplicate(ctx context.Context, entry timesheet.Entry) error {
	exists, err := v.store.ExistsForUserProjectDate(ctx, entry.UserID, entry.ProjectID, entry.Date)
	if err != nil {
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	if !exists {
		return nil
	}
	if entry.ID > 0 {
		// The match may be the entry being edited.
		stored, found, err := v.store.FindEntryByID(ctx, entry.ID)
		if err != nil {
			return timesheet.StoreFault(timesheet.KindStoreFailure, err)
		}
		if found && stored.ProjectID == entry.ProjectID && timeutil.SameDay(stored.Date, entry.Date) {
			return nil
		}
	}
	return timesheet.Failf(timesheet.KindDuplicateEntry, "%s", timeutil.FormatDate(entry.Date))
}

func containsProject(projects []timesheet.Project, projectID int64) bool {
	for _, p := range projects {
		if p.ID == projectID {
			return true
		}
	}
	return false
}
