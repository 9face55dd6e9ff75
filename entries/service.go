package entries

import (
	"context"
	"time"

	"weeklog/internal/logger"
	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

// Service adds, edits and deletes timesheet entries on behalf of an acting user
// and aggregates a user's week. It holds no mutable state of its own.
type Service struct {
	store     Store
	validator *Validator
	log       *logger.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithNow sets the clock the validator uses for the future-date rule.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, rules Rules, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(store, rules, WithClock(s.now))
	return s
}

func (s *Service) Rules() Rules {
	return s.validator.Rules()
}

// AddEntry validates and stores a new entry and returns its store-assigned ID.
func (s *Service) AddEntry(ctx context.Context, entry timesheet.Entry, actingUserID int64) (int64, error) {
	log := s.log.With("op", "add", "acting_user", actingUserID)

	if entry.UserID != actingUserID {
		log.Debug("entry rejected", "kind", timesheet.KindUnauthorizedAdd, "entry_user", entry.UserID)
		return 0, timesheet.Fail(timesheet.KindUnauthorizedAdd)
	}

	entry.ID = 0
	entry.Date = timeutil.StartOfDay(entry.Date)
	if err := s.validator.Validate(ctx, entry, actingUserID); err != nil {
		if timesheet.IsStoreFault(err) {
			log.Error("validation store failure", "error", err)
			return 0, timesheet.StoreFault(timesheet.KindAddFailed, unwrapCause(err))
		}
		log.Debug("entry rejected", "kind", timesheet.KindOf(err), "error", err)
		return 0, err
	}

	id, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		log.Error("create entry failed", "error", err)
		return 0, timesheet.StoreFault(timesheet.KindAddFailed, err)
	}

	log.Info("entry added", "entry_id", id, "project_id", entry.ProjectID, "date", timeutil.FormatDate(entry.Date), "hours", entry.Hours.String())
	return id, nil
}

// EditEntry overwrites the project, date, hours and description of an existing
// entry. Both the stored owner and the incoming owner must be the acting user,
// so an edit can neither touch another user's entry nor hand an entry over.
func (s *Service) EditEntry(ctx context.Context, entry timesheet.Entry, actingUserID int64) error {
	log := s.log.With("op", "edit", "acting_user", actingUserID, "entry_id", entry.ID)

	existing, found, err := s.store.FindEntryByID(ctx, entry.ID)
	if err != nil {
		log.Error("load entry failed", "error", err)
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	if !found {
		log.Debug("entry rejected", "kind", timesheet.KindEntryNotFound)
		return timesheet.Failf(timesheet.KindEntryNotFound, "entry %d", entry.ID)
	}
	if existing.UserID != actingUserID || entry.UserID != actingUserID {
		log.Debug("entry rejected", "kind", timesheet.KindUnauthorizedEdit, "owner", existing.UserID, "entry_user", entry.UserID)
		return timesheet.Fail(timesheet.KindUnauthorizedEdit)
	}

	entry.ID = existing.ID
	entry.UserID = existing.UserID
	entry.Date = timeutil.StartOfDay(entry.Date)
	if err := s.validator.Validate(ctx, entry, actingUserID); err != nil {
		if timesheet.IsStoreFault(err) {
			log.Error("validation store failure", "error", err)
		} else {
			log.Debug("entry rejected", "kind", timesheet.KindOf(err), "error", err)
		}
		return err
	}

	updated, err := s.store.UpdateEntry(ctx, entry)
	if err != nil {
		log.Error("update entry failed", "error", err)
		return timesheet.StoreFault(timesheet.KindEditFailed, err)
	}
	if !updated {
		log.Warn("entry vanished before update")
		return timesheet.Failf(timesheet.KindEditFailed, "entry %d", entry.ID)
	}

	log.Info("entry edited", "project_id", entry.ProjectID, "date", timeutil.FormatDate(entry.Date), "hours", entry.Hours.String())
	return nil
}

// DeleteEntry removes an entry owned by the acting user.
func (s *Service) DeleteEntry(ctx context.Context, id int64, actingUserID int64) error {
	log := s.log.With("op", "delete", "acting_user", actingUserID, "entry_id", id)

	existing, found, err := s.store.FindEntryByID(ctx, id)
	if err != nil {
		log.Error("load entry failed", "error", err)
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	if !found {
		log.Debug("entry rejected", "kind", timesheet.KindEntryNotFound)
		return timesheet.Failf(timesheet.KindEntryNotFound, "entry %d", id)
	}
	if existing.UserID != actingUserID {
		log.Debug("entry rejected", "kind", timesheet.KindUnauthorizedDelete, "owner", existing.UserID)
		return timesheet.Fail(timesheet.KindUnauthorizedDelete)
	}

	deleted, err := s.store.DeleteEntry(ctx, id)
	if err != nil {
		log.Error("delete entry failed", "error", err)
		return timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	if !deleted {
		// Removed concurrently between load and delete.
		log.Warn("entry vanished before delete")
		return timesheet.Failf(timesheet.KindEntryNotFound, "entry %d", id)
	}

	log.Info("entry deleted")
	return nil
}

// EntryByID returns one entry without any ownership check.
func (s *Service) EntryByID(ctx context.Context, id int64) (timesheet.Entry, bool, error) {
	entry, found, err := s.store.FindEntryByID(ctx, id)
	if err != nil {
		return timesheet.Entry{}, false, timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	return entry, found, nil
}

// AssignedProjects lists the projects the user may book hours on.
func (s *Service) AssignedProjects(ctx context.Context, userID int64) ([]timesheet.Project, error) {
	projects, err := s.store.ProjectsAssignedTo(ctx, userID)
	if err != nil {
		return nil, timesheet.StoreFault(timesheet.KindStoreFailure, err)
	}
	return projects, nil
}

func unwrapCause(err error) error {
	if te, ok := err.(*timesheet.Error); ok && te.Err != nil {
		return te.Err
	}
	return err
}
