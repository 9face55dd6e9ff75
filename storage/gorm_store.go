package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

type userRecord struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null;size:200"`
}

func (userRecord) TableName() string { return "users" }

type projectRecord struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null;size:200"`
}

func (projectRecord) TableName() string { return "projects" }

type assignmentRecord struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	ProjectID int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (assignmentRecord) TableName() string { return "user_projects" }

// entryRecord keeps date and hours as text so both dialects compare dates
// lexically and hours never pass through a float column.
type entryRecord struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"not null;index:idx_entries_user_date,priority:1"`
	ProjectID   int64     `gorm:"not null"`
	EntryDate   string    `gorm:"not null;size:10;index:idx_entries_user_date,priority:2"`
	Hours       string    `gorm:"not null;size:32"`
	Description string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (entryRecord) TableName() string { return "entries" }

// GormStore is the Store used for shared deployments on PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*GormStore, error) {
	return OpenGorm(postgres.Open(dsn))
}

func OpenGorm(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm db: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}, &projectRecord{}, &assignmentRecord{}, &entryRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("resolve sql db: %w", err)
	}
	return sqlDB.Close()
}

func (s *GormStore) SeedDirectory(ctx context.Context, users []timesheet.User, projects []timesheet.Project, assignments []timesheet.Assignment) (int, error) {
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true})
		for _, u := range users {
			res := ignore.Create(&userRecord{ID: u.ID, Name: u.Name})
			if res.Error != nil {
				return fmt.Errorf("insert user %d: %w", u.ID, res.Error)
			}
			inserted += int(res.RowsAffected)
		}
		for _, p := range projects {
			res := ignore.Create(&projectRecord{ID: p.ID, Name: p.Name})
			if res.Error != nil {
				return fmt.Errorf("insert project %d: %w", p.ID, res.Error)
			}
			inserted += int(res.RowsAffected)
		}
		for _, a := range assignments {
			res := ignore.Create(&assignmentRecord{UserID: a.UserID, ProjectID: a.ProjectID})
			if res.Error != nil {
				return fmt.Errorf("insert assignment %d/%d: %w", a.UserID, a.ProjectID, res.Error)
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *GormStore) CreateUser(ctx context.Context, name string) (int64, error) {
	rec := userRecord{Name: name}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return rec.ID, nil
}

func (s *GormStore) CreateProject(ctx context.Context, name string) (int64, error) {
	rec := projectRecord{Name: name}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return rec.ID, nil
}

func (s *GormStore) AssignProject(ctx context.Context, userID, projectID int64) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignmentRecord{UserID: userID, ProjectID: projectID}).Error
	if err != nil {
		return fmt.Errorf("assign project %d to user %d: %w", projectID, userID, err)
	}
	return nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]timesheet.User, error) {
	var rows []userRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users := make([]timesheet.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, timesheet.User{ID: r.ID, Name: r.Name})
	}
	return users, nil
}

func (s *GormStore) ListProjects(ctx context.Context) ([]timesheet.Project, error) {
	var rows []projectRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return toProjects(rows), nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id int64) (timesheet.User, bool, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Take(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timesheet.User{}, false, nil
		}
		return timesheet.User{}, false, fmt.Errorf("query user %d: %w", id, err)
	}
	return timesheet.User{ID: rec.ID, Name: rec.Name}, true, nil
}

func (s *GormStore) FindProjectByID(ctx context.Context, id int64) (timesheet.Project, bool, error) {
	var rec projectRecord
	err := s.db.WithContext(ctx).Take(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timesheet.Project{}, false, nil
		}
		return timesheet.Project{}, false, fmt.Errorf("query project %d: %w", id, err)
	}
	return timesheet.Project{ID: rec.ID, Name: rec.Name}, true, nil
}

func (s *GormStore) ProjectsAssignedTo(ctx context.Context, userID int64) ([]timesheet.Project, error) {
	var rows []projectRecord
	err := s.db.WithContext(ctx).
		Joins("JOIN user_projects ON user_projects.project_id = projects.id").
		Where("user_projects.user_id = ?", userID).
		Order("projects.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query projects for user %d: %w", userID, err)
	}
	return toProjects(rows), nil
}

func (s *GormStore) FindEntryByID(ctx context.Context, id int64) (timesheet.Entry, bool, error) {
	var rec entryRecord
	err := s.db.WithContext(ctx).Take(&rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timesheet.Entry{}, false, nil
		}
		return timesheet.Entry{}, false, fmt.Errorf("query entry %d: %w", id, err)
	}
	entry, err := rec.toEntry()
	if err != nil {
		return timesheet.Entry{}, false, err
	}
	return entry, true, nil
}

func (s *GormStore) EntriesInRange(ctx context.Context, userID int64, start, end time.Time) ([]timesheet.Entry, error) {
	var rows []entryRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ? AND entry_date < ?", userID, timeutil.FormatDate(start), timeutil.FormatDate(end)).
		Order("entry_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return toEntries(rows)
}

func (s *GormStore) ListEntries(ctx context.Context) ([]timesheet.Entry, error) {
	var rows []entryRecord
	if err := s.db.WithContext(ctx).Order("entry_date, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return toEntries(rows)
}

func (s *GormStore) CreateEntry(ctx context.Context, entry timesheet.Entry) (int64, error) {
	rec := newEntryRecord(entry)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return rec.ID, nil
}

func (s *GormStore) UpdateEntry(ctx context.Context, entry timesheet.Entry) (bool, error) {
	if entry.ID <= 0 {
		return false, fmt.Errorf("entry id must be > 0")
	}
	rec := newEntryRecord(entry)
	res := s.db.WithContext(ctx).
		Model(&entryRecord{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"project_id":  rec.ProjectID,
			"entry_date":  rec.EntryDate,
			"hours":       rec.Hours,
			"description": rec.Description,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update entry %d: %w", entry.ID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("entry id must be > 0")
	}
	res := s.db.WithContext(ctx).Delete(&entryRecord{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete entry %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) ExistsForUserProjectDate(ctx context.Context, userID, projectID int64, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entryRecord{}).
		Where("user_id = ? AND project_id = ? AND entry_date = ?", userID, projectID, timeutil.FormatDate(date)).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query entry existence: %w", err)
	}
	return count > 0, nil
}

func newEntryRecord(entry timesheet.Entry) entryRecord {
	return entryRecord{
		ID:          entry.ID,
		UserID:      entry.UserID,
		ProjectID:   entry.ProjectID,
		EntryDate:   timeutil.FormatDate(entry.Date),
		Hours:       entry.Hours.String(),
		Description: entry.Description,
	}
}

func (r entryRecord) toEntry() (timesheet.Entry, error) {
	date, err := timeutil.ParseDate(r.EntryDate)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse entry date %q: %w", r.EntryDate, err)
	}
	hours, err := decimal.NewFromString(r.Hours)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse entry hours %q: %w", r.Hours, err)
	}
	return timesheet.Entry{
		ID:          r.ID,
		UserID:      r.UserID,
		ProjectID:   r.ProjectID,
		Date:        date,
		Hours:       hours,
		Description: r.Description,
	}, nil
}

func toEntries(rows []entryRecord) ([]timesheet.Entry, error) {
	list := make([]timesheet.Entry, 0, len(rows))
	for _, r := range rows {
		entry, err := r.toEntry()
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, nil
}

func toProjects(rows []projectRecord) []timesheet.Project {
	projects := make([]timesheet.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, timesheet.Project{ID: r.ID, Name: r.Name})
	}
	return projects
}
