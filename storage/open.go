package storage

import (
	"context"
	"fmt"
	"strings"

	"weeklog/config"
	"weeklog/entries"
	"weeklog/timesheet"
)

// Store is what the commands and the API need from a backing database:
// the entries contract plus directory seeding and listing.
type Store interface {
	entries.Store

	SeedDirectory(ctx context.Context, users []timesheet.User, projects []timesheet.Project, assignments []timesheet.Assignment) (int, error)
	CreateUser(ctx context.Context, name string) (int64, error)
	CreateProject(ctx context.Context, name string) (int64, error)
	AssignProject(ctx context.Context, userID, projectID int64) error
	ListUsers(ctx context.Context) ([]timesheet.User, error)
	ListProjects(ctx context.Context) ([]timesheet.Project, error)
	ListEntries(ctx context.Context) ([]timesheet.Entry, error)
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*GormStore)(nil)
)

func Open(cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.Path)
	case config.DriverPostgres:
		return OpenPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q (valid: sqlite, postgres)", cfg.Driver)
	}
}
