package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	// Hours are stored as decimal TEXT, dates as YYYY-MM-DD. Rule checks live in the
	// entry validator, not in constraints, except for referential integrity.
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_projects (
	user_id INTEGER NOT NULL REFERENCES users(id),
	project_id INTEGER NOT NULL REFERENCES projects(id),
	PRIMARY KEY (user_id, project_id)
);
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	project_id INTEGER NOT NULL,
	entry_date TEXT NOT NULL,
	hours TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user_id, entry_date);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SeedDirectory inserts users, projects and assignments in one transaction.
// Rows with an ID that already exists are ignored.
func (s *SQLiteStore) SeedDirectory(ctx context.Context, users []timesheet.User, projects []timesheet.Project, assignments []timesheet.Assignment) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	inserted := 0
	exec := func(query string, args ...any) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if rows, err := res.RowsAffected(); err == nil && rows > 0 {
			inserted++
		}
		return nil
	}

	for _, user := range users {
		if err := exec(`INSERT OR IGNORE INTO users (id, name) VALUES (?, ?);`, user.ID, user.Name); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert user %d: %w", user.ID, err)
		}
	}
	for _, project := range projects {
		if err := exec(`INSERT OR IGNORE INTO projects (id, name) VALUES (?, ?);`, project.ID, project.Name); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert project %d: %w", project.ID, err)
		}
	}
	for _, a := range assignments {
		if err := exec(`INSERT OR IGNORE INTO user_projects (user_id, project_id) VALUES (?, ?);`, a.UserID, a.ProjectID); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert assignment %d/%d: %w", a.UserID, a.ProjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?);`, name)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) CreateProject(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO projects (name) VALUES (?);`, name)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) AssignProject(ctx context.Context, userID, projectID int64) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO user_projects (user_id, project_id) VALUES (?, ?);`, userID, projectID); err != nil {
		return fmt.Errorf("assign project %d to user %d: %w", projectID, userID, err)
	}
	return nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]timesheet.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]timesheet.User, 0, 16)
	for rows.Next() {
		var u timesheet.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]timesheet.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id int64) (timesheet.User, bool, error) {
	var u timesheet.User
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM users WHERE id = ?;`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timesheet.User{}, false, nil
		}
		return timesheet.User{}, false, fmt.Errorf("query user %d: %w", id, err)
	}
	return u, true, nil
}

func (s *SQLiteStore) FindProjectByID(ctx context.Context, id int64) (timesheet.Project, bool, error) {
	var p timesheet.Project
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM projects WHERE id = ?;`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timesheet.Project{}, false, nil
		}
		return timesheet.Project{}, false, fmt.Errorf("query project %d: %w", id, err)
	}
	return p, true, nil
}

func (s *SQLiteStore) ProjectsAssignedTo(ctx context.Context, userID int64) ([]timesheet.Project, error) {
	const query = `
SELECT p.id, p.name
FROM user_projects up
JOIN projects p ON p.id = up.project_id
WHERE up.user_id = ?
ORDER BY p.id;
`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query projects for user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

const entryColumns = `id, user_id, project_id, entry_date, hours, description`

// FindEntryByID returns one entry by ID.
func (s *SQLiteStore) FindEntryByID(ctx context.Context, id int64) (timesheet.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?;`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timesheet.Entry{}, false, nil
		}
		return timesheet.Entry{}, false, fmt.Errorf("query entry %d: %w", id, err)
	}
	return entry, true, nil
}

func (s *SQLiteStore) EntriesInRange(ctx context.Context, userID int64, start, end time.Time) ([]timesheet.Entry, error) {
	query := `SELECT ` + entryColumns + `
FROM entries
WHERE user_id = ? AND entry_date >= ? AND entry_date < ?
ORDER BY entry_date, id;`

	rows, err := s.db.QueryContext(ctx, query, userID, timeutil.FormatDate(start), timeutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	list := make([]timesheet.Entry, 0, 32)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return list, nil
}

// ListEntries returns every entry ordered by date, used for raw exports.
func (s *SQLiteStore) ListEntries(ctx context.Context) ([]timesheet.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY entry_date, id;`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	list := make([]timesheet.Entry, 0, 256)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) CreateEntry(ctx context.Context, entry timesheet.Entry) (int64, error) {
	const insertStmt = `
INSERT INTO entries (
	user_id,
	project_id,
	entry_date,
	hours,
	description
) VALUES (?, ?, ?, ?, ?);`

	res, err := s.db.ExecContext(
		ctx,
		insertStmt,
		entry.UserID,
		entry.ProjectID,
		timeutil.FormatDate(entry.Date),
		entry.Hours.String(),
		entry.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return lastInsertID(res)
}

// UpdateEntry replaces project, date, hours and description for the row with the given ID.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry timesheet.Entry) (bool, error) {
	if entry.ID <= 0 {
		return false, fmt.Errorf("entry id must be > 0")
	}

	const updateStmt = `
UPDATE entries
SET project_id = ?,
	entry_date = ?,
	hours = ?,
	description = ?
WHERE id = ?;`

	res, err := s.db.ExecContext(
		ctx,
		updateStmt,
		entry.ProjectID,
		timeutil.FormatDate(entry.Date),
		entry.Hours.String(),
		entry.Description,
		entry.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update entry %d: %w", entry.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read updated row count: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteEntry removes the row with the given ID.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("entry id must be > 0")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

func (s *SQLiteStore) ExistsForUserProjectDate(ctx context.Context, userID, projectID int64, date time.Time) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM entries WHERE user_id = ? AND project_id = ? AND entry_date = ?);`,
		userID,
		projectID,
		timeutil.FormatDate(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query entry existence: %w", err)
	}
	return exists == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (timesheet.Entry, error) {
	var (
		entry    timesheet.Entry
		dateRaw  string
		hoursRaw string
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.ProjectID, &dateRaw, &hoursRaw, &entry.Description); err != nil {
		return timesheet.Entry{}, err
	}

	date, err := timeutil.ParseDate(dateRaw)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse entry date %q: %w", dateRaw, err)
	}
	hours, err := decimal.NewFromString(hoursRaw)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("parse entry hours %q: %w", hoursRaw, err)
	}
	entry.Date = date
	entry.Hours = hours
	return entry, nil
}

func scanProjects(rows *sql.Rows) ([]timesheet.Project, error) {
	projects := make([]timesheet.Project, 0, 16)
	for rows.Next() {
		var p timesheet.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}
