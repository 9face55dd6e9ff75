package entries

import (
	"context"
	"errors"
	"sort"
	"time"

	"weeklog/internal/timeutil"
	"weeklog/timesheet"
)

// memStore is an in-memory Store for service tests. Setting failWith makes
// every call return that error; calls counts mutating calls.
type memStore struct {
	users       map[int64]timesheet.User
	projects    map[int64]timesheet.Project
	assignments map[int64][]int64
	entries     map[int64]timesheet.Entry
	nextID      int64

	failWith       error
	failCreateWith error
	updateMisses   bool
	deleteMisses   bool
	mutations      int
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]timesheet.User{},
		projects:    map[int64]timesheet.Project{},
		assignments: map[int64][]int64{},
		entries:     map[int64]timesheet.Entry{},
		nextID:      1,
	}
}

// seededStore mirrors the demo data: users 1..4, projects 1..4, user 1 assigned to 1 and 2.
func seededStore() *memStore {
	s := newMemStore()
	for id, name := range map[int64]string{1: "Alice Ahmed", 2: "Bobby Brown", 3: "Clara Clark", 4: "Donny Darko"} {
		s.users[id] = timesheet.User{ID: id, Name: name}
	}
	for id, name := range map[int64]string{1: "Stadium", 2: "Library", 3: "Market", 4: "Station"} {
		s.projects[id] = timesheet.Project{ID: id, Name: name}
	}
	s.assignments[1] = []int64{1, 2}
	s.assignments[2] = []int64{1, 3}
	return s
}

func (s *memStore) put(entry timesheet.Entry) int64 {
	entry.ID = s.nextID
	s.nextID++
	s.entries[entry.ID] = entry
	return entry.ID
}

func (s *memStore) FindUserByID(_ context.Context, id int64) (timesheet.User, bool, error) {
	if s.failWith != nil {
		return timesheet.User{}, false, s.failWith
	}
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *memStore) FindProjectByID(_ context.Context, id int64) (timesheet.Project, bool, error) {
	if s.failWith != nil {
		return timesheet.Project{}, false, s.failWith
	}
	p, ok := s.projects[id]
	return p, ok, nil
}

func (s *memStore) ProjectsAssignedTo(_ context.Context, userID int64) ([]timesheet.Project, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]timesheet.Project, 0)
	for _, id := range s.assignments[userID] {
		out = append(out, s.projects[id])
	}
	return out, nil
}

func (s *memStore) FindEntryByID(_ context.Context, id int64) (timesheet.Entry, bool, error) {
	if s.failWith != nil {
		return timesheet.Entry{}, false, s.failWith
	}
	e, ok := s.entries[id]
	return e, ok, nil
}

func (s *memStore) EntriesInRange(_ context.Context, userID int64, start, end time.Time) ([]timesheet.Entry, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]timesheet.Entry, 0)
	for _, e := range s.entries {
		if e.UserID == userID && !e.Date.Before(start) && e.Date.Before(end) {
			out = append(out, e)
		}
	}
	// Deliberately unordered by date; the service sorts.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) CreateEntry(_ context.Context, entry timesheet.Entry) (int64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	if s.failCreateWith != nil {
		return 0, s.failCreateWith
	}
	s.mutations++
	return s.put(entry), nil
}

func (s *memStore) UpdateEntry(_ context.Context, entry timesheet.Entry) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	s.mutations++
	if _, ok := s.entries[entry.ID]; !ok || s.updateMisses {
		return false, nil
	}
	s.entries[entry.ID] = entry
	return true, nil
}

func (s *memStore) DeleteEntry(_ context.Context, id int64) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	s.mutations++
	if _, ok := s.entries[id]; !ok || s.deleteMisses {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

func (s *memStore) ExistsForUserProjectDate(_ context.Context, userID, projectID int64, date time.Time) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	for _, e := range s.entries {
		if e.UserID == userID && e.ProjectID == projectID && timeutil.SameDay(e.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

var errStoreDown = errors.New("database connection failed")
