package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weeklog/entries"
	"weeklog/storage"
	"weeklog/timesheet"
)

const testSecret = "test-secret-value"

type testEnv struct {
	server *httptest.Server
	auth   *Authenticator
	store  *storage.SQLiteStore
}

// newTestEnv serves a seeded SQLite store. wrap, when given, decorates the
// store the entry service sees.
func newTestEnv(t *testing.T, wrap ...func(*storage.SQLiteStore) entries.Store) *testEnv {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "web_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.SeedDirectory(context.Background(),
		[]timesheet.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}},
		[]timesheet.Project{{ID: 1, Name: "Apollo"}, {ID: 2, Name: "Gemini"}},
		[]timesheet.Assignment{{UserID: 1, ProjectID: 1}, {UserID: 1, ProjectID: 2}, {UserID: 2, ProjectID: 1}},
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.Local)
	var serviceStore entries.Store = store
	for _, w := range wrap {
		serviceStore = w(store)
	}
	service := entries.NewService(serviceStore, entries.DefaultRules(), entries.WithNow(func() time.Time { return now }))
	auth, err := NewAuthenticator(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	ts := httptest.NewServer(NewServer(service, store, auth, nil))
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, auth: auth, store: store}
}

func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.auth.IssueToken(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, body)
	}
	var payload errorResponse
	decodeBody(t, resp, &payload)
	if payload.Error != code {
		t.Fatalf("expected error code %q, got %q (%s)", code, payload.Error, payload.Message)
	}
}

func TestServer_RequiresBearerToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	expectError(t, env.do(t, http.MethodGet, "/api/week/2026-03-04", "", ""), http.StatusUnauthorized, "unauthenticated")
	expectError(t, env.do(t, http.MethodGet, "/api/week/2026-03-04", "not-a-token", ""), http.StatusUnauthorized, "unauthenticated")

	other, err := NewAuthenticator("another-secret-value", time.Hour)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	forged, err := other.IssueToken(1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expectError(t, env.do(t, http.MethodGet, "/api/week/2026-03-04", forged, ""), http.StatusUnauthorized, "unauthenticated")
}

func TestServer_HealthzIsPublicAndCarriesRequestID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(headerRequestID) == "" {
		t.Fatalf("expected generated request id")
	}

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/healthz", nil)
	req.Header.Set(headerRequestID, "req-123")
	echoed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer echoed.Body.Close()
	if got := echoed.Header.Get(headerRequestID); got != "req-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestServer_EntryLifecycleAndWeek(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.token(t, 1)

	resp := env.do(t, http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-02","hours":"8","description":"Kickoff"}`)
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created map[string]int64
	decodeBody(t, resp, &created)
	id := created["id"]
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	resp = env.do(t, http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-03","hours":4}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for numeric hours, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodPost, "/api/entries", alice, `{"project_id":2,"date":"2026-03-03","hours":"5.5"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/week/2026-03-05", alice, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var week weekView
	decodeBody(t, resp, &week)
	if week.Start != "2026-03-02" || week.End != "2026-03-08" {
		t.Fatalf("unexpected week range: %s..%s", week.Start, week.End)
	}
	if len(week.Entries) != 3 || week.Entries[0].Project != "Apollo" {
		t.Fatalf("unexpected entries: %+v", week.Entries)
	}
	if week.Totals["1"] != "12" || week.Totals["2"] != "5.5" || week.Total != "17.5" {
		t.Fatalf("unexpected totals: %+v total=%s", week.Totals, week.Total)
	}
	if len(week.Days) != 7 || week.Days[1].Hours != "9.5" {
		t.Fatalf("unexpected day totals: %+v", week.Days)
	}

	path := "/api/entries/" + strconv.FormatInt(id, 10)
	resp = env.do(t, http.MethodPut, path, alice, `{"project_id":2,"date":"2026-03-02","hours":"6","description":"Moved"}`)
	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, body)
	}

	resp = env.do(t, http.MethodGet, path, alice, "")
	var got entryView
	decodeBody(t, resp, &got)
	if got.ProjectID != 2 || got.Hours != "6" || got.Description != "Moved" {
		t.Fatalf("unexpected entry after update: %+v", got)
	}

	resp = env.do(t, http.MethodDelete, path, alice, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	expectError(t, env.do(t, http.MethodDelete, path, alice, ""), http.StatusNotFound, "entry_not_found")
}

func TestServer_FailureKindsMapToStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.token(t, 1)
	bob := env.token(t, 2)

	resp := env.do(t, http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-02","hours":"8"}`)
	var created map[string]int64
	decodeBody(t, resp, &created)
	path := "/api/entries/" + strconv.FormatInt(created["id"], 10)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		code   string
	}{
		{"add for someone else", http.MethodPost, "/api/entries", bob, `{"user_id":1,"project_id":1,"date":"2026-03-02","hours":"1"}`, http.StatusForbidden, "unauthorized_add"},
		{"edit someone else's entry", http.MethodPut, path, bob, `{"project_id":1,"date":"2026-03-02","hours":"1"}`, http.StatusForbidden, "unauthorized_edit"},
		{"delete someone else's entry", http.MethodDelete, path, bob, "", http.StatusForbidden, "unauthorized_delete"},
		{"unknown project", http.MethodPost, "/api/entries", alice, `{"project_id":99,"date":"2026-03-02","hours":"1"}`, http.StatusNotFound, "project_not_found"},
		{"unassigned project", http.MethodPost, "/api/entries", bob, `{"project_id":2,"date":"2026-03-02","hours":"1"}`, http.StatusUnprocessableEntity, "project_not_assigned"},
		{"future date", http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-07","hours":"1"}`, http.StatusUnprocessableEntity, "date_in_future"},
		{"too many hours", http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-02","hours":"24.01"}`, http.StatusUnprocessableEntity, "invalid_hours"},
		{"missing entry", http.MethodPut, "/api/entries/999", alice, `{"project_id":1,"date":"2026-03-02","hours":"1"}`, http.StatusNotFound, "entry_not_found"},
		{"unknown field", http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"2026-03-02","hours":"1","billable":true}`, http.StatusBadRequest, "bad_request"},
		{"bad date", http.MethodPost, "/api/entries", alice, `{"project_id":1,"date":"02.03.2026","hours":"1"}`, http.StatusBadRequest, "bad_request"},
		{"bad id", http.MethodDelete, "/api/entries/abc", alice, "", http.StatusBadRequest, "bad_request"},
		{"bad week date", http.MethodGet, "/api/week/yesterday", alice, "", http.StatusBadRequest, "bad_request"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, env.do(t, tc.method, tc.path, tc.token, tc.body), tc.status, tc.code)
		})
	}
}

func TestServer_OtherUsersEntryLooksMissing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/entries", env.token(t, 1), `{"project_id":1,"date":"2026-03-02","hours":"8"}`)
	var created map[string]int64
	decodeBody(t, resp, &created)

	expectError(t, env.do(t, http.MethodGet, "/api/entries/"+strconv.FormatInt(created["id"], 10), env.token(t, 2), ""), http.StatusNotFound, "entry_not_found")
}

func TestStatusForKind(t *testing.T) {
	t.Parallel()

	tests := map[timesheet.Kind]int{
		timesheet.KindUnauthorizedAdd:    http.StatusForbidden,
		timesheet.KindUserNotFound:       http.StatusNotFound,
		timesheet.KindDescriptionTooLong: http.StatusUnprocessableEntity,
		timesheet.KindDuplicateEntry:     http.StatusConflict,
		timesheet.KindAddFailed:          http.StatusInternalServerError,
		timesheet.KindEditFailed:         http.StatusInternalServerError,
		timesheet.KindStoreFailure:       http.StatusInternalServerError,
		timesheet.KindUnknown:            http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusForKind(kind); got != want {
			t.Fatalf("%s: expected %d, got %d", kind, want, got)
		}
	}
}

// growingStore adds an entry right after the first week query returns, like a
// concurrent writer would.
type growingStore struct {
	*storage.SQLiteStore
	once sync.Once
}

func (g *growingStore) EntriesInRange(ctx context.Context, userID int64, start, end time.Time) ([]timesheet.Entry, error) {
	list, err := g.SQLiteStore.EntriesInRange(ctx, userID, start, end)
	g.once.Do(func() {
		_, _ = g.SQLiteStore.CreateEntry(ctx, timesheet.Entry{
			UserID:    userID,
			ProjectID: 1,
			Date:      start.AddDate(0, 0, 1),
			Hours:     decimal.NewFromInt(3),
		})
	})
	return list, err
}

func TestServer_WeekTotalsMatchListedEntries(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(s *storage.SQLiteStore) entries.Store { return &growingStore{SQLiteStore: s} })
	alice := env.token(t, 1)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	if _, err := env.store.CreateEntry(context.Background(), timesheet.Entry{UserID: 1, ProjectID: 1, Date: monday, Hours: decimal.NewFromInt(8)}); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/week/2026-03-02", alice, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var week weekView
	decodeBody(t, resp, &week)
	if len(week.Entries) != 1 {
		t.Fatalf("expected the single entry present at read time, got %+v", week.Entries)
	}
	if week.Totals["1"] != "8" || week.Total != "8" {
		t.Fatalf("totals disagree with listed entries: %+v total=%s", week.Totals, week.Total)
	}
}

func TestServer_UsersAndAssignedProjects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/users", env.token(t, 2), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var users []userView
	decodeBody(t, resp, &users)
	if len(users) != 2 || users[0].Name != "Alice" || users[1].Name != "Bob" {
		t.Fatalf("unexpected users: %+v", users)
	}

	tests := []struct {
		userID int64
		want   []string
	}{
		{userID: 1, want: []string{"Apollo", "Gemini"}},
		{userID: 2, want: []string{"Apollo"}},
	}
	for _, tt := range tests {
		resp := env.do(t, http.MethodGet, "/api/projects", env.token(t, tt.userID), "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("user %d: expected 200, got %d", tt.userID, resp.StatusCode)
		}
		var projects []projectView
		decodeBody(t, resp, &projects)
		if len(projects) != len(tt.want) {
			t.Fatalf("user %d: expected %v, got %+v", tt.userID, tt.want, projects)
		}
		for i, name := range tt.want {
			if projects[i].Name != name {
				t.Fatalf("user %d: expected %v, got %+v", tt.userID, tt.want, projects)
			}
		}
	}

	expectError(t, env.do(t, http.MethodGet, "/api/projects", "", ""), http.StatusUnauthorized, "unauthenticated")
}
