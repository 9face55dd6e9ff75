// Package web serves the JSON API for recording and reviewing weekly hours.
// Every /api route requires a bearer token issued by `weeklog token`.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"weeklog/entries"
	"weeklog/internal/logger"
	"weeklog/internal/timeutil"
	"weeklog/output"
	"weeklog/timesheet"
)

// Directory lists users and projects for name lookups and navigation.
type Directory interface {
	ListUsers(ctx context.Context) ([]timesheet.User, error)
	ListProjects(ctx context.Context) ([]timesheet.Project, error)
}

type Server struct {
	service   *entries.Service
	directory Directory
	auth      *Authenticator
	log       *logger.Logger
	validate  *validator.Validate
	router    chi.Router
}

type entryRequest struct {
	UserID      int64           `json:"user_id" validate:"omitempty,gt=0"`
	ProjectID   int64           `json:"project_id" validate:"required,gt=0"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewServer(service *entries.Service, directory Directory, auth *Authenticator, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	server := &Server{
		service:   service,
		directory: directory,
		auth:      auth,
		log:       log,
		validate:  validator.New(),
	}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(requestLogger(log))
	router.Use(chimiddleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/users", server.handleUsers)
		r.Get("/projects", server.handleProjects)
		r.Get("/week/{date}", server.handleWeek)
		r.Post("/entries", server.handleEntryCreate)
		r.Get("/entries/{id}", server.handleEntryGet)
		r.Put("/entries/{id}", server.handleEntryUpdate)
		r.Delete("/entries/{id}", server.handleEntryDelete)
	})
	server.router = router

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	day, err := timeutil.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid date format (expected YYYY-MM-DD)")
		return
	}

	projects, err := s.directory.ListProjects(r.Context())
	if err != nil {
		s.log.Error("list projects failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, timesheet.KindStoreFailure.String(), timesheet.KindStoreFailure.Message())
		return
	}

	week := timeutil.WeekRangeOf(day)
	list := s.service.EntriesForUserAndWeek(r.Context(), actor, day)
	writeJSON(w, http.StatusOK, buildWeekView(week, list, entries.SumHoursByProject(list), projects))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.directory.ListUsers(r.Context())
	if err != nil {
		s.writeEntryError(w, r, timesheet.StoreFault(timesheet.KindStoreFailure, err))
		return
	}
	view := make([]userView, 0, len(users))
	for _, u := range users {
		view = append(view, userView{ID: u.ID, Name: u.Name})
	}
	writeJSON(w, http.StatusOK, view)
}

// handleProjects lists the projects the acting user can book on.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	projects, err := s.service.AssignedProjects(r.Context(), actor)
	if err != nil {
		s.writeEntryError(w, r, err)
		return
	}
	view := make([]projectView, 0, len(projects))
	for _, p := range projects {
		view = append(view, projectView{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEntryCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	entry, ok := s.decodeEntry(w, r, actor)
	if !ok {
		return
	}

	id, err := s.service.AddEntry(r.Context(), entry, actor)
	if err != nil {
		s.writeEntryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleEntryGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	id, err := parsePositiveInt64(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid entry id")
		return
	}

	entry, found, err := s.service.EntryByID(r.Context(), id)
	if err != nil {
		s.writeEntryError(w, r, err)
		return
	}
	// Other users' entries are reported as missing.
	if !found || entry.UserID != actor {
		s.writeEntryError(w, r, timesheet.Fail(timesheet.KindEntryNotFound))
		return
	}

	projects, err := s.directory.ListProjects(r.Context())
	if err != nil {
		s.writeEntryError(w, r, timesheet.StoreFault(timesheet.KindStoreFailure, err))
		return
	}
	writeJSON(w, http.StatusOK, toEntryView(entry, output.ProjectNames(projects)))
}

func (s *Server) handleEntryUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	id, err := parsePositiveInt64(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid entry id")
		return
	}
	entry, ok := s.decodeEntry(w, r, actor)
	if !ok {
		return
	}
	entry.ID = id

	if err := s.service.EditEntry(r.Context(), entry, actor); err != nil {
		s.writeEntryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEntryDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActingUser(r.Context())
	id, err := parsePositiveInt64(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid entry id")
		return
	}

	if err := s.service.DeleteEntry(r.Context(), id, actor); err != nil {
		s.writeEntryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEntry reads an entry body. A missing user_id means the acting user.
func (s *Server) decodeEntry(w http.ResponseWriter, r *http.Request, actor int64) (timesheet.Entry, bool) {
	var body entryRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return timesheet.Entry{}, false
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("validation failed: %v", err))
		return timesheet.Entry{}, false
	}

	date, err := timeutil.ParseDate(body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid date format (expected YYYY-MM-DD)")
		return timesheet.Entry{}, false
	}
	userID := body.UserID
	if userID == 0 {
		userID = actor
	}

	return timesheet.Entry{
		UserID:      userID,
		ProjectID:   body.ProjectID,
		Date:        date,
		Hours:       body.Hours,
		Description: body.Description,
	}, true
}

func (s *Server) writeEntryError(w http.ResponseWriter, r *http.Request, err error) {
	kind := timesheet.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		s.log.Error("entry request failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, status, kind.String(), kind.Message())
		return
	}
	writeError(w, status, kind.String(), err.Error())
}

func statusForKind(kind timesheet.Kind) int {
	switch kind {
	case timesheet.KindUnauthorizedAdd, timesheet.KindUnauthorizedEdit, timesheet.KindUnauthorizedDelete:
		return http.StatusForbidden
	case timesheet.KindUserNotFound, timesheet.KindProjectNotFound, timesheet.KindEntryNotFound:
		return http.StatusNotFound
	case timesheet.KindProjectNotAssigned, timesheet.KindDateInFuture, timesheet.KindInvalidHours, timesheet.KindDescriptionTooLong:
		return http.StatusUnprocessableEntity
	case timesheet.KindDuplicateEntry:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, errors.New("value must be > 0")
	}
	return parsed, nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
