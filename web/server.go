// Package web serves a localhost-only JSON view of arranged punch records; it
// has no auth in this mode.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopunch/arrange"
	"gopunch/attendance"
	"gopunch/config"
	"gopunch/internal/timeutil"
	"gopunch/output"
	"gopunch/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Store is the record store the server reads from. It is the arrange source
// plus single-record lookup.
type Store interface {
	arrange.Source
	GetPunchRecord(ctx context.Context, employeeID string, workDate time.Time) (attendance.Record, error)
}

type Server struct {
	store Store
	cfg   config.Config
	opts  arrange.Options
	mux   chi.Router
}

type arrangeRequest struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Employees []string `json:"employees"`
	DryRun    bool     `json:"dryRun"`
}

type arrangeResponse struct {
	RecordsProcessed int  `json:"recordsProcessed"`
	Employees        int  `json:"employees"`
	Spillovers       int  `json:"spillovers"`
	LabelsChanged    int  `json:"labelsChanged"`
	RowsUpdated      int  `json:"rowsUpdated"`
	DryRun           bool `json:"dryRun"`
}

type summaryView struct {
	EmployeeID     string `json:"employeeId"`
	FirstDate      string `json:"firstDate"`
	LastDate       string `json:"lastDate"`
	Days           int    `json:"days"`
	DayShiftDays   int    `json:"dayShiftDays"`
	NightShiftDays int    `json:"nightShiftDays"`
	UnmatchedDays  int    `json:"unmatchedDays"`
	Punches        int    `json:"punches"`
}

type shiftView struct {
	Name      string `json:"name"`
	TimeIn    string `json:"timeIn"`
	TimeOut   string `json:"timeOut"`
	InStart   string `json:"inStart"`
	InEnd     string `json:"inEnd"`
	OutStart  string `json:"outStart"`
	OutEnd    string `json:"outEnd"`
	Overnight bool   `json:"overnight"`
}

type scheduleView struct {
	Name string                 `json:"name"`
	Mode string                 `json:"mode"`
	Days map[string][]shiftView `json:"days"`
}

// NewServer builds the HTTP handler. Reads arrange in dry-run mode; only
// POST /api/arrange persists labels.
func NewServer(store Store, cfg config.Config, opts arrange.Options) http.Handler {
	server := &Server{
		store: store,
		cfg:   cfg,
		opts:  opts,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Get("/", server.handleAPIRecords)
			r.Get("/{employee}/{date}", server.handleAPIRecord)
		})
		r.Get("/month/{month}", server.handleAPIMonth)
		r.Get("/summary", server.handleAPISummary)
		r.Get("/schedules", server.handleAPISchedules)
		r.Post("/arrange", server.handleAPIArrange)
	})
	server.mux = r

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.arrangedRange(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	holidays, err := s.holidaysFor(r.Context(), records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, BuildRecordViews(records, holidays))
}

func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	employee := strings.TrimSpace(chi.URLParam(r, "employee"))
	day, err := parseISODate(chi.URLParam(r, "date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	record, err := s.store.GetPunchRecord(r.Context(), employee, day)
	if errors.Is(err, storage.ErrRecordNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	holidays, err := s.store.HolidayDates(r.Context(), day, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, NewRecordView(record, holidays))
}

func (s *Server) handleAPIMonth(w http.ResponseWriter, r *http.Request) {
	monthStart, err := parseMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month format (expected YYYY-MM)", http.StatusBadRequest)
		return
	}
	filter := attendance.Filter{
		From:        monthStart,
		To:          endOfMonth(monthStart),
		EmployeeIDs: employeesFromQuery(r),
	}

	records, err := s.arrangedRange(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	holidays, err := s.store.HolidayDates(r.Context(), filter.From, filter.To)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, BuildMonthlyView(monthStart, records, holidays))
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.arrangedRange(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := output.BuildLabelSummaries(records)
	views := make([]summaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, summaryView{
			EmployeeID:     summary.EmployeeID,
			FirstDate:      timeutil.DateKey(summary.FirstDate),
			LastDate:       timeutil.DateKey(summary.LastDate),
			Days:           summary.Days,
			DayShiftDays:   summary.DayShiftDays,
			NightShiftDays: summary.NightShiftDays,
			UnmatchedDays:  summary.UnmatchedDays,
			Punches:        summary.Punches,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAPISchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.cfg.ScheduleList()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]scheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		view := scheduleView{
			Name: schedule.Name,
			Mode: string(schedule.Mode),
			Days: make(map[string][]shiftView),
		}
		for _, day := range attendance.AllDayKeys() {
			shifts := schedule.ShiftsFor(day)
			if len(shifts) == 0 {
				continue
			}
			for _, shift := range shifts {
				view.Days[string(day)] = append(view.Days[string(day)], shiftView{
					Name:      shift.Name,
					TimeIn:    shift.TimeIn.String(),
					TimeOut:   shift.TimeOut.String(),
					InStart:   shift.InStart().String(),
					InEnd:     shift.InEnd().String(),
					OutStart:  shift.OutStart().String(),
					OutEnd:    shift.OutEnd().String(),
					Overnight: shift.Overnight(),
				})
			}
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAPIArrange(w http.ResponseWriter, r *http.Request) {
	var body arrangeRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	filter, err := buildFilter(body.From, body.To, body.Employees)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.opts
	opts.DryRun = body.DryRun
	result, err := arrange.Run(r.Context(), s.store, filter, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, arrangeResponse{
		RecordsProcessed: result.RecordsProcessed,
		Employees:        result.Employees,
		Spillovers:       result.Spillovers,
		LabelsChanged:    result.LabelsChanged,
		RowsUpdated:      result.RowsUpdated,
		DryRun:           body.DryRun,
	})
}

// arrangedRange previews the arranged records of filter, sorted by employee
// and date.
func (s *Server) arrangedRange(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	opts := s.opts
	opts.DryRun = true
	result, err := arrange.Run(ctx, s.store, filter, opts)
	if err != nil {
		return nil, err
	}
	return recordsInRange(result.Records, filter.From, filter.To), nil
}

func (s *Server) holidaysFor(ctx context.Context, records []attendance.Record) (attendance.HolidaySet, error) {
	if len(records) == 0 {
		return attendance.NewHolidaySet(), nil
	}
	from, to := records[0].WorkDate, records[0].WorkDate
	for _, record := range records[1:] {
		if record.WorkDate.Before(from) {
			from = record.WorkDate
		}
		if record.WorkDate.After(to) {
			to = record.WorkDate
		}
	}
	return s.store.HolidayDates(ctx, from, to)
}

func filterFromQuery(r *http.Request) (attendance.Filter, error) {
	query := r.URL.Query()
	return buildFilter(query.Get("from"), query.Get("to"), employeesFromQuery(r))
}

func employeesFromQuery(r *http.Request) []string {
	var out []string
	for _, value := range r.URL.Query()["employee"] {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func buildFilter(fromRaw, toRaw string, employees []string) (attendance.Filter, error) {
	filter := attendance.Filter{EmployeeIDs: employees}
	if strings.TrimSpace(fromRaw) != "" {
		from, err := parseISODate(fromRaw)
		if err != nil {
			return filter, fmt.Errorf("invalid from date (expected YYYY-MM-DD)")
		}
		filter.From = from
	}
	if strings.TrimSpace(toRaw) != "" {
		to, err := parseISODate(toRaw)
		if err != nil {
			return filter, fmt.Errorf("invalid to date (expected YYYY-MM-DD)")
		}
		filter.To = to
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, fmt.Errorf("to date must not be before from date")
	}
	return filter, nil
}

func parseMonth(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartOfDay(parsed), nil
}

func parseISODate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartOfDay(parsed), nil
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
