package arrange

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gopunch/attendance"
	"gopunch/internal/classify"
	"gopunch/internal/timeutil"
)

// Source is the record store an arrange run reads from and writes label
// changes back to.
type Source interface {
	ListPunchRecords(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error)
	LookupSchedules(ctx context.Context, names []string) (map[string]attendance.Schedule, error)
	ScheduleDayShifts(ctx context.Context, scheduleIDs []int64) (map[attendance.ScheduleDay][]attendance.Shift, error)
	HolidayDates(ctx context.Context, from, to time.Time) (attendance.HolidaySet, error)
	UpdateShiftLabels(ctx context.Context, updates []attendance.LabelUpdate) (int, error)
}

type Result struct {
	Records          []attendance.Record
	RecordsProcessed int
	Employees        int
	Spillovers       int
	LabelsChanged    int
	RowsUpdated      int
}

// Run arranges the records selected by filter and persists their label
// changes as one batch unless opts.DryRun is set. Neighbouring days outside
// a bounded filter are loaded as context so the outcome does not depend on
// the range; only records inside the filter are persisted and returned.
func Run(ctx context.Context, source Source, filter attendance.Filter, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With(zap.String("run_id", uuid.NewString()))

	records, err := loadWithContext(ctx, source, filter, opts.SpilloverCutoff.Secs)
	if err != nil {
		return nil, fmt.Errorf("list punch records: %w", err)
	}

	result := &Result{Records: []attendance.Record{}}
	if len(records) == 0 {
		logger.Info("no punch records to arrange")
		return result, nil
	}

	schedules, err := loadSchedules(ctx, source, records)
	if err != nil {
		return nil, err
	}

	from, to := dateBounds(records)
	holidays, err := source.HolidayDates(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}

	arranged, absorbed := arrangeBatch(records, schedules, holidays, opts)

	var before []attendance.Record
	employees := make(map[string]struct{})
	for i, record := range records {
		if !inRange(record.WorkDate, filter) {
			continue
		}
		before = append(before, record)
		result.Records = append(result.Records, arranged[i])
		employees[record.EmployeeID] = struct{}{}
		if absorbed[i] {
			result.Spillovers++
		}
	}
	logger.Debug("arrange inputs loaded",
		zap.Int("records", len(before)),
		zap.Int("context_records", len(records)-len(before)),
		zap.Int("schedules", len(schedules)),
		zap.Int("holidays", len(holidays)),
	)

	updates := classify.LabelChanges(before, result.Records)
	result.RecordsProcessed = len(before)
	result.Employees = len(employees)
	result.LabelsChanged = len(updates)

	if opts.DryRun {
		logger.Info("arrange dry run completed", zap.Int("labels_changed", len(updates)))
		return result, nil
	}

	updated, err := source.UpdateShiftLabels(ctx, updates)
	if err != nil {
		return nil, fmt.Errorf("persist shift labels: %w", err)
	}
	result.RowsUpdated = updated

	logger.Info("arrange completed",
		zap.Int("records", result.RecordsProcessed),
		zap.Int("employees", result.Employees),
		zap.Int("spillovers", result.Spillovers),
		zap.Int("labels_changed", result.LabelsChanged),
		zap.Int("rows_updated", result.RowsUpdated),
	)
	return result, nil
}

// loadWithContext fetches the records selected by filter plus the context
// that can change them: the day after filter.To, whose morning tail may fold
// into the last night, and the days before filter.From back to the first
// day that cannot itself be folded away.
func loadWithContext(ctx context.Context, source Source, filter attendance.Filter, cutoff int) ([]attendance.Record, error) {
	load := filter
	if !filter.From.IsZero() {
		load.From = filter.From.AddDate(0, 0, -1)
	}
	if !filter.To.IsZero() {
		load.To = filter.To.AddDate(0, 0, 1)
	}

	records, err := source.ListPunchRecords(ctx, load)
	if err != nil {
		return nil, err
	}
	if filter.From.IsZero() {
		return records, nil
	}

	day := load.From
	for {
		pending := tailEmployees(records, day, cutoff)
		if len(pending) == 0 {
			return records, nil
		}
		day = day.AddDate(0, 0, -1)
		earlier, err := source.ListPunchRecords(ctx, attendance.Filter{From: day, To: day, EmployeeIDs: pending})
		if err != nil {
			return nil, err
		}
		if len(earlier) == 0 {
			return records, nil
		}
		records = append(earlier, records...)
	}
}

// tailEmployees lists, sorted, the employees whose record on day holds only
// morning punches and so may belong to the night before.
func tailEmployees(records []attendance.Record, day time.Time, cutoff int) []string {
	var employees []string
	for _, record := range records {
		if !timeutil.SameDay(record.WorkDate, day) {
			continue
		}
		if _, ok := morningTail(record, cutoff); ok {
			employees = append(employees, record.EmployeeID)
		}
	}
	sort.Strings(employees)
	return employees
}

func inRange(day time.Time, filter attendance.Filter) bool {
	key := timeutil.DateKey(day)
	if !filter.From.IsZero() && key < timeutil.DateKey(filter.From) {
		return false
	}
	if !filter.To.IsZero() && key > timeutil.DateKey(filter.To) {
		return false
	}
	return true
}

// loadSchedules resolves the schedules named by records together with their
// per-day shift lists. Unknown names are left out.
func loadSchedules(ctx context.Context, source Source, records []attendance.Record) (map[string]attendance.Schedule, error) {
	names := scheduleNames(records)
	if len(names) == 0 {
		return map[string]attendance.Schedule{}, nil
	}

	schedules, err := source.LookupSchedules(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("lookup schedules: %w", err)
	}
	if len(schedules) == 0 {
		return map[string]attendance.Schedule{}, nil
	}

	ids := make([]int64, 0, len(schedules))
	for _, schedule := range schedules {
		ids = append(ids, schedule.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	dayShifts, err := source.ScheduleDayShifts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load schedule shifts: %w", err)
	}

	resolved := make(map[string]attendance.Schedule, len(schedules))
	for name, schedule := range schedules {
		schedule.Days = make(map[attendance.DayKey][]attendance.Shift)
		for _, day := range attendance.AllDayKeys() {
			if shifts, ok := dayShifts[attendance.ScheduleDay{ScheduleID: schedule.ID, Day: day}]; ok {
				schedule.Days[day] = shifts
			}
		}
		resolved[name] = schedule
	}
	return resolved, nil
}

func scheduleNames(records []attendance.Record) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, record := range records {
		if record.ScheduleName == "" {
			continue
		}
		if _, ok := seen[record.ScheduleName]; ok {
			continue
		}
		seen[record.ScheduleName] = struct{}{}
		names = append(names, record.ScheduleName)
	}
	sort.Strings(names)
	return names
}

func dateBounds(records []attendance.Record) (time.Time, time.Time) {
	from, to := records[0].WorkDate, records[0].WorkDate
	for _, record := range records[1:] {
		if record.WorkDate.Before(from) {
			from = record.WorkDate
		}
		if record.WorkDate.After(to) {
			to = record.WorkDate
		}
	}
	return from, to
}
