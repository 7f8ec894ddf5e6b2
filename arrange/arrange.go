// Package arrange matches raw attendance punches to configured shift slots,
// labels each day as day or night shift, and folds overnight exits back into
// the night they belong to.
package arrange

import (
	"sort"

	"go.uber.org/zap"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

var (
	// DefaultSpilloverCutoff is the latest time of day a next-day punch may
	// have and still count as the previous night's exit.
	DefaultSpilloverCutoff = timeutil.Clock(12, 0, 0)
	// DefaultOvertimeCap bounds the relaxed exit search of overnight shifts.
	DefaultOvertimeCap = timeutil.Clock(15, 0, 0)
)

type Options struct {
	// DefaultMode applies to records whose schedule is unknown.
	DefaultMode     attendance.MatchMode
	SpilloverCutoff timeutil.TimeOfDay
	OvertimeCap     timeutil.TimeOfDay
	// DryRun skips persisting label changes in Run.
	DryRun bool
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		DefaultMode:     attendance.ModeAuto,
		SpilloverCutoff: DefaultSpilloverCutoff,
		OvertimeCap:     DefaultOvertimeCap,
		Logger:          zap.NewNop(),
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.DefaultMode == "" {
		o.DefaultMode = defaults.DefaultMode
	}
	if !o.SpilloverCutoff.Valid {
		o.SpilloverCutoff = defaults.SpilloverCutoff
	}
	if !o.OvertimeCap.Valid {
		o.OvertimeCap = defaults.OvertimeCap
	}
	if o.Logger == nil {
		o.Logger = defaults.Logger
	}
	return o
}

// Arrange returns display-ready copies of records, in input order, with
// punches assigned to shift slots and labels recomputed. The input slice is
// not modified.
func Arrange(records []attendance.Record, schedules map[string]attendance.Schedule, holidays attendance.HolidaySet, opts Options) []attendance.Record {
	arranged, _ := arrangeBatch(records, schedules, holidays, opts.withDefaults())
	return arranged
}

// arrangeBatch arranges records and reports, per input index, whether the
// record absorbed the next day's morning tail. Device-mode records keep
// their punches and take no part in spillover.
func arrangeBatch(records []attendance.Record, schedules map[string]attendance.Schedule, holidays attendance.HolidaySet, opts Options) ([]attendance.Record, []bool) {
	out := make([]attendance.Record, len(records))
	for i, record := range records {
		out[i] = arrangeRecord(record, schedules, holidays, opts)
	}

	absorbed := make([]bool, len(records))
	folding := make([]attendance.Record, 0, len(out))
	positions := make([]int, 0, len(out))
	for i, record := range out {
		if modeFor(record, schedules, opts) == attendance.ModeDevice {
			continue
		}
		folding = append(folding, record)
		positions = append(positions, i)
	}
	byEmployee := groupByEmployee(folding)

	for _, employee := range sortedKeys(byEmployee) {
		indices := byEmployee[employee]
		for k, index := range indices {
			indices[k] = positions[index]
		}
		sort.SliceStable(indices, func(i, j int) bool {
			a, b := out[indices[i]], out[indices[j]]
			if a.WorkDate.Equal(b.WorkDate) {
				return a.ID < b.ID
			}
			return a.WorkDate.Before(b.WorkDate)
		})

		group := make([]attendance.Record, len(indices))
		for k, index := range indices {
			group[k] = out[index]
		}
		for _, k := range resolveSpillover(group, opts.SpilloverCutoff.Secs) {
			absorbed[indices[k]] = true
		}
		for k, index := range indices {
			out[index] = group[k]
		}
	}

	return out, absorbed
}

// arrangeRecord resolves the shift list for one record and applies its
// schedule's match mode.
func arrangeRecord(record attendance.Record, schedules map[string]attendance.Schedule, holidays attendance.HolidaySet, opts Options) attendance.Record {
	var shifts []attendance.Shift
	if schedule, ok := schedules[record.ScheduleName]; ok {
		shifts = schedule.ShiftsFor(attendance.ResolveDayKey(record.WorkDate, holidays))
	}

	switch modeFor(record, schedules, opts) {
	case attendance.ModeDevice:
		return arrangeDevice(record, shifts, opts)
	case attendance.ModeFirstLast:
		return arrangeFirstLast(record, shifts, opts)
	default:
		return arrangeAuto(record, shifts, opts)
	}
}

func modeFor(record attendance.Record, schedules map[string]attendance.Schedule, opts Options) attendance.MatchMode {
	if schedule, ok := schedules[record.ScheduleName]; ok && schedule.Mode != "" {
		return schedule.Mode
	}
	return opts.DefaultMode
}

func groupByEmployee(records []attendance.Record) map[string][]int {
	byEmployee := make(map[string][]int)
	for i, record := range records {
		byEmployee[record.EmployeeID] = append(byEmployee[record.EmployeeID], i)
	}
	return byEmployee
}

func sortedKeys(values map[string][]int) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
