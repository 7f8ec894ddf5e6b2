package attendance

import (
	"fmt"
	"strings"

	"gopunch/internal/timeutil"
)

// MaxShiftsPerDay caps the shift definitions considered for one schedule day.
const MaxShiftsPerDay = 5

// Shift is one configured work shift. Window bounds fall back to the
// nominal time when absent.
type Shift struct {
	Name           string
	TimeIn         timeutil.TimeOfDay
	TimeOut        timeutil.TimeOfDay
	InWindowStart  timeutil.TimeOfDay
	InWindowEnd    timeutil.TimeOfDay
	OutWindowStart timeutil.TimeOfDay
	OutWindowEnd   timeutil.TimeOfDay
}

// Overnight reports whether the shift crosses midnight.
func (s Shift) Overnight() bool {
	if s.TimeIn.Valid && s.TimeOut.Valid {
		return s.TimeOut.Secs < s.TimeIn.Secs
	}
	if s.OutWindowEnd.Valid && s.InWindowStart.Valid {
		return s.OutWindowEnd.Secs < s.InWindowStart.Secs
	}
	return false
}

func (s Shift) InStart() timeutil.TimeOfDay  { return orNominal(s.InWindowStart, s.TimeIn) }
func (s Shift) InEnd() timeutil.TimeOfDay    { return orNominal(s.InWindowEnd, s.TimeIn) }
func (s Shift) OutStart() timeutil.TimeOfDay { return orNominal(s.OutWindowStart, s.TimeOut) }
func (s Shift) OutEnd() timeutil.TimeOfDay   { return orNominal(s.OutWindowEnd, s.TimeOut) }

func orNominal(bound, nominal timeutil.TimeOfDay) timeutil.TimeOfDay {
	if bound.Valid {
		return bound
	}
	return nominal
}

type MatchMode string

const (
	ModeAuto      MatchMode = "auto"
	ModeDevice    MatchMode = "device"
	ModeFirstLast MatchMode = "first_last"
)

func ParseMatchMode(value string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto":
		return ModeAuto, nil
	case "device":
		return ModeDevice, nil
	case "first_last", "first-last", "firstlast":
		return ModeFirstLast, nil
	default:
		return "", fmt.Errorf("unsupported match mode %q (supported: auto, device, first_last)", value)
	}
}

// Schedule groups the per-day shift lists that apply to employees under one
// schedule name.
type Schedule struct {
	ID   int64
	Name string
	Mode MatchMode
	Days map[DayKey][]Shift
}

// ShiftsFor returns the configured shifts for a day key in configuration
// order, capped at MaxShiftsPerDay.
func (s Schedule) ShiftsFor(key DayKey) []Shift {
	shifts := s.Days[key]
	if len(shifts) > MaxShiftsPerDay {
		shifts = shifts[:MaxShiftsPerDay]
	}
	return shifts
}

// ScheduleDay keys shift lists in the store.
type ScheduleDay struct {
	ScheduleID int64
	Day        DayKey
}
