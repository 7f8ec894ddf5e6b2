package attendance

import (
	"fmt"
	"strings"
	"time"

	"gopunch/internal/timeutil"
)

type DayKey string

const (
	DayMonday    DayKey = "mon"
	DayTuesday   DayKey = "tue"
	DayWednesday DayKey = "wed"
	DayThursday  DayKey = "thu"
	DayFriday    DayKey = "fri"
	DaySaturday  DayKey = "sat"
	DaySunday    DayKey = "sun"
	DayHoliday   DayKey = "holiday"
)

var weekdayKeys = [...]DayKey{
	time.Sunday:    DaySunday,
	time.Monday:    DayMonday,
	time.Tuesday:   DayTuesday,
	time.Wednesday: DayWednesday,
	time.Thursday:  DayThursday,
	time.Friday:    DayFriday,
	time.Saturday:  DaySaturday,
}

func AllDayKeys() []DayKey {
	return []DayKey{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday, DayHoliday}
}

func ParseDayKey(value string) (DayKey, error) {
	key := DayKey(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range AllDayKeys() {
		if key == known {
			return key, nil
		}
	}
	return "", fmt.Errorf("unsupported day key %q (supported: mon..sun, holiday)", value)
}

// HolidaySet holds holiday dates keyed by YYYY-MM-DD.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, date := range dates {
		set.Add(date)
	}
	return set
}

func (h HolidaySet) Add(date time.Time) {
	h[timeutil.DateKey(date)] = struct{}{}
}

func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h[timeutil.DateKey(date)]
	return ok
}

// ResolveDayKey maps a date to its weekday key, or DayHoliday when the date
// is in the holiday set.
func ResolveDayKey(date time.Time, holidays HolidaySet) DayKey {
	if holidays.Contains(date) {
		return DayHoliday
	}
	return weekdayKeys[date.Weekday()]
}
