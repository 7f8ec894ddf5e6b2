package timeutil

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const SecondsPerDay = 24 * 60 * 60

// TimeOfDay is a seconds-since-midnight value that may be absent.
// The zero value is Absent.
type TimeOfDay struct {
	Secs  int
	Valid bool
}

var Absent = TimeOfDay{}

func Seconds(secs int) TimeOfDay {
	return TimeOfDay{Secs: secs, Valid: true}
}

func Clock(hour, minute, second int) TimeOfDay {
	return Seconds(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Valid && other.Valid && t.Secs < other.Secs
}

// String renders HH:MM:SS, or the empty string when absent.
func (t TimeOfDay) String() string {
	if !t.Valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Secs/3600, (t.Secs%3600)/60, t.Secs%60)
}

// ToSeconds normalizes clock-like values to seconds since midnight.
// Unsupported or unparseable values yield Absent.
func ToSeconds(value any) TimeOfDay {
	switch v := value.(type) {
	case nil:
		return Absent
	case TimeOfDay:
		return v
	case time.Time:
		return Clock(v.Hour(), v.Minute(), v.Second())
	case *time.Time:
		if v == nil {
			return Absent
		}
		return Clock(v.Hour(), v.Minute(), v.Second())
	case time.Duration:
		secs := int(v/time.Second) % SecondsPerDay
		if secs < 0 {
			secs += SecondsPerDay
		}
		return Seconds(secs)
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return Absent
		}
		return parsed
	case []byte:
		return ToSeconds(string(v))
	case sql.NullString:
		if !v.Valid {
			return Absent
		}
		return ToSeconds(v.String)
	default:
		return Absent
	}
}

// ParseClock parses "HH:MM[:SS]" with an optional leading date part
// ("2026-03-02 08:15:00"). Components may be fractional and are truncated.
func ParseClock(raw string) (TimeOfDay, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Absent, fmt.Errorf("empty clock value")
	}
	if strings.Contains(value, " ") && strings.Contains(value, ":") {
		value = value[strings.LastIndex(value, " ")+1:]
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return Absent, fmt.Errorf("clock value %q needs at least hours and minutes", raw)
	}

	components := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		number, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Absent, fmt.Errorf("parse clock component %q: %w", parts[i], err)
		}
		if math.IsNaN(number) || math.IsInf(number, 0) {
			return Absent, fmt.Errorf("clock component %q is not finite", parts[i])
		}
		if number < 0 {
			return Absent, fmt.Errorf("clock component %q must not be negative", parts[i])
		}
		components[i] = int(number)
	}

	return Clock(components[0], components[1], components[2]), nil
}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// NextDay reports whether b is the calendar day directly after a.
func NextDay(a, b time.Time) bool {
	return SameDay(StartOfDay(a).AddDate(0, 0, 1), b)
}

func DateKey(value time.Time) string {
	return value.Format("2006-01-02")
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	layouts := []string{
		"2006-01-02",
		"02/01/2006",
		"02.01.2006",
		"2006/01/02",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return StartOfDay(parsed), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}
