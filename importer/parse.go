package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gopunch/internal/timeutil"
)

// parseWorkDate accepts the text layouts of timeutil.ParseDate and Excel
// serial day numbers.
func parseWorkDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if serial, ok := parseSerial(value); ok && serial >= 1 {
		converted, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("convert excel date %q: %w", raw, err)
		}
		return time.Date(converted.Year(), converted.Month(), converted.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return timeutil.ParseDate(value)
}

// parsePunch accepts clock text and Excel day fractions (0.5 is 12:00).
func parsePunch(raw string) (timeutil.TimeOfDay, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return timeutil.Absent, fmt.Errorf("empty punch")
	}
	if fraction, ok := parseSerial(value); ok && fraction >= 0 && fraction < 1 {
		secs := int(math.Round(fraction * timeutil.SecondsPerDay))
		return timeutil.Seconds(secs % timeutil.SecondsPerDay), nil
	}
	if parsed, err := parseDateTime(value); err == nil {
		return timeutil.ToSeconds(parsed), nil
	}
	return timeutil.ParseClock(value)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if serial, ok := parseSerial(value); ok && serial >= 1 {
		converted, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("convert excel datetime %q: %w", value, err)
		}
		return time.Date(converted.Year(), converted.Month(), converted.Day(),
			converted.Hour(), converted.Minute(), converted.Second(), 0, time.Local), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
		"2006/01/02 15:04:05",
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}

func parseSerial(value string) (float64, bool) {
	if strings.ContainsAny(value, ":/-") {
		return 0, false
	}
	number, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}
