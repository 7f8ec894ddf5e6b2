package importer

import (
	"fmt"
	"strings"
	"time"

	"gopunch/internal/timeutil"
)

// PunchLogMapper maps device logs holding one punch per row, either as a
// single datetime column or as separate date and time columns.
type PunchLogMapper struct{}

func (m *PunchLogMapper) Name() string {
	return "punchlog"
}

func (m *PunchLogMapper) Map(record Record, _, _ string) (*Row, bool, error) {
	employee := record.Get(employeeHeaders...)
	if employee == "" {
		return nil, false, nil
	}

	var (
		workDate time.Time
		punch    timeutil.TimeOfDay
	)
	if stamp := record.Get("datetime", "timestamp", "check_time", "punch_time", "thoi_gian", "thời gian"); stamp != "" {
		parsed, err := parseDateTime(stamp)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse punch datetime: %w", record.RowNumber, err)
		}
		workDate = timeutil.StartOfDay(parsed)
		punch = timeutil.ToSeconds(parsed)
	} else {
		dateValue := record.Get(dateHeaders...)
		timeValue := record.Get("time", "punch", "gio", "giờ")
		if strings.TrimSpace(timeValue) == "" {
			return nil, false, nil
		}
		var err error
		workDate, err = parseWorkDate(dateValue)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse work date: %w", record.RowNumber, err)
		}
		punch, err = parsePunch(timeValue)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse punch time: %w", record.RowNumber, err)
		}
	}

	return &Row{
		RowNumber:  record.RowNumber,
		EmployeeID: employee,
		WorkDate:   time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, time.Local),
		Punches:    []timeutil.TimeOfDay{punch},
		Schedule:   record.Get(scheduleHeaders...),
	}, true, nil
}
