package output

import (
	"fmt"
	"strings"

	"gopunch/attendance"
)

type Writer interface {
	Write(path string, rows []RecordRow) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

// RecordRow is one exported record with its resolved day key.
type RecordRow struct {
	Record attendance.Record
	DayKey attendance.DayKey
}

func NewRecordRows(records []attendance.Record, holidays attendance.HolidaySet) []RecordRow {
	rows := make([]RecordRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, RecordRow{Record: record, DayKey: attendance.ResolveDayKey(record.WorkDate, holidays)})
	}
	return rows
}

var recordHeaders = []string{"EmployeeID", "WorkDate", "DayKey", "In1", "Out1", "In2", "Out2", "In3", "Out3", "Schedule", "ShiftLabel"}

func (r RecordRow) values() []string {
	values := make([]string, 0, len(recordHeaders))
	values = append(values, r.Record.EmployeeID, r.Record.DateKey(), string(r.DayKey))
	values = append(values, r.Record.Punches[:]...)
	values = append(values, r.Record.ScheduleName, string(r.Record.Label))
	return values
}
