package web

import (
	"sort"
	"time"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

type RecordView struct {
	ID         int64    `json:"id"`
	EmployeeID string   `json:"employeeId"`
	Date       string   `json:"date"`
	DayKey     string   `json:"dayKey"`
	Slots      []string `json:"slots"`
	Schedule   string   `json:"schedule"`
	Label      string   `json:"label"`
}

type DayRow struct {
	Date        string `json:"date"`
	DayKey      string `json:"dayKey"`
	Employees   int    `json:"employees"`
	DayShifts   int    `json:"dayShifts"`
	NightShifts int    `json:"nightShifts"`
	Unmatched   int    `json:"unmatched"`
}

type MonthSummary struct {
	Month            string   `json:"month"`
	Days             []DayRow `json:"days"`
	TotalDayShifts   int      `json:"totalDayShifts"`
	TotalNightShifts int      `json:"totalNightShifts"`
	TotalUnmatched   int      `json:"totalUnmatched"`
}

func NewRecordView(record attendance.Record, holidays attendance.HolidaySet) RecordView {
	return RecordView{
		ID:         record.ID,
		EmployeeID: record.EmployeeID,
		Date:       record.DateKey(),
		DayKey:     string(attendance.ResolveDayKey(record.WorkDate, holidays)),
		Slots:      append([]string(nil), record.Punches[:]...),
		Schedule:   record.ScheduleName,
		Label:      string(record.Label),
	}
}

func BuildRecordViews(records []attendance.Record, holidays attendance.HolidaySet) []RecordView {
	out := make([]RecordView, 0, len(records))
	for _, record := range records {
		out = append(out, NewRecordView(record, holidays))
	}
	return out
}

// BuildMonthlyView counts arranged labels per day of the month starting at
// monthStart. Records outside the month and days without punches are ignored.
func BuildMonthlyView(monthStart time.Time, records []attendance.Record, holidays attendance.HolidaySet) MonthSummary {
	monthEnd := endOfMonth(monthStart)
	byDay := make(map[string]*DayRow)
	for _, record := range records {
		day := timeutil.StartOfDay(record.WorkDate)
		if day.Before(monthStart) || day.After(monthEnd) || !record.HasPunches() {
			continue
		}

		key := timeutil.DateKey(day)
		row, ok := byDay[key]
		if !ok {
			row = &DayRow{Date: key}
			byDay[key] = row
		}
		row.Employees++
		switch record.Label {
		case attendance.LabelDay:
			row.DayShifts++
		case attendance.LabelNight:
			row.NightShifts++
		default:
			row.Unmatched++
		}
	}

	summary := MonthSummary{Month: monthStart.Format("2006-01")}
	for _, day := range rangeDays(monthStart, monthEnd) {
		key := timeutil.DateKey(day)
		row := DayRow{Date: key}
		if counted, ok := byDay[key]; ok {
			row = *counted
		}
		row.DayKey = string(attendance.ResolveDayKey(day, holidays))

		summary.TotalDayShifts += row.DayShifts
		summary.TotalNightShifts += row.NightShifts
		summary.TotalUnmatched += row.Unmatched
		summary.Days = append(summary.Days, row)
	}
	return summary
}

// recordsInRange keeps records dated within [from, to]; a zero bound is open.
func recordsInRange(records []attendance.Record, from, to time.Time) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
	for _, record := range records {
		day := timeutil.StartOfDay(record.WorkDate)
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !to.IsZero() && day.After(to) {
			continue
		}
		out = append(out, record)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].WorkDate.Before(out[j].WorkDate)
	})
	return out
}

func endOfMonth(monthStart time.Time) time.Time {
	return monthStart.AddDate(0, 1, -1)
}

func rangeDays(from, to time.Time) []time.Time {
	out := make([]time.Time, 0, 32)
	for day := timeutil.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}
