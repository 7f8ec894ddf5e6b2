package output

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"gopunch/attendance"
)

// LabelSummary counts one employee's arranged days by shift label. Days
// without punches, such as a morning folded into the previous night, are not
// counted.
type LabelSummary struct {
	EmployeeID     string
	FirstDate      time.Time
	LastDate       time.Time
	Days           int
	DayShiftDays   int
	NightShiftDays int
	UnmatchedDays  int
	Punches        int
}

func BuildLabelSummaries(records []attendance.Record) []LabelSummary {
	byEmployee := make(map[string]*LabelSummary)
	for _, record := range records {
		if !record.HasPunches() {
			continue
		}

		summary, ok := byEmployee[record.EmployeeID]
		if !ok {
			summary = &LabelSummary{EmployeeID: record.EmployeeID, FirstDate: record.WorkDate, LastDate: record.WorkDate}
			byEmployee[record.EmployeeID] = summary
		}
		if record.WorkDate.Before(summary.FirstDate) {
			summary.FirstDate = record.WorkDate
		}
		if record.WorkDate.After(summary.LastDate) {
			summary.LastDate = record.WorkDate
		}

		summary.Days++
		summary.Punches += len(record.PunchValues())
		switch record.Label {
		case attendance.LabelDay:
			summary.DayShiftDays++
		case attendance.LabelNight:
			summary.NightShiftDays++
		default:
			summary.UnmatchedDays++
		}
	}

	summaries := make([]LabelSummary, 0, len(byEmployee))
	for _, summary := range byEmployee {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}

var summaryHeaders = []string{"EmployeeID", "FirstDate", "LastDate", "Days", "DayShiftDays", "NightShiftDays", "UnmatchedDays", "Punches"}

func (s LabelSummary) values() []string {
	return []string{
		s.EmployeeID,
		s.FirstDate.Format("2006-01-02"),
		s.LastDate.Format("2006-01-02"),
		strconv.Itoa(s.Days),
		strconv.Itoa(s.DayShiftDays),
		strconv.Itoa(s.NightShiftDays),
		strconv.Itoa(s.UnmatchedDays),
		strconv.Itoa(s.Punches),
	}
}

func WriteLabelSummaries(path, format string, summaries []LabelSummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, summary.values())
	}

	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, summaryHeaders, rows)
	case "excel", "xlsx":
		return writeExcel(path, "Summary", summaryHeaders, rows)
	default:
		return fmt.Errorf("unsupported output format for label summaries: %s", format)
	}
}
