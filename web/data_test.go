package web

import (
	"testing"
	"time"

	"gopunch/attendance"
)

func TestBuildMonthlyView_FillsMonthAndSkipsOutsideRecords(t *testing.T) {
	t.Parallel()

	feb := date(1, time.February)
	records := []attendance.Record{
		{EmployeeID: "E1", WorkDate: date(2, time.February), Punches: [attendance.SlotCount]string{"08:00:00"}, Label: attendance.LabelDay},
		{EmployeeID: "E2", WorkDate: date(2, time.February), Punches: [attendance.SlotCount]string{"09:00:00"}},
		{EmployeeID: "E3", WorkDate: date(3, time.February)},
		{EmployeeID: "E1", WorkDate: date(1, time.March), Punches: [attendance.SlotCount]string{"22:00:00"}, Label: attendance.LabelNight},
	}

	month := BuildMonthlyView(feb, records, attendance.NewHolidaySet(date(17, time.February)))
	if month.Month != "2026-02" || len(month.Days) != 28 {
		t.Fatalf("unexpected month %q with %d days", month.Month, len(month.Days))
	}
	second := month.Days[1]
	if second.Employees != 2 || second.DayShifts != 1 || second.Unmatched != 1 {
		t.Fatalf("unexpected 2 Feb row: %+v", second)
	}
	if month.Days[2].Employees != 0 {
		t.Fatalf("expected punchless record to be ignored, got %+v", month.Days[2])
	}
	if month.Days[16].DayKey != "holiday" {
		t.Fatalf("expected holiday key, got %q", month.Days[16].DayKey)
	}
	if month.TotalNightShifts != 0 {
		t.Fatalf("expected March record to be ignored")
	}
}

func TestRecordsInRange_OpenBounds(t *testing.T) {
	t.Parallel()

	records := []attendance.Record{
		{EmployeeID: "B", WorkDate: date(5, time.March)},
		{EmployeeID: "A", WorkDate: date(9, time.March)},
		{EmployeeID: "A", WorkDate: date(1, time.March)},
	}

	all := recordsInRange(records, time.Time{}, time.Time{})
	if len(all) != 3 || all[0].EmployeeID != "A" || !all[0].WorkDate.Equal(date(1, time.March)) {
		t.Fatalf("unexpected ordering: %+v", all)
	}

	from := recordsInRange(records, date(2, time.March), time.Time{})
	if len(from) != 2 {
		t.Fatalf("expected 2 records from 2 March, got %d", len(from))
	}

	to := recordsInRange(records, time.Time{}, date(5, time.March))
	if len(to) != 2 {
		t.Fatalf("expected 2 records until 5 March, got %d", len(to))
	}
}
