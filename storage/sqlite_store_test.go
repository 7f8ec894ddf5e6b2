package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gopunch_test.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func mustClock(t *testing.T, value string) timeutil.TimeOfDay {
	t.Helper()
	parsed, err := timeutil.ParseClock(value)
	if err != nil {
		t.Fatalf("parse clock %q: %v", value, err)
	}
	return parsed
}

func TestSQLiteStore_UpsertKeepsLabelAndReplacesSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	day := mustDate(t, "2026-03-02")
	first := attendance.Record{EmployeeID: "E1", WorkDate: day, ScheduleName: "office"}
	first.Punches = [attendance.SlotCount]string{"07:58", "17:02"}

	written, err := store.UpsertPunchRecords(ctx, []attendance.Record{first}, "march.csv")
	if err != nil {
		t.Fatalf("upsert punch records: %v", err)
	}
	if written != 1 {
		t.Fatalf("expected 1 written row, got %d", written)
	}

	stored, err := store.GetPunchRecord(ctx, "E1", day)
	if err != nil {
		t.Fatalf("get punch record: %v", err)
	}
	if _, err := store.UpdateShiftLabels(ctx, []attendance.LabelUpdate{{ID: stored.ID, Label: attendance.LabelDay}}); err != nil {
		t.Fatalf("update labels: %v", err)
	}

	second := first
	second.Punches = [attendance.SlotCount]string{"08:01", "12:00", "13:00", "17:30"}
	if _, err := store.UpsertPunchRecords(ctx, []attendance.Record{second}, "march-fixed.csv"); err != nil {
		t.Fatalf("re-upsert punch records: %v", err)
	}

	listed, err := store.ListPunchRecords(ctx, attendance.Filter{})
	if err != nil {
		t.Fatalf("list punch records: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(listed))
	}
	got := listed[0]
	if got.ID != stored.ID {
		t.Fatalf("expected id %d to survive upsert, got %d", stored.ID, got.ID)
	}
	if got.Punches != second.Punches {
		t.Fatalf("unexpected punches: %#v", got.Punches)
	}
	if got.Label != attendance.LabelDay {
		t.Fatalf("expected stored label %q to survive re-import, got %q", attendance.LabelDay, got.Label)
	}
	if !got.WorkDate.Equal(day) {
		t.Fatalf("unexpected work date %v", got.WorkDate)
	}
}

func TestSQLiteStore_ListPunchRecordsFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	records := []attendance.Record{
		{EmployeeID: "E2", WorkDate: mustDate(t, "2026-03-01"), Punches: [attendance.SlotCount]string{"08:00"}},
		{EmployeeID: "E1", WorkDate: mustDate(t, "2026-03-02"), Punches: [attendance.SlotCount]string{"08:00"}},
		{EmployeeID: "E1", WorkDate: mustDate(t, "2026-03-01"), Punches: [attendance.SlotCount]string{"08:00"}},
		{EmployeeID: "E3", WorkDate: mustDate(t, "2026-03-05")},
	}
	if _, err := store.UpsertPunchRecords(ctx, records, "seed.csv"); err != nil {
		t.Fatalf("upsert punch records: %v", err)
	}

	all, err := store.ListPunchRecords(ctx, attendance.Filter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(all))
	}
	if all[0].EmployeeID != "E1" || all[0].DateKey() != "2026-03-01" || all[1].DateKey() != "2026-03-02" {
		t.Fatalf("unexpected ordering: %s %s, %s %s", all[0].EmployeeID, all[0].DateKey(), all[1].EmployeeID, all[1].DateKey())
	}
	if all[3].HasPunches() {
		t.Fatalf("expected empty slots to round-trip as absent, got %#v", all[3].Punches)
	}

	filtered, err := store.ListPunchRecords(ctx, attendance.Filter{
		From:        mustDate(t, "2026-03-01"),
		To:          mustDate(t, "2026-03-01"),
		EmployeeIDs: []string{"E1", "E3"},
	})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].EmployeeID != "E1" {
		t.Fatalf("unexpected filtered rows: %#v", filtered)
	}
}

func TestSQLiteStore_GetPunchRecordNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, err := store.GetPunchRecord(context.Background(), "nobody", mustDate(t, "2026-03-02"))
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSQLiteStore_UpdateShiftLabelsEmptyBatch(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	updated, err := store.UpdateShiftLabels(context.Background(), nil)
	if err != nil {
		t.Fatalf("update labels: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected 0 updated rows, got %d", updated)
	}
}

func TestSQLiteStore_SchedulesRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	night := attendance.Shift{
		Name:           "night",
		TimeIn:         mustClock(t, "22:00"),
		TimeOut:        mustClock(t, "06:00"),
		InWindowStart:  mustClock(t, "21:30"),
		OutWindowEnd:   mustClock(t, "07:00"),
		OutWindowStart: timeutil.Absent,
	}
	day := attendance.Shift{Name: "day", TimeIn: mustClock(t, "08:00"), TimeOut: mustClock(t, "17:00")}

	schedule := attendance.Schedule{
		Name: "plant",
		Mode: attendance.ModeFirstLast,
		Days: map[attendance.DayKey][]attendance.Shift{
			attendance.DayMonday:  {day, night},
			attendance.DayHoliday: {night},
		},
	}
	if _, err := store.ReplaceSchedules(ctx, []attendance.Schedule{schedule}); err != nil {
		t.Fatalf("replace schedules: %v", err)
	}

	schedule.Mode = attendance.ModeDevice
	schedule.Days = map[attendance.DayKey][]attendance.Shift{attendance.DayMonday: {night, day}}
	if _, err := store.ReplaceSchedules(ctx, []attendance.Schedule{schedule}); err != nil {
		t.Fatalf("replace schedules again: %v", err)
	}

	found, err := store.LookupSchedules(ctx, []string{"plant", "unknown"})
	if err != nil {
		t.Fatalf("lookup schedules: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(found))
	}
	plant := found["plant"]
	if plant.Mode != attendance.ModeDevice {
		t.Fatalf("expected mode %q, got %q", attendance.ModeDevice, plant.Mode)
	}

	shifts, err := store.ScheduleDayShifts(ctx, []int64{plant.ID})
	if err != nil {
		t.Fatalf("schedule day shifts: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected only monday shifts after replace, got %d day entries", len(shifts))
	}
	monday := shifts[attendance.ScheduleDay{ScheduleID: plant.ID, Day: attendance.DayMonday}]
	if len(monday) != 2 || monday[0].Name != "night" || monday[1].Name != "day" {
		t.Fatalf("unexpected monday shifts: %#v", monday)
	}
	if monday[0] != night {
		t.Fatalf("night shift did not round-trip: %#v", monday[0])
	}
}

func TestSQLiteStore_HolidayDates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	dates := []time.Time{mustDate(t, "2026-01-01"), mustDate(t, "2026-04-30"), mustDate(t, "2026-01-01")}
	inserted, err := store.AddHolidays(ctx, dates)
	if err != nil {
		t.Fatalf("add holidays: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted holidays, got %d", inserted)
	}

	holidays, err := store.HolidayDates(ctx, mustDate(t, "2026-04-01"), mustDate(t, "2026-05-31"))
	if err != nil {
		t.Fatalf("holiday dates: %v", err)
	}
	if len(holidays) != 1 || !holidays.Contains(mustDate(t, "2026-04-30")) {
		t.Fatalf("unexpected holidays: %#v", holidays)
	}

	all, err := store.HolidayDates(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("all holiday dates: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(all))
	}
}

func TestSQLiteStore_DeleteAllPunchRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	records := []attendance.Record{
		{EmployeeID: "E1", WorkDate: mustDate(t, "2026-03-01")},
		{EmployeeID: "E1", WorkDate: mustDate(t, "2026-03-02")},
	}
	if _, err := store.UpsertPunchRecords(ctx, records, "seed.csv"); err != nil {
		t.Fatalf("upsert punch records: %v", err)
	}

	deleted, err := store.DeleteAllPunchRecords(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}

	listed, err := store.ListPunchRecords(ctx, attendance.Filter{})
	if err != nil {
		t.Fatalf("list punch records: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no rows after delete, got %d", len(listed))
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open("postgres", "", ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
