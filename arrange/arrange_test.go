package arrange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

func clock(value string) timeutil.TimeOfDay {
	parsed, err := timeutil.ParseClock(value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// monday is 2026-03-02.
var monday = date(2026, time.March, 2)

func windowedShift(name, in, out, inStart, inEnd, outStart, outEnd string) attendance.Shift {
	return attendance.Shift{
		Name:           name,
		TimeIn:         clock(in),
		TimeOut:        clock(out),
		InWindowStart:  clock(inStart),
		InWindowEnd:    clock(inEnd),
		OutWindowStart: clock(outStart),
		OutWindowEnd:   clock(outEnd),
	}
}

func nightShift() attendance.Shift {
	return windowedShift("night", "22:00", "06:00", "22:00", "23:59", "04:00", "06:00")
}

func dayShift() attendance.Shift {
	return windowedShift("day", "08:00", "17:00", "07:30", "08:30", "16:30", "18:00")
}

func record(id int64, employee string, day time.Time, schedule string, punches ...string) attendance.Record {
	rec := attendance.Record{ID: id, EmployeeID: employee, WorkDate: day, ScheduleName: schedule}
	copy(rec.Punches[:], punches)
	return rec
}

func everyDay(mode attendance.MatchMode, shifts ...attendance.Shift) attendance.Schedule {
	days := make(map[attendance.DayKey][]attendance.Shift)
	for _, key := range attendance.AllDayKeys() {
		days[key] = shifts
	}
	return attendance.Schedule{ID: 1, Name: "s", Mode: mode, Days: days}
}

func arrangeOne(t *testing.T, rec attendance.Record, schedule attendance.Schedule) attendance.Record {
	t.Helper()
	out := Arrange([]attendance.Record{rec}, map[string]attendance.Schedule{rec.ScheduleName: schedule}, nil, Options{})
	require.Len(t, out, 1)
	return out[0]
}

func slots(values ...string) [attendance.SlotCount]string {
	var out [attendance.SlotCount]string
	copy(out[:], values)
	return out
}

func TestArrange_AutoTwoShiftScenario(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeAuto,
		windowedShift("morning", "08:00", "12:00", "07:45", "08:15", "11:45", "12:15"),
		windowedShift("afternoon", "13:00", "17:00", "12:45", "13:15", "16:45", "17:15"),
	)
	rec := record(1, "e1", monday, "s", "17:10", "07:58", "13:02", "12:05")

	got := arrangeOne(t, rec, schedule)

	assert.Equal(t, slots("07:58", "12:05", "13:02", "17:10"), got.Punches)
	assert.Equal(t, attendance.LabelDay, got.Label)
}

func TestArrange_NightWindowWrapsMidnight(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "s", "05:45", "23:10")
	got := arrangeOne(t, rec, everyDay(attendance.ModeAuto, nightShift()))

	assert.Equal(t, slots("23:10", "05:45"), got.Punches)
	assert.Equal(t, attendance.LabelNight, got.Label)
}

func TestArrange_RelaxedOvertimeCapForNightShift(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeAuto, nightShift())

	accepted := arrangeOne(t, record(1, "e1", monday, "s", "23:10", "14:30"), schedule)
	assert.Equal(t, "23:10", accepted.Punches[attendance.SlotIn1])
	assert.Equal(t, "14:30", accepted.Punches[attendance.SlotOut1])
	assert.Equal(t, attendance.LabelNight, accepted.Label)

	rejected := arrangeOne(t, record(2, "e1", monday, "s", "23:10", "16:00"), schedule)
	assert.Equal(t, "23:10", rejected.Punches[attendance.SlotIn1])
	assert.Empty(t, rejected.Punches[attendance.SlotOut1])
	assert.Equal(t, attendance.LabelNight, rejected.Label)
}

func TestArrange_OvertimeCapOverride(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "s", "23:10", "16:00")
	out := Arrange(
		[]attendance.Record{rec},
		map[string]attendance.Schedule{"s": everyDay(attendance.ModeAuto, nightShift())},
		nil,
		Options{OvertimeCap: clock("16:30")},
	)

	assert.Equal(t, "16:00", out[0].Punches[attendance.SlotOut1])
}

func TestArrange_RelaxedOutForDayShiftHasNoCap(t *testing.T) {
	t.Parallel()

	got := arrangeOne(t, record(1, "e1", monday, "s", "08:00", "21:40"), everyDay(attendance.ModeAuto, dayShift()))

	assert.Equal(t, slots("08:00", "21:40"), got.Punches)
	assert.Equal(t, attendance.LabelDay, got.Label)
}

func TestArrange_OutOnlyMatchUsesSlot(t *testing.T) {
	t.Parallel()

	got := arrangeOne(t, record(1, "e1", monday, "s", "17:02"), everyDay(attendance.ModeAuto, dayShift()))

	assert.Equal(t, slots("", "17:02"), got.Punches)
	assert.Equal(t, attendance.LabelDay, got.Label)
}

func TestArrange_UnusedShiftDoesNotConsumeSlot(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeAuto,
		windowedShift("early", "05:00", "09:00", "04:45", "05:15", "08:45", "09:15"),
		dayShift(),
	)
	got := arrangeOne(t, record(1, "e1", monday, "s", "08:01", "17:03"), schedule)

	assert.Equal(t, slots("08:01", "17:03"), got.Punches)
}

func TestArrange_NoMatchClearsStaleLabel(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "s", "10:00", "11:00")
	rec.Label = attendance.LabelNight

	got := arrangeOne(t, rec, everyDay(attendance.ModeAuto, dayShift()))

	assert.Equal(t, attendance.LabelNone, got.Label)
	assert.False(t, got.HasPunches())
}

func TestArrange_AtMostThreeSlots(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeAuto,
		windowedShift("a", "06:00", "07:00", "05:50", "06:10", "06:50", "07:10"),
		windowedShift("b", "08:00", "09:00", "07:50", "08:10", "08:50", "09:10"),
		windowedShift("c", "10:00", "11:00", "09:50", "10:10", "10:50", "11:10"),
		windowedShift("d", "10:05", "11:00", "10:01", "10:10", "10:50", "11:10"),
	)
	got := arrangeOne(t, record(1, "e1", monday, "s", "10:05", "07:00", "06:00", "09:00", "08:00", "10:00"), schedule)

	assert.Equal(t, slots("06:00", "07:00", "08:00", "09:00", "10:00", ""), got.Punches)
}

func TestArrange_NoDoubleConsumption(t *testing.T) {
	t.Parallel()

	schedules := []attendance.Schedule{
		everyDay(attendance.ModeAuto, dayShift(), dayShift(), dayShift()),
		everyDay(attendance.ModeAuto, nightShift(), dayShift()),
		everyDay(attendance.ModeFirstLast, dayShift(), nightShift()),
		everyDay(attendance.ModeAuto, attendance.Shift{TimeIn: clock("08:00")}, attendance.Shift{OutWindowStart: clock("12:00")}),
	}
	punchSets := [][]string{
		{"08:00", "08:00", "08:05", "17:00", "17:00", "23:00"},
		{"05:00", "22:10", "23:50", "05:55", "bogus", "16:45"},
		{"08:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
	}

	for _, schedule := range schedules {
		for _, punches := range punchSets {
			rec := record(1, "e1", monday, "s", punches...)
			got := arrangeOne(t, rec, schedule)

			available := make(map[string]int)
			for _, value := range rec.Punches {
				if timeutil.ToSeconds(value).Valid {
					available[value]++
				}
			}
			for _, value := range got.Punches {
				if value == "" {
					continue
				}
				available[value]--
				require.GreaterOrEqual(t, available[value], 0, "punch %q used more often than recorded in %v -> %v", value, punches, got.Punches)
			}
		}
	}
}

func TestArrange_FirstLastCollapsesDay(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "s", "08:02", "12:01", "13:00", "17:05")
	got := arrangeOne(t, rec, everyDay(attendance.ModeFirstLast, dayShift()))

	assert.Equal(t, slots("08:02", "17:05"), got.Punches)
	assert.Equal(t, attendance.LabelDay, got.Label)
}

func TestArrange_FirstLastRelaxedOutUsesEntryShift(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeFirstLast, nightShift())

	got := arrangeOne(t, record(1, "e1", monday, "s", "22:10", "09:00", "19:00"), schedule)

	assert.Equal(t, slots("22:10", "09:00"), got.Punches)
	assert.Equal(t, attendance.LabelNight, got.Label)
}

func TestArrange_FirstLastIgnoresShiftsWithoutTiming(t *testing.T) {
	t.Parallel()

	schedule := everyDay(attendance.ModeFirstLast, attendance.Shift{Name: "empty"})
	got := arrangeOne(t, record(1, "e1", monday, "s", "08:00", "17:00"), schedule)

	assert.False(t, got.HasPunches())
	assert.Equal(t, attendance.LabelNone, got.Label)
}

func TestArrange_DeviceModeKeepsPunches(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "s", "17:05", "", "08:02", "bogus", "", "12:00")
	got := arrangeOne(t, rec, everyDay(attendance.ModeDevice, dayShift()))

	assert.Equal(t, rec.Punches, got.Punches)
	assert.Equal(t, attendance.LabelDay, got.Label)

	night := arrangeOne(t, record(2, "e1", monday, "s", "22:30"), everyDay(attendance.ModeDevice, nightShift()))
	assert.Equal(t, attendance.LabelNight, night.Label)

	unmatched := arrangeOne(t, record(3, "e1", monday, "s", "03:00"), everyDay(attendance.ModeDevice, dayShift()))
	assert.Equal(t, slots("03:00"), unmatched.Punches)
	assert.Equal(t, attendance.LabelNone, unmatched.Label)
}

func TestArrange_MissingScheduleFallsBackToChronologicalPairs(t *testing.T) {
	t.Parallel()

	rec := record(1, "e1", monday, "unknown", "17:00", "08:00", "12:00", "13:00", "", "")
	rec.Label = attendance.LabelDay

	out := Arrange([]attendance.Record{rec}, nil, nil, Options{})
	assert.Equal(t, slots("08:00", "12:00", "13:00", "17:00"), out[0].Punches)
	assert.Equal(t, attendance.LabelNone, out[0].Label)

	firstLast := Arrange([]attendance.Record{rec}, nil, nil, Options{DefaultMode: attendance.ModeFirstLast})
	assert.Equal(t, slots("08:00", "17:00"), firstLast[0].Punches)
}

func TestArrange_HolidayUsesHolidayShifts(t *testing.T) {
	t.Parallel()

	schedule := attendance.Schedule{
		ID:   1,
		Name: "s",
		Mode: attendance.ModeAuto,
		Days: map[attendance.DayKey][]attendance.Shift{
			attendance.DayMonday:  {dayShift()},
			attendance.DayHoliday: {nightShift()},
		},
	}
	rec := record(1, "e1", monday, "s", "22:05", "05:30")
	schedules := map[string]attendance.Schedule{"s": schedule}

	regular := Arrange([]attendance.Record{rec}, schedules, nil, Options{})
	assert.Equal(t, attendance.LabelNone, regular[0].Label)

	holiday := Arrange([]attendance.Record{rec}, schedules, attendance.NewHolidaySet(monday), Options{})
	assert.Equal(t, attendance.LabelNight, holiday[0].Label)
	assert.Equal(t, slots("22:05", "05:30"), holiday[0].Punches)
}

func TestArrange_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []attendance.Record{record(1, "e1", monday, "s", "17:05", "08:02")}
	snapshot := input[0]

	Arrange(input, map[string]attendance.Schedule{"s": everyDay(attendance.ModeAuto, dayShift())}, nil, Options{})

	assert.Equal(t, snapshot, input[0])
}

func TestArrange_Idempotent(t *testing.T) {
	t.Parallel()

	schedules := map[string]attendance.Schedule{"s": everyDay(attendance.ModeAuto, dayShift(), nightShift())}
	input := []attendance.Record{
		record(1, "e1", monday, "s", "22:01"),
		record(2, "e1", monday.AddDate(0, 0, 1), "s", "05:50"),
		record(3, "e2", monday, "s", "08:00", "17:30"),
	}

	first := Arrange(input, schedules, nil, Options{})
	second := Arrange(input, schedules, nil, Options{})

	assert.Equal(t, first, second)
}
