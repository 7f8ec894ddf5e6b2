package importer

import (
	"sort"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

type dayGroup struct {
	employeeID string
	date       string
}

// mergeRows folds mapped rows into one record per employee and work date.
// Punches are ordered by time of day, repeated times are dropped and days
// with more than six punches keep the earliest five plus the latest. The
// first non-empty schedule of a day wins. It returns the records ordered by
// employee and date, and the number of dropped punches.
func mergeRows(rows []Row) ([]attendance.Record, int) {
	type accumulator struct {
		record  attendance.Record
		punches []timeutil.TimeOfDay
	}

	groups := make(map[dayGroup]*accumulator)
	order := make([]dayGroup, 0, len(rows))
	for _, row := range rows {
		key := dayGroup{employeeID: row.EmployeeID, date: timeutil.DateKey(row.WorkDate)}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{record: attendance.Record{EmployeeID: row.EmployeeID, WorkDate: row.WorkDate}}
			groups[key] = acc
			order = append(order, key)
		}
		if acc.record.ScheduleName == "" {
			acc.record.ScheduleName = row.Schedule
		}
		for _, punch := range row.Punches {
			if punch.Valid {
				acc.punches = append(acc.punches, punch)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].employeeID == order[j].employeeID {
			return order[i].date < order[j].date
		}
		return order[i].employeeID < order[j].employeeID
	})

	dropped := 0
	records := make([]attendance.Record, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		kept, removed := capPunches(acc.punches)
		dropped += removed
		for i, punch := range kept {
			acc.record.Punches[i] = punch.String()
		}
		records = append(records, acc.record)
	}
	return records, dropped
}

func capPunches(punches []timeutil.TimeOfDay) ([]timeutil.TimeOfDay, int) {
	sorted := append([]timeutil.TimeOfDay(nil), punches...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	unique := sorted[:0]
	for _, punch := range sorted {
		if len(unique) > 0 && punch == unique[len(unique)-1] {
			continue
		}
		unique = append(unique, punch)
	}
	removed := len(sorted) - len(unique)

	if len(unique) <= attendance.SlotCount {
		return unique, removed
	}
	capped := append(unique[:attendance.SlotCount-1:attendance.SlotCount-1], unique[len(unique)-1])
	return capped, removed + len(unique) - attendance.SlotCount
}
