package classify

import (
	"sort"

	"gopunch/attendance"
)

// LabelChanges pairs records by ID and returns one update per record whose
// label in after differs from the stored label in before. Records without a
// persisted ID are skipped. Updates are ordered by ID.
func LabelChanges(before, after []attendance.Record) []attendance.LabelUpdate {
	stored := make(map[int64]attendance.Label, len(before))
	for _, record := range before {
		if record.ID <= 0 {
			continue
		}
		stored[record.ID] = record.Label
	}

	updates := make([]attendance.LabelUpdate, 0)
	for _, record := range after {
		previous, ok := stored[record.ID]
		if !ok {
			continue
		}
		if previous == record.Label {
			continue
		}
		updates = append(updates, attendance.LabelUpdate{ID: record.ID, Label: record.Label})
	}

	sort.Slice(updates, func(i, j int) bool {
		return updates[i].ID < updates[j].ID
	})
	return updates
}
