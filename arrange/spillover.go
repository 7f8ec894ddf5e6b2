package arrange

import (
	"sort"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

// resolveSpillover folds a night shift's exit, recorded on the following
// calendar day, back into the night's out_1. records must belong to one
// employee; they are updated in place in date order (ties by ID). It
// returns the positions, after sorting, of the nights that absorbed a tail.
func resolveSpillover(records []attendance.Record, cutoff int) []int {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].WorkDate.Equal(records[j].WorkDate) {
			return records[i].ID < records[j].ID
		}
		return records[i].WorkDate.Before(records[j].WorkDate)
	})

	var absorbed []int
	for i := 1; i < len(records); i++ {
		prev, cur := &records[i-1], &records[i]
		if prev.Label != attendance.LabelNight {
			continue
		}
		if !timeutil.NextDay(prev.WorkDate, cur.WorkDate) {
			continue
		}

		latest, ok := morningTail(*cur, cutoff)
		if !ok {
			continue
		}

		current := timeutil.ToSeconds(prev.Punches[attendance.SlotOut1])
		if !current.Valid || latest.secs > current.Secs {
			prev.Punches[attendance.SlotOut1] = latest.raw
		}
		*cur = cur.Cleared()
		absorbed = append(absorbed, i-1)
	}
	return absorbed
}

// morningTail returns the latest punch of record when every punch it holds
// parses to a time before cutoff.
func morningTail(record attendance.Record, cutoff int) (punch, bool) {
	var latest punch
	found := false
	for slot, raw := range record.Punches {
		if raw == "" {
			continue
		}
		value := timeutil.ToSeconds(raw)
		if !value.Valid || value.Secs >= cutoff {
			return punch{}, false
		}
		if !found || value.Secs > latest.secs {
			latest = punch{raw: raw, secs: value.Secs, slot: slot}
			found = true
		}
	}
	return latest, found
}
