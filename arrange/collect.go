package arrange

import (
	"sort"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

// punch is one parsed slot value. raw keeps the stored text for display.
type punch struct {
	raw  string
	secs int
	slot int
}

// pool holds the punches still available for matching, ascending by time.
type pool []punch

// collectSorted reads the six slots in order, drops values that do not
// parse, and sorts by time. Equal times keep slot order.
func collectSorted(record attendance.Record) pool {
	punches := make(pool, 0, attendance.SlotCount)
	for slot, raw := range record.Punches {
		value := timeutil.ToSeconds(raw)
		if !value.Valid {
			continue
		}
		punches = append(punches, punch{raw: raw, secs: value.Secs, slot: slot})
	}
	sort.SliceStable(punches, func(i, j int) bool {
		return punches[i].secs < punches[j].secs
	})
	return punches
}

func (p *pool) take(index int) punch {
	taken := (*p)[index]
	*p = append((*p)[:index], (*p)[index+1:]...)
	return taken
}

// takeEarliest consumes the first punch inside w.
func (p *pool) takeEarliest(w window) (punch, bool) {
	for i, candidate := range *p {
		if w.contains(candidate.secs) {
			return p.take(i), true
		}
	}
	return punch{}, false
}

// takeLatest consumes the last punch inside w.
func (p *pool) takeLatest(w window) (punch, bool) {
	for i := len(*p) - 1; i >= 0; i-- {
		if w.contains((*p)[i].secs) {
			return p.take(i), true
		}
	}
	return punch{}, false
}
