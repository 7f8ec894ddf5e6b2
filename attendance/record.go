package attendance

import (
	"time"

	"gopunch/internal/timeutil"
)

// Slot positions inside Record.Punches.
const (
	SlotIn1 = iota
	SlotOut1
	SlotIn2
	SlotOut2
	SlotIn3
	SlotOut3

	SlotCount = 6
	PairCount = SlotCount / 2
)

var SlotNames = [SlotCount]string{"in_1", "out_1", "in_2", "out_2", "in_3", "out_3"}

type Label string

const (
	LabelNone  Label = ""
	LabelDay   Label = "HC"
	LabelNight Label = "Đêm"
)

func ParseLabel(value string) Label {
	switch Label(value) {
	case LabelDay:
		return LabelDay
	case LabelNight:
		return LabelNight
	default:
		return LabelNone
	}
}

// Record is one employee's punches for one calendar day. Punch values keep
// their stored text; the empty string marks an absent slot.
type Record struct {
	ID           int64
	EmployeeID   string
	WorkDate     time.Time
	Punches      [SlotCount]string
	ScheduleName string
	Label        Label
}

func (r Record) In(pair int) string {
	return r.Punches[pair*2]
}

func (r Record) Out(pair int) string {
	return r.Punches[pair*2+1]
}

// PunchValues returns the non-empty slot values in slot order.
func (r Record) PunchValues() []string {
	values := make([]string, 0, SlotCount)
	for _, value := range r.Punches {
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func (r Record) HasPunches() bool {
	for _, value := range r.Punches {
		if value != "" {
			return true
		}
	}
	return false
}

// Cleared returns a copy with every slot and the label reset.
func (r Record) Cleared() Record {
	r.Punches = [SlotCount]string{}
	r.Label = LabelNone
	return r
}

func (r Record) DateKey() string {
	return timeutil.DateKey(r.WorkDate)
}

// LabelUpdate is one persisted label change.
type LabelUpdate struct {
	ID    int64
	Label Label
}

// Filter narrows the rows fetched for one arrange run. Zero values mean
// unbounded.
type Filter struct {
	From        time.Time
	To          time.Time
	EmployeeIDs []string
}
