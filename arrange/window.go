package arrange

import (
	"math"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

// window is an inclusive time-of-day range that may wrap past midnight.
// A missing bound leaves that side open; a window with no bound matches
// nothing.
type window struct {
	start timeutil.TimeOfDay
	end   timeutil.TimeOfDay
}

func inWindow(shift attendance.Shift) window {
	return window{start: shift.InStart(), end: shift.InEnd()}
}

func outWindow(shift attendance.Shift) window {
	return window{start: shift.OutStart(), end: shift.OutEnd()}
}

func (w window) defined() bool {
	return w.start.Valid || w.end.Valid
}

func (w window) contains(secs int) bool {
	switch {
	case w.start.Valid && w.end.Valid:
		if w.start.Secs <= w.end.Secs {
			return w.start.Secs <= secs && secs <= w.end.Secs
		}
		return secs >= w.start.Secs || secs <= w.end.Secs
	case w.start.Valid:
		return secs >= w.start.Secs
	case w.end.Valid:
		return secs <= w.end.Secs
	default:
		return false
	}
}

// shiftMatch is the outcome of probing one shift against the pool.
type shiftMatch struct {
	in    punch
	out   punch
	hasIn bool
	// hasOut covers both strict and relaxed exits.
	hasOut bool
	strict bool
}

// probeShift consumes the strict in and out punches for one shift, then,
// when relaxed is set and only the entry matched, an overtime exit.
func probeShift(p *pool, shift attendance.Shift, overtimeCap int, relaxed bool) shiftMatch {
	var match shiftMatch
	match.in, match.hasIn = p.takeEarliest(inWindow(shift))
	match.out, match.hasOut = p.takeLatest(outWindow(shift))
	match.strict = match.hasIn || match.hasOut
	if !match.strict {
		return match
	}
	if relaxed && match.hasIn && !match.hasOut {
		match.out, match.hasOut = p.takeRelaxedOut(shift, overtimeCap)
	}
	return match
}

// takeRelaxedOut consumes the latest punch at or after the shift's exit
// window start. For overnight shifts the search stops at
// max(overtimeCap, out window end) so an evening punch is not read as this
// morning's overtime.
func (p *pool) takeRelaxedOut(shift attendance.Shift, overtimeCap int) (punch, bool) {
	start := shift.OutStart()
	if !start.Valid {
		return punch{}, false
	}

	upper := math.MaxInt
	if shift.Overnight() {
		upper = overtimeCap
		if end := shift.OutEnd(); end.Valid && end.Secs > upper {
			upper = end.Secs
		}
	}

	for i := len(*p) - 1; i >= 0; i-- {
		secs := (*p)[i].secs
		if secs >= start.Secs && secs <= upper {
			return p.take(i), true
		}
	}
	return punch{}, false
}

type slotPair struct {
	in  string
	out string
}

// matchResult is the outcome of walking a shift list in order.
type matchResult struct {
	pairs []slotPair
	label attendance.Label
}

// matchShifts walks shifts in configuration order and assigns up to
// PairCount slot pairs. Unused shifts do not consume a pair.
func matchShifts(p *pool, shifts []attendance.Shift, overtimeCap int, relaxed bool) matchResult {
	var result matchResult
	used, night := false, false

	for _, shift := range shifts {
		if len(result.pairs) >= attendance.PairCount {
			break
		}
		match := probeShift(p, shift, overtimeCap, relaxed)
		if !match.strict {
			continue
		}

		result.pairs = append(result.pairs, slotPair{in: match.in.raw, out: match.out.raw})
		used = true
		if shift.Overnight() {
			night = true
		}
	}

	result.label = labelFor(used, night)
	return result
}

func labelFor(used, night bool) attendance.Label {
	switch {
	case night:
		return attendance.LabelNight
	case used:
		return attendance.LabelDay
	default:
		return attendance.LabelNone
	}
}
