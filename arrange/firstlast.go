package arrange

import "gopunch/attendance"

// arrangeFirstLast collapses the day to one pair: the earliest punch inside
// any entry window and the latest remaining punch inside any exit window.
func arrangeFirstLast(record attendance.Record, shifts []attendance.Shift, opts Options) attendance.Record {
	available := collectSorted(record)
	out := record
	out.Punches = [attendance.SlotCount]string{}
	out.Label = attendance.LabelNone

	if len(shifts) == 0 {
		if len(available) > 0 {
			out.Punches[attendance.SlotIn1] = available[0].raw
		}
		if len(available) > 1 {
			out.Punches[attendance.SlotOut1] = available[len(available)-1].raw
		}
		return out
	}

	var inShift, outShift *attendance.Shift
	var in, exit punch
	hasIn, hasOut := false, false

	for i := 0; i < len(available) && !hasIn; i++ {
		if shift := firstShiftContaining(shifts, available[i].secs, inWindow); shift != nil {
			in, hasIn = available.take(i), true
			inShift = shift
		}
	}

	for i := len(available) - 1; i >= 0 && !hasOut; i-- {
		if shift := firstShiftContaining(shifts, available[i].secs, outWindow); shift != nil {
			exit, hasOut = available.take(i), true
			outShift = shift
		}
	}

	ref := inShift
	if ref == nil {
		ref = outShift
	}
	if !hasOut && ref != nil {
		exit, hasOut = available.takeRelaxedOut(*ref, opts.OvertimeCap.Secs)
	}

	if hasIn {
		out.Punches[attendance.SlotIn1] = in.raw
	}
	if hasOut {
		out.Punches[attendance.SlotOut1] = exit.raw
	}
	if ref != nil {
		out.Label = labelFor(true, ref.Overnight())
	}
	return out
}

// firstShiftContaining returns the first shift whose window (as picked by
// bounds) is configured and contains secs.
func firstShiftContaining(shifts []attendance.Shift, secs int, bounds func(attendance.Shift) window) *attendance.Shift {
	for i := range shifts {
		w := bounds(shifts[i])
		if w.defined() && w.contains(secs) {
			return &shifts[i]
		}
	}
	return nil
}
