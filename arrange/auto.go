package arrange

import "gopunch/attendance"

// arrangeAuto assigns one slot pair per used shift, in configuration order.
func arrangeAuto(record attendance.Record, shifts []attendance.Shift, opts Options) attendance.Record {
	available := collectSorted(record)
	out := record
	out.Punches = [attendance.SlotCount]string{}
	out.Label = attendance.LabelNone

	if len(shifts) == 0 {
		for i, p := range available {
			if i >= attendance.SlotCount {
				break
			}
			out.Punches[i] = p.raw
		}
		return out
	}

	result := matchShifts(&available, shifts, opts.OvertimeCap.Secs, true)
	for i, pair := range result.pairs {
		out.Punches[i*2] = pair.in
		out.Punches[i*2+1] = pair.out
	}
	out.Label = result.label
	return out
}
