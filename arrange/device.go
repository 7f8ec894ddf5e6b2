package arrange

import "gopunch/attendance"

// arrangeDevice keeps the punches exactly as stored and only classifies the
// day from the strict window probe.
func arrangeDevice(record attendance.Record, shifts []attendance.Shift, opts Options) attendance.Record {
	scratch := collectSorted(record)
	out := record
	out.Label = matchShifts(&scratch, shifts, opts.OvertimeCap.Secs, false).label
	return out
}
