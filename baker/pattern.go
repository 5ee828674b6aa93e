package baker

import "github.com/QEStudios/ArsBaker/tracker"

// decompress expands a run-length encoded pattern. Repeated positions share
// one row, so rows must not be modified afterwards. A nil pattern expands to
// no rows.
func decompress(pattern tracker.Pattern) []*tracker.Row {
	if pattern == nil {
		return nil
	}

	ret := make([]*tracker.Row, 0, len(pattern))
	for _, rec := range pattern {
		row := rec.Row
		for range rec.Count() {
			ret = append(ret, &row)
		}
	}
	return ret
}

// rowAt returns the row at index, or nil past the end of a short pattern.
func rowAt(rows []*tracker.Row, index int) *tracker.Row {
	if index < 0 || index >= len(rows) {
		return nil
	}
	return rows[index]
}
