package render

// Window is the slice of the filtered log shown in the viewport.
type Window struct {
	Start int
	End   int
	// Offset is the requested offset after re-clamping.
	Offset int
	// AutoScroll is true when the window ends at the newest line.
	AutoScroll bool
}

// Len is the number of rows the window covers.
func (w Window) Len() int {
	return w.End - w.Start
}

// ComputeWindow places a viewport of rows lines offset lines back from the
// end of a sequence of total lines. When the offset would push the start
// before the first line, the window is pinned to the top and the offset
// shrinks to match, so scrolling past the oldest line never leaves blank
// rows.
func ComputeWindow(total, offset, rows int) Window {
	total = max(total, 0)
	rows = max(rows, 0)
	offset = min(max(offset, 0), total)

	end := total - offset
	start := end - rows
	if start < 0 {
		end = min(end-start, total)
		start = 0
	}
	return Window{
		Start:      start,
		End:        end,
		Offset:     total - end,
		AutoScroll: end == total,
	}
}
