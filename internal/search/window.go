package search

// Window caps how many disk-search items are materialized in the vertical
// list at once, independent of how many have been fetched. Capacity only
// grows within one query's lifetime and resets on query change or clear.
type Window struct {
	base          int
	increment     int
	thresholdRows int
	capacity      int
}

// NewWindow creates a display window with the given base capacity
func NewWindow(base, increment, thresholdRows int) *Window {
	return &Window{
		base:          base,
		increment:     increment,
		thresholdRows: thresholdRows,
		capacity:      base,
	}
}

// Capacity returns the current cap on materialized items
func (w *Window) Capacity() int {
	return w.capacity
}

// Reset restores the base capacity. Called on every query commit or clear.
func (w *Window) Reset() {
	w.capacity = w.base
}

// NearBottom reports whether the viewport bottom sits within the scroll
// threshold of the end of the content
func (w *Window) NearBottom(offset, viewHeight, contentLen int) bool {
	return offset+viewHeight >= contentLen-w.thresholdRows
}

// Grow increases capacity by one increment when more items exist than are
// displayed, clamped to the greater of the known total and the number of
// items actually accumulated. Returns true if capacity changed.
func (w *Window) Grow(accumulated, totalCount int) bool {
	limit := totalCount
	if accumulated > limit {
		limit = accumulated
	}
	if limit <= w.capacity {
		return false
	}

	w.capacity += w.increment
	if w.capacity > limit {
		w.capacity = limit
	}
	return true
}
