package vtcore

// RingScrollback is the default ScrollbackProvider: a fixed-capacity ring
// of lines. Pushing past MaxLines evicts the oldest stored line, satisfying
// the invariant that scrollback never exceeds its configured capacity.
type RingScrollback struct {
	lines [][]Cell
	max   int
}

// NewRingScrollback creates a RingScrollback holding at most max lines.
// A non-positive max behaves like NoopScrollback: nothing is retained.
func NewRingScrollback(max int) *RingScrollback {
	if max < 0 {
		max = 0
	}
	return &RingScrollback{max: max}
}

// Push appends line, evicting the oldest stored line first if at capacity.
// The cell slice is copied so later mutation of the live buffer row this
// line came from cannot retroactively change scrollback content.
func (r *RingScrollback) Push(line []Cell) {
	if r.max <= 0 {
		return
	}
	cp := make([]Cell, len(line))
	copy(cp, line)
	r.lines = append(r.lines, cp)
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = r.lines[over:]
	}
}

// Len returns the number of lines currently stored.
func (r *RingScrollback) Len() int {
	return len(r.lines)
}

// Line returns the line at index, where 0 is the oldest. Returns nil if
// index is out of range.
func (r *RingScrollback) Line(index int) []Cell {
	if index < 0 || index >= len(r.lines) {
		return nil
	}
	return r.lines[index]
}

// Clear removes all stored lines without changing the configured capacity.
func (r *RingScrollback) Clear() {
	r.lines = nil
}

// SetMaxLines changes the capacity, trimming the oldest lines immediately
// if the new capacity is smaller than what is currently stored.
func (r *RingScrollback) SetMaxLines(max int) {
	if max < 0 {
		max = 0
	}
	r.max = max
	if over := len(r.lines) - r.max; over > 0 {
		r.lines = r.lines[over:]
	}
}

// MaxLines returns the current capacity.
func (r *RingScrollback) MaxLines() int {
	return r.max
}

var _ ScrollbackProvider = (*RingScrollback)(nil)
