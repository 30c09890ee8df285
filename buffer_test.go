package vtcore

import "testing"

func TestBuffer_Dimensions(t *testing.T) {
	b := NewBuffer(24, 80)

	if b.Rows() != 24 {
		t.Errorf("Rows() = %d, want 24", b.Rows())
	}
	if b.Cols() != 80 {
		t.Errorf("Cols() = %d, want 80", b.Cols())
	}
}

func TestBuffer_CellReadWrite(t *testing.T) {
	b := NewBuffer(24, 80)

	b.Cell(0, 0).Char = 'A'

	if got := b.Cell(0, 0).Char; got != 'A' {
		t.Errorf("Cell(0,0).Char = %q, want 'A'", got)
	}
}

func TestBuffer_CellOutOfBounds(t *testing.T) {
	b := NewBuffer(24, 80)

	cases := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"row at height", 24, 0},
		{"col at width", 0, 80},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if cell := b.Cell(c.row, c.col); cell != nil {
				t.Errorf("Cell(%d,%d) = %v, want nil", c.row, c.col, cell)
			}
		})
	}
}

func TestBuffer_ClearRowUsesBlankTemplate(t *testing.T) {
	b := NewBuffer(2, 10)
	b.Cell(0, 0).Char = 'A'
	b.Cell(0, 1).Char = 'B'

	b.ClearRow(0, NewBlankCell(RGB(0, 0, 64)))

	for col := 0; col < 10; col++ {
		cell := b.Cell(0, col)
		if cell.Char != ' ' {
			t.Errorf("Cell(0,%d).Char = %q, want ' '", col, cell.Char)
		}
		if cell.Bg != RGB(0, 0, 64) {
			t.Errorf("Cell(0,%d).Bg = %v, want the blank template's background", col, cell.Bg)
		}
	}
}

func TestBuffer_ClearRowRangePartial(t *testing.T) {
	b := NewBuffer(1, 10)
	for col := 0; col < 10; col++ {
		b.Cell(0, col).Char = 'X'
	}

	b.ClearRowRange(0, 2, 5, NewCell())

	for col := 0; col < 10; col++ {
		want := byte('X')
		if col >= 2 && col < 5 {
			want = ' '
		}
		if got := b.Cell(0, col).Char; got != rune(want) {
			t.Errorf("Cell(0,%d).Char = %q, want %q", col, got, rune(want))
		}
	}
}

func TestBuffer_ScrollUpFullWidth(t *testing.T) {
	b := NewBuffer(5, 10)
	for row := 0; row < 5; row++ {
		b.Cell(row, 0).Char = rune('0' + row)
	}

	b.ScrollUp(0, 5, 0, 10, 1, NewCell())

	if got := b.Cell(0, 0).Char; got != '1' {
		t.Errorf("Cell(0,0).Char = %q, want '1'", got)
	}
	if got := b.Cell(4, 0).Char; got != ' ' {
		t.Errorf("Cell(4,0).Char = %q, want ' ' (scrolled-in blank)", got)
	}
}

func TestBuffer_ScrollUpRespectsColumnMargins(t *testing.T) {
	b := NewBuffer(3, 10)
	for row := 0; row < 3; row++ {
		b.Cell(row, 2).Char = rune('0' + row)
		b.Cell(row, 8).Char = 'Z' // outside the [2,6) margin, must not move
	}

	b.ScrollUp(0, 3, 2, 6, 1, NewCell())

	if got := b.Cell(0, 2).Char; got != '1' {
		t.Errorf("Cell(0,2).Char = %q, want '1' (row 1's content moved up)", got)
	}
	if got := b.Cell(0, 8).Char; got != 'Z' {
		t.Errorf("Cell(0,8).Char = %q, want 'Z' (outside margin, untouched)", got)
	}
}

func TestBuffer_ScrollDownFullWidth(t *testing.T) {
	b := NewBuffer(5, 10)
	for row := 0; row < 5; row++ {
		b.Cell(row, 0).Char = rune('0' + row)
	}

	b.ScrollDown(0, 5, 0, 10, 1, NewCell())

	if got := b.Cell(1, 0).Char; got != '0' {
		t.Errorf("Cell(1,0).Char = %q, want '0'", got)
	}
	if got := b.Cell(0, 0).Char; got != ' ' {
		t.Errorf("Cell(0,0).Char = %q, want ' ' (scrolled-in blank)", got)
	}
}

// testScrollbackBuffer is a minimal ScrollbackProvider used only by tests.
type testScrollbackBuffer struct {
	lines    [][]Cell
	maxLines int
}

func (s *testScrollbackBuffer) Push(line []Cell) {
	cp := make([]Cell, len(line))
	copy(cp, line)
	s.lines = append(s.lines, cp)
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}

func (s *testScrollbackBuffer) Len() int              { return len(s.lines) }
func (s *testScrollbackBuffer) Line(index int) []Cell { return s.lines[index] }
func (s *testScrollbackBuffer) Clear()                { s.lines = nil }
func (s *testScrollbackBuffer) SetMaxLines(max int)   { s.maxLines = max }
func (s *testScrollbackBuffer) MaxLines() int         { return s.maxLines }

func TestBuffer_ScrollPushesToScrollback(t *testing.T) {
	storage := &testScrollbackBuffer{maxLines: 100}
	b := NewBufferWithStorage(5, 10, storage)
	for row := 0; row < 5; row++ {
		b.Cell(row, 0).Char = rune('A' + row)
	}

	b.ScrollUp(0, 5, 0, 10, 1, NewCell())

	if got := b.ScrollbackLen(); got != 1 {
		t.Fatalf("ScrollbackLen() = %d, want 1", got)
	}
	line := b.ScrollbackLine(0)
	if line == nil || line[0].Char != 'A' {
		t.Errorf("ScrollbackLine(0)[0].Char = %v, want 'A'", line)
	}
}

func TestBuffer_ScrollDoesNotPushScrollbackWithinMargins(t *testing.T) {
	storage := &testScrollbackBuffer{maxLines: 100}
	b := NewBufferWithStorage(5, 10, storage)

	// Column-margined scroll (left/right narrowed): never eligible for
	// scrollback even with top==0, since the row isn't fully vacated.
	b.ScrollUp(0, 5, 2, 8, 1, NewCell())

	if got := b.ScrollbackLen(); got != 0 {
		t.Errorf("ScrollbackLen() = %d, want 0 for a margin-bounded scroll", got)
	}
}

func TestBuffer_LineContentTrimsTrailingBlanks(t *testing.T) {
	b := NewBuffer(1, 80)
	for i, ch := range "Hello" {
		b.Cell(0, i).Char = ch
	}

	if got := b.LineContent(0); got != "Hello" {
		t.Errorf("LineContent(0) = %q, want %q", got, "Hello")
	}
}

func TestBuffer_TabStops(t *testing.T) {
	b := NewBuffer(24, 80)

	if next := b.NextTabStop(0); next != 8 {
		t.Errorf("NextTabStop(0) = %d, want 8", next)
	}
	if next := b.NextTabStop(8); next != 16 {
		t.Errorf("NextTabStop(8) = %d, want 16", next)
	}
	if prev := b.PrevTabStop(16); prev != 8 {
		t.Errorf("PrevTabStop(16) = %d, want 8", prev)
	}

	b.ClearTabStop(8)
	if next := b.NextTabStop(0); next != 16 {
		t.Errorf("NextTabStop(0) after ClearTabStop(8) = %d, want 16", next)
	}

	b.ClearAllTabStops()
	if next := b.NextTabStop(0); next != b.Cols()-1 {
		t.Errorf("NextTabStop(0) with no tab stops = %d, want last column %d", next, b.Cols()-1)
	}
}

func TestBuffer_ResizeReflowsWrappedLines(t *testing.T) {
	b := NewBuffer(2, 5)
	for i, ch := range "Hello" {
		b.Cell(0, i).Char = ch
	}
	b.SetWrapped(0, true)
	for i, ch := range "World" {
		b.Cell(1, i).Char = ch
	}

	// Logical line "HelloWorld" reflows into a wider 10-column row.
	b.Resize(2, 10)

	if b.Rows() != 2 || b.Cols() != 10 {
		t.Fatalf("dimensions after Resize = %dx%d, want 2x10", b.Rows(), b.Cols())
	}
	if got := b.LineContent(0); got != "HelloWorld" {
		t.Errorf("LineContent(0) = %q, want %q", got, "HelloWorld")
	}
}

func TestBuffer_ResizeNeverSplitsAWideCellFromItsSpacer(t *testing.T) {
	b := NewBuffer(1, 4)
	b.Cell(0, 0).Char = 'A'
	wide := b.Cell(0, 1)
	wide.Char = '中'
	wide.SetFlag(CellFlagWideChar)
	spacer := b.Cell(0, 2)
	spacer.SetFlag(CellFlagWideCharSpacer)
	b.Cell(0, 3).Char = 'B'

	// Reflow to width 2: "A中_B" (4 logical cells) must not cut the wide
	// char/spacer pair across the new row boundary.
	b.Resize(3, 2)

	if b.Cell(0, 0).Char != 'A' {
		t.Errorf("Cell(0,0).Char = %q, want 'A'", b.Cell(0, 0).Char)
	}
	if b.Cell(1, 0).Char != '中' || !b.Cell(1, 0).IsWide() {
		t.Errorf("Cell(1,0) = %+v, want the wide character to start a fresh row", b.Cell(1, 0))
	}
	if !b.Cell(1, 1).IsWideSpacer() {
		t.Error("Cell(1,1) should be the wide char's spacer, kept on the same row")
	}
}

func TestBuffer_DirtyTracking(t *testing.T) {
	b := NewBuffer(24, 80)
	b.ClearAllDirty()

	if b.HasDirty() {
		t.Error("HasDirty() = true after ClearAllDirty, want false")
	}

	b.MarkDirty(3, 7)

	if !b.HasDirty() {
		t.Error("HasDirty() = false after MarkDirty, want true")
	}
	dirty := b.DirtyCells()
	if len(dirty) != 1 || !dirty[0].Equal(Position{Row: 3, Col: 7}) {
		t.Errorf("DirtyCells() = %v, want [{3 7}]", dirty)
	}
}

func TestBuffer_InsertAndDeleteChars(t *testing.T) {
	b := NewBuffer(1, 80)
	for i, ch := range "ABCD" {
		b.Cell(0, i).Char = ch
	}

	b.InsertBlanks(0, 1, 2, 80, NewCell())
	if got := b.LineContent(0); got != "A  BCD" {
		t.Errorf("LineContent(0) after InsertBlanks = %q, want %q", got, "A  BCD")
	}

	b.DeleteChars(0, 1, 2, 80, NewCell())
	if got := b.LineContent(0); got != "ABCD" {
		t.Errorf("LineContent(0) after DeleteChars = %q, want %q", got, "ABCD")
	}
}

func TestBuffer_WrappedLineTrackingSurvivesOutOfBounds(t *testing.T) {
	b := NewBuffer(5, 10)

	if b.IsWrapped(0) {
		t.Error("IsWrapped(0) = true initially, want false")
	}

	b.SetWrapped(0, true)
	if !b.IsWrapped(0) {
		t.Error("IsWrapped(0) = false after SetWrapped(true), want true")
	}

	b.SetWrapped(-1, true)
	b.SetWrapped(100, true)
	if b.IsWrapped(-1) || b.IsWrapped(100) {
		t.Error("out-of-bounds SetWrapped/IsWrapped should not panic or report true")
	}
}

func TestBuffer_GrowRowsAppendsBlankRows(t *testing.T) {
	b := NewBuffer(5, 10)
	b.Cell(0, 0).Char = 'A'
	b.Cell(4, 0).Char = 'E'

	b.GrowRows(3)

	if b.Rows() != 8 {
		t.Fatalf("Rows() = %d, want 8", b.Rows())
	}
	if b.Cell(0, 0).Char != 'A' || b.Cell(4, 0).Char != 'E' {
		t.Error("GrowRows must preserve existing content")
	}
	if b.Cell(7, 0).Char != ' ' {
		t.Error("new rows from GrowRows should start blank")
	}
}

func TestBuffer_GrowColsExpandsOneRowAndTabStops(t *testing.T) {
	b := NewBuffer(5, 10)
	b.Cell(0, 0).Char = 'A'
	b.Cell(0, 9).Char = 'B'

	b.GrowCols(0, 20)

	if b.Cols() != 20 {
		t.Fatalf("Cols() = %d, want 20", b.Cols())
	}
	if b.Cell(0, 0).Char != 'A' || b.Cell(0, 9).Char != 'B' {
		t.Error("GrowCols must preserve existing content in the grown row")
	}
	if b.Cell(0, 15).Char != ' ' {
		t.Error("new cells from GrowCols should start blank")
	}
	if next := b.NextTabStop(8); next != 16 {
		t.Errorf("NextTabStop(8) after GrowCols = %d, want a tab stop extended to 16", next)
	}
}
