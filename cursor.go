package vtcore

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position, rendering style, and pending-wrap
// flag (0-based coordinates).
//
// PendingWrap implements the xterm "deferred wrap" behavior: writing a
// printable cell into the last column of a line does not advance the
// cursor past the margin immediately. Instead PendingWrap is set, and the
// wrap (cursor to column 0, row advance/scroll) happens lazily on the next
// printable write. An explicit cursor movement clears the flag without
// wrapping, so that a cursor positioned at the last column via CUP is not
// retroactively treated as having wrapped.
type Cursor struct {
	Row         int
	Col         int
	Style       CursorStyle
	Visible     bool
	PendingWrap bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// SavedCursor stores cursor position, cell attributes, charset and
// pending-wrap state for restoration (DECSC/DECRC, and the implicit save
// xterm performs around the alternate-screen 1049 sequence).
type SavedCursor struct {
	Row          int
	Col          int
	Attrs        CellTemplate
	OriginMode   bool
	PendingWrap  bool
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (no colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}

// Charset selects the character encoding variant designated into a G0-G3
// slot by an ESC ( / ) / * / + sequence. The decode tables themselves
// live in charset.go.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing  // DEC Special Graphics (ESC ( 0)
	CharsetUK           // ESC ( A
	CharsetLatin1       // ISO 8859-1 table; no designation final byte the executor handles selects it
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
