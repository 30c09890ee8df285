package vtcore

import "fmt"

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot represents a complete, read-only capture of the terminal's
// visible grid plus the ambient state a renderer needs alongside it:
// title, cursor, and the subset of modes a frontend must honor
// (bracketed paste, mouse reporting). It stays valid across later Write
// calls on the terminal that produced it.
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Lines  []SnapshotLine `json:"lines"`
	Title  string         `json:"title"`
	Modes  SnapshotModes  `json:"modes"`
}

// SnapshotModes reports the subset of terminal modes a rendering
// frontend needs to know about: whether pasted text should be bracketed
// and which mouse events (if any) the application wants forwarded.
type SnapshotModes struct {
	BracketedPaste bool   `json:"bracketed_paste"`
	MouseTracking  string `json:"mouse_tracking"` // "", "click", "motion", "any"
	SGRMouse       bool   `json:"sgr_mouse"`
}

// SnapshotSize holds terminal dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment represents a styled text segment within a line.
type SnapshotSegment struct {
	Text       string         `json:"text"`
	Fg         string         `json:"fg,omitempty"`
	Bg         string         `json:"bg,omitempty"`
	Attributes SnapshotAttrs  `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink  `json:"hyperlink,omitempty"`
}

// SnapshotCell represents a single cell with full attributes.
type SnapshotCell struct {
	Char       string         `json:"char"`
	Fg         string         `json:"fg"`
	Bg         string         `json:"bg"`
	Attributes SnapshotAttrs  `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink  `json:"hyperlink,omitempty"`
	Wide       bool           `json:"wide,omitempty"`
	WideSpacer bool           `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// mouseTrackingString reports the active mouse reporting mode, following
// the precedence xterm uses when more than one report mode is enabled
// (all-motion overrides cell-motion overrides click-only).
func mouseTrackingString(m TerminalMode) string {
	switch {
	case m&ModeReportAllMouseMotion != 0:
		return "any"
	case m&ModeReportCellMouseMotion != 0:
		return "motion"
	case m&ModeReportMouseClicks != 0:
		return "click"
	default:
		return ""
	}
}

// Snapshot creates a read-only capture of the current terminal state.
// The detail parameter controls how much per-cell information Lines
// carries; Size, Cursor, Title and Modes are always populated.
func (t *Terminal) Snapshot(detail SnapshotDetail) *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	lines := make([]SnapshotLine, t.rows)
	for row := range lines {
		lines[row] = t.snapshotLine(row, detail)
	}

	return &Snapshot{
		Size: SnapshotSize{Rows: t.rows, Cols: t.cols},
		Cursor: SnapshotCursor{
			Row:     t.cursor.Row,
			Col:     t.cursor.Col,
			Visible: t.cursor.Visible,
			Style:   cursorStyleToString(t.cursor.Style),
		},
		Lines: lines,
		Title: t.title,
		Modes: SnapshotModes{
			BracketedPaste: t.modes&ModeBracketedPaste != 0,
			MouseTracking:  mouseTrackingString(t.modes),
			SGRMouse:       t.modes&ModeSGRMouse != 0,
		},
	}
}

// snapshotLine creates a snapshot of a single line.
func (t *Terminal) snapshotLine(row int, detail SnapshotDetail) SnapshotLine {
	line := SnapshotLine{
		Text: t.activeBuffer.LineContent(row),
	}

	switch detail {
	case SnapshotDetailText:
		// Just text, already set

	case SnapshotDetailStyled:
		line.Segments = t.lineToSegments(row)

	case SnapshotDetailFull:
		line.Cells = t.lineToCells(row)
	}

	return line
}

// segmentStyle is the comparable key used to detect a style change
// between adjacent cells; two cells sharing a key belong to the same run.
type segmentStyle struct {
	fg, bg  string
	attrs   SnapshotAttrs
	linkID  string
	linkURI string
	hasLink bool
}

func cellSegmentStyle(cell *Cell) segmentStyle {
	s := segmentStyle{
		fg:    colorToHex(cell.Fg),
		bg:    colorToHex(cell.Bg),
		attrs: cellAttrsToSnapshot(cell),
	}
	if cell.Hyperlink != nil {
		s.hasLink = true
		s.linkID = cell.Hyperlink.ID
		s.linkURI = cell.Hyperlink.URI
	}
	return s
}

func (s segmentStyle) toSnapshot() (fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) {
	if s.hasLink {
		link = &SnapshotLink{ID: s.linkID, URI: s.linkURI}
	}
	return s.fg, s.bg, s.attrs, link
}

// lineToSegments collapses a row's cells into runs of identical style,
// the representation a terminal-aware text renderer draws from directly
// instead of re-deriving style boundaries per cell.
func (t *Terminal) lineToSegments(row int) []SnapshotSegment {
	var segments []SnapshotSegment
	var style segmentStyle
	var text []rune
	open := false

	flush := func() {
		if !open || len(text) == 0 {
			return
		}
		fg, bg, attrs, link := style.toSnapshot()
		segments = append(segments, SnapshotSegment{
			Text:       string(text),
			Fg:         fg,
			Bg:         bg,
			Attributes: attrs,
			Hyperlink:  link,
		})
		text = nil
	}

	for col := 0; col < t.cols; col++ {
		cell := t.activeBuffer.Cell(row, col)
		if cell == nil || cell.IsWideSpacer() {
			continue
		}

		next := cellSegmentStyle(cell)
		if !open || next != style {
			flush()
			style = next
			open = true
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		text = append(text, ch)
	}
	flush()

	return segments
}

// lineToCells converts a line to full cell data.
func (t *Terminal) lineToCells(row int) []SnapshotCell {
	cells := make([]SnapshotCell, 0, t.cols)

	for col := 0; col < t.cols; col++ {
		cell := t.activeBuffer.Cell(row, col)
		if cell == nil {
			cells = append(cells, SnapshotCell{
				Char: " ",
				Fg:   colorToHex(DefaultColor),
				Bg:   colorToHex(DefaultColor),
			})
			continue
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}

		sc := SnapshotCell{
			Char:       string(ch),
			Fg:         colorToHex(cell.Fg),
			Bg:         colorToHex(cell.Bg),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		}

		cells = append(cells, sc)
	}

	return cells
}

// colorToHex converts a color to hex string.
func colorToHex(c Color) string {
	rgba := Resolve(c, &DefaultPalette, true)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// cellAttrsToSnapshot extracts cell attributes.
func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasFlag(CellFlagBold),
		Dim:           cell.HasFlag(CellFlagDim),
		Italic:        cell.HasFlag(CellFlagItalic),
		Underline:     cell.HasFlag(CellFlagUnderline) || cell.HasFlag(CellFlagDoubleUnderline) || cell.HasFlag(CellFlagCurlyUnderline) || cell.HasFlag(CellFlagDottedUnderline) || cell.HasFlag(CellFlagDashedUnderline),
		Blink:         cell.HasFlag(CellFlagBlinkSlow) || cell.HasFlag(CellFlagBlinkFast),
		Reverse:       cell.HasFlag(CellFlagReverse),
		Hidden:        cell.HasFlag(CellFlagHidden),
		Strikethrough: cell.HasFlag(CellFlagStrike),
	}
}

// cellHyperlinkToSnapshot extracts hyperlink info.
func cellHyperlinkToSnapshot(cell *Cell) *SnapshotLink {
	if cell.Hyperlink == nil {
		return nil
	}
	return &SnapshotLink{
		ID:  cell.Hyperlink.ID,
		URI: cell.Hyperlink.URI,
	}
}

// cursorStyleToString converts cursor style to string.
func cursorStyleToString(style CursorStyle) string {
	switch style {
	case CursorStyleBlinkingBlock, CursorStyleSteadyBlock:
		return "block"
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return "underline"
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return "bar"
	default:
		return "block"
	}
}
