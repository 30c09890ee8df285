package vtcore

import (
	"encoding/base64"
	"fmt"
)

// ApplicationCommandReceived processes an APC sequence and delegates to the configured provider.
func (t *Terminal) ApplicationCommandReceived(data []byte) {
	dispatch1(t.middleware.ApplicationCommandReceived, data, t.applicationCommandReceivedInternal)
}

func (t *Terminal) applicationCommandReceivedInternal(data []byte) {
	if t.apcProvider != nil {
		t.apcProvider.Receive(data)
	}
}

// Backspace moves the cursor one column left, stopping at column 0.
func (t *Terminal) Backspace() {
	dispatch0(t.middleware.Backspace, t.backspaceInternal)
}

func (t *Terminal) backspaceInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	if t.cursor.Col > 0 {
		t.cursor.Col--
	}
}

// Bell triggers the bell provider if configured.
func (t *Terminal) Bell() {
	dispatch0(t.middleware.Bell, t.bellInternal)
}

func (t *Terminal) bellInternal() {
	if t.bellProvider != nil {
		t.bellProvider.Ring()
	}
}

// CarriageReturn moves the cursor to column 0 of the current row.
func (t *Terminal) CarriageReturn() {
	dispatch0(t.middleware.CarriageReturn, t.carriageReturnInternal)
}

func (t *Terminal) carriageReturnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Col = 0
}

// ClearLine clears portions of the current line based on mode (right of cursor, left of cursor, or entire line).
func (t *Terminal) ClearLine(mode LineClearMode) {
	dispatch1(t.middleware.ClearLine, mode, t.clearLineInternal)
}

func (t *Terminal) clearLineInternal(mode LineClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch mode {
	case LineClearModeRight:
		t.activeBuffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, NewBlankCell(t.template.Bg))
	case LineClearModeLeft:
		t.activeBuffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, NewBlankCell(t.template.Bg))
	case LineClearModeAll:
		t.activeBuffer.ClearRow(t.cursor.Row, NewBlankCell(t.template.Bg))
	}
}

// ClearScreen clears screen regions based on mode (below cursor, above cursor, entire screen, or saved lines).
func (t *Terminal) ClearScreen(mode ClearMode) {
	dispatch1(t.middleware.ClearScreen, mode, t.clearScreenInternal)
}

func (t *Terminal) clearScreenInternal(mode ClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch mode {
	case ClearModeBelow:
		// Clear from cursor to end of screen
		t.activeBuffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, NewBlankCell(t.template.Bg))
		for row := t.cursor.Row + 1; row < t.rows; row++ {
			t.activeBuffer.ClearRow(row, NewBlankCell(t.template.Bg))
		}
	case ClearModeAbove:
		// Clear from beginning to cursor
		for row := 0; row < t.cursor.Row; row++ {
			t.activeBuffer.ClearRow(row, NewBlankCell(t.template.Bg))
		}
		t.activeBuffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, NewBlankCell(t.template.Bg))
	case ClearModeAll:
		t.activeBuffer.ClearAll(NewBlankCell(t.template.Bg))
	case ClearModeSaved:
		if t.activeBuffer == t.primaryBuffer {
			t.primaryBuffer.ClearScrollback()
		}
	}
}

// ClearTabs removes tab stops at the current column or all columns based on mode.
func (t *Terminal) ClearTabs(mode TabulationClearMode) {
	dispatch1(t.middleware.ClearTabs, mode, t.clearTabsInternal)
}

func (t *Terminal) clearTabsInternal(mode TabulationClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch mode {
	case TabulationClearModeCurrent:
		t.activeBuffer.ClearTabStop(t.cursor.Col)
	case TabulationClearModeAll:
		t.activeBuffer.ClearAllTabStops()
	}
}

// ClipboardLoad reads from the clipboard provider and sends the response via OSC 52.
func (t *Terminal) ClipboardLoad(clipboard byte, terminator string) {
	dispatch2(t.middleware.ClipboardLoad, clipboard, terminator, t.clipboardLoadInternal)
}

func (t *Terminal) clipboardLoadInternal(clipboard byte, terminator string) {
	if t.clipboardProvider == nil {
		return
	}
	content := t.clipboardProvider.Read(clipboard)
	if content != "" {
		// OSC 52 response: OSC 52 ; clipboard ; base64-data ST
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		response := "\x1b]52;" + string(clipboard) + ";" + encoded + terminator
		t.writeResponseString(response)
	}
}

// ClipboardStore writes data to the clipboard provider via OSC 52.
func (t *Terminal) ClipboardStore(clipboard byte, data []byte) {
	dispatch2(t.middleware.ClipboardStore, clipboard, data, t.clipboardStoreInternal)
}

func (t *Terminal) clipboardStoreInternal(clipboard byte, data []byte) {
	if t.clipboardProvider != nil {
		t.clipboardProvider.Write(clipboard, data)
	}
}

// ConfigureCharset sets the character set for one of the four slots (G0-G3).
func (t *Terminal) ConfigureCharset(index CharsetIndex, charset Charset) {
	dispatch2(t.middleware.ConfigureCharset, index, charset, t.configureCharsetInternal)
}

func (t *Terminal) configureCharsetInternal(index CharsetIndex, charset Charset) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index >= 0 && index <= CharsetIndexG3 {
		t.charsets[index] = charset
	}
}

// Decaln fills the entire screen with 'E' characters (DEC screen alignment test).
func (t *Terminal) Decaln() {
	dispatch0(t.middleware.Decaln, t.decalnInternal)
}

func (t *Terminal) decalnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.FillWithE()
}

// DeleteChars removes n characters at the cursor, shifting remaining characters left.
func (t *Terminal) DeleteChars(n int) {
	dispatch1(t.middleware.DeleteChars, n, t.deleteCharsInternal)
}

func (t *Terminal) deleteCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.DeleteChars(t.cursor.Row, t.cursor.Col, n, t.scrollRight, NewBlankCell(t.template.Bg))
}

// DeleteLines removes n lines at the cursor within the scroll region, shifting remaining lines up.
func (t *Terminal) DeleteLines(n int) {
	dispatch1(t.middleware.DeleteLines, n, t.deleteLinesInternal)
}

func (t *Terminal) deleteLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor.Row >= t.scrollTop && t.cursor.Row < t.scrollBottom {
		t.activeBuffer.DeleteLines(t.cursor.Row, n, t.scrollBottom, t.scrollLeft, t.scrollRight, NewBlankCell(t.template.Bg))
	}
}

// DeviceStatus sends a device status report (DSR) response: ready (n=5) or cursor position (n=6).
func (t *Terminal) DeviceStatus(n int) {
	dispatch1(t.middleware.DeviceStatus, n, t.deviceStatusInternal)
}

func (t *Terminal) deviceStatusInternal(n int) {
	t.mu.RLock()
	row := t.cursor.Row
	col := t.cursor.Col
	t.mu.RUnlock()

	var response string
	switch n {
	case 5:
		// Device status report - terminal is ready
		response = "\x1b[0n"
	case 6:
		// Cursor position report (1-based)
		response = fmt.Sprintf("\x1b[%d;%dR", row+1, col+1)
	}

	if response != "" {
		t.writeResponseString(response)
	}
}

// EraseChars resets n characters at the cursor to default state without shifting.
func (t *Terminal) EraseChars(n int) {
	dispatch1(t.middleware.EraseChars, n, t.eraseCharsInternal)
}

func (t *Terminal) eraseCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n && t.cursor.Col+i < t.cols; i++ {
		cell := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col+i)
		if cell != nil {
			cell.Reset()
		}
	}
}

// Goto moves the cursor to (row, col), adjusting for origin mode if enabled.
func (t *Terminal) Goto(row, col int) {
	dispatch2(t.middleware.Goto, row, col, t.gotoInternal)
}

func (t *Terminal) gotoInternal(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	row = t.effectiveRow(row)
	t.cursor.Row = clamp(row, 0, t.rows-1)
	t.cursor.Col = clamp(t.effectiveCol(col), 0, t.cols-1)
}

// GotoCol moves the cursor to the specified column, keeping the current row.
func (t *Terminal) GotoCol(col int) {
	dispatch1(t.middleware.GotoCol, col, t.gotoColInternal)
}

func (t *Terminal) gotoColInternal(col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Col = clamp(col, 0, t.cols-1)
}

// GotoLine moves the cursor to the specified row, adjusting for origin mode if enabled.
func (t *Terminal) GotoLine(row int) {
	dispatch1(t.middleware.GotoLine, row, t.gotoLineInternal)
}

func (t *Terminal) gotoLineInternal(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	row = t.effectiveRow(row)
	t.cursor.Row = clamp(row, 0, t.rows-1)
}

// HorizontalTabSet enables a tab stop at the current column.
func (t *Terminal) HorizontalTabSet() {
	dispatch0(t.middleware.HorizontalTabSet, t.horizontalTabSetInternal)
}

func (t *Terminal) horizontalTabSetInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.SetTabStop(t.cursor.Col)
}

// IdentifyTerminal sends a terminal identification response (default: VT220).
func (t *Terminal) IdentifyTerminal(b byte) {
	dispatch1(t.middleware.IdentifyTerminal, b, t.identifyTerminalInternal)
}

func (t *Terminal) identifyTerminalInternal(b byte) {
	// Default: identify as VT220
	response := "\x1b[?62;c"
	t.writeResponseString(response)
}

// Input writes a character to the buffer at the cursor position.
// Handles wide characters, line wrapping, insert mode, and charset translation.
func (t *Terminal) Input(r rune) {
	dispatch1(t.middleware.Input, r, t.inputInternal)
}

func (t *Terminal) inputInternal(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Charset translation only ever applies to the ASCII printable range;
	// anything else (already-decoded UTF-8) passes through unchanged.
	if r >= 0x20 && r <= 0x7E {
		cs := CharsetASCII
		if t.activeCharset >= 0 && t.activeCharset < 4 {
			cs = t.charsets[t.activeCharset]
		}
		r = Translate(cs, byte(r))
	}

	// Get the width of the character
	width := runeWidth(r)

	// Zero-width characters (combining marks) - attach to previous cell
	if width == 0 {
		// For now, just ignore zero-width characters
		// A full implementation would combine them with the previous character
		return
	}

	wrapMode := t.modes&ModeLineWrap != 0

	// A deferred wrap from a previous write at the right margin resolves now,
	// immediately before the next printable cell is placed - not when the
	// margin was first reached - so cursor positioning at the last column
	// (e.g. via CUP) is never retroactively treated as a wrap.
	if t.cursor.PendingWrap {
		if wrapMode && !t.autoResize {
			t.activeBuffer.SetWrapped(t.cursor.Row, true)
			t.cursor.Col = 0
			t.cursor.Row++
			if t.cursor.Row >= t.rows {
				t.scrollIfNeeded()
			}
		}
		t.cursor.PendingWrap = false
	}

	// Check if we need to wrap
	// For wide characters, we need 2 cells
	if t.cursor.Col+width > t.cols {
		if t.autoResize {
			// Grow the line instead of wrapping
			t.activeBuffer.GrowCols(t.cursor.Row, t.cursor.Col+width)
			t.cols = t.activeBuffer.Cols()
			// Revalidate cursor position after buffer growth
			if t.cursor.Col >= t.cols {
				t.cursor.Col = t.cols - 1
			}
		} else if wrapMode {
			// A wide character doesn't fit in the single remaining column:
			// wrap immediately rather than deferring, since there's no way
			// to place half of it at the margin.
			t.activeBuffer.SetWrapped(t.cursor.Row, true)
			t.cursor.Col = 0
			t.cursor.Row++
			// Validate cursor row is within bounds before scrolling
			if t.cursor.Row >= t.rows {
				t.scrollIfNeeded()
			}
		} else {
			// Can't fit wide character at end of line
			if width == 2 {
				return
			}
			t.cursor.Col = t.cols - 1
		}
	}

	// Insert mode: shift characters to the right
	if t.modes&ModeInsert != 0 {
		t.activeBuffer.InsertBlanks(t.cursor.Row, t.cursor.Col, width, t.scrollRight, NewBlankCell(t.template.Bg))
	}

	// Validate cursor position is within bounds before writing
	if t.cursor.Row < 0 || t.cursor.Row >= t.rows || t.cursor.Col < 0 {
		return
	}

	// Write the character only if within column bounds
	if t.cursor.Col < t.cols {
		cell := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col)
		if cell != nil {
			cell.Char = r
			cell.Fg = t.template.Fg
			cell.Bg = t.template.Bg
			cell.UnderlineColor = t.template.UnderlineColor
			cell.Flags = t.template.Flags
			cell.Hyperlink = t.currentHyperlink

			// Mark as wide character if needed
			if width == 2 {
				cell.SetFlag(CellFlagWideChar)
			} else {
				cell.ClearFlag(CellFlagWideChar | CellFlagWideCharSpacer)
			}

			// Mark as dirty
			t.activeBuffer.MarkDirty(t.cursor.Row, t.cursor.Col)
		}
	}

	t.cursor.Col++

	// For wide characters, add a spacer cell
	if width == 2 && t.cursor.Col < t.cols {
		spacer := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col)
		if spacer != nil {
			spacer.Reset()
			spacer.Fg = t.template.Fg
			spacer.Bg = t.template.Bg
			spacer.SetFlag(CellFlagWideCharSpacer)
			t.activeBuffer.MarkDirty(t.cursor.Row, t.cursor.Col)
		}
		t.cursor.Col++
	}

	// Ensure cursor stays within bounds after all operations. Reaching the
	// right margin under line-wrap mode doesn't wrap immediately - it defers
	// the wrap until the next printable character, so a following cursor
	// movement or query still sees the cursor sitting on the last column.
	if t.cursor.Col >= t.cols && !t.autoResize {
		t.cursor.Col = t.cols - 1
		if wrapMode {
			t.cursor.PendingWrap = true
		}
	}
	if t.cursor.Row >= t.rows && !t.autoResize {
		// scrollIfNeeded will handle this, but ensure we don't go beyond buffer
		if t.cursor.Row >= t.activeBuffer.Rows() {
			t.cursor.Row = t.activeBuffer.Rows() - 1
		}
	}
	if t.cursor.Col < 0 {
		t.cursor.Col = 0
	}
	if t.cursor.Row < 0 {
		t.cursor.Row = 0
	}
}

// InsertBlank inserts n blank cells at the cursor, shifting existing characters right.
func (t *Terminal) InsertBlank(n int) {
	dispatch1(t.middleware.InsertBlank, n, t.insertBlankInternal)
}

func (t *Terminal) insertBlankInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.InsertBlanks(t.cursor.Row, t.cursor.Col, n, t.scrollRight, NewBlankCell(t.template.Bg))
}

// InsertBlankLines inserts n blank lines at the cursor within the scroll region, shifting remaining lines down.
func (t *Terminal) InsertBlankLines(n int) {
	dispatch1(t.middleware.InsertBlankLines, n, t.insertBlankLinesInternal)
}

func (t *Terminal) insertBlankLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor.Row >= t.scrollTop && t.cursor.Row < t.scrollBottom {
		t.activeBuffer.InsertLines(t.cursor.Row, n, t.scrollBottom, t.scrollLeft, t.scrollRight, NewBlankCell(t.template.Bg))
	}
}

// LineFeed moves the cursor down one row. If ModeLineFeedNewLine is set, also moves to column 0.
// Clears the wrapped flag for the current line (indicates explicit newline).
func (t *Terminal) LineFeed() {
	dispatch0(t.middleware.LineFeed, t.lineFeedInternal)
}

func (t *Terminal) lineFeedInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false

	// Explicit newline clears the wrapped flag for this line
	t.activeBuffer.SetWrapped(t.cursor.Row, false)

	if t.modes&ModeLineFeedNewLine != 0 {
		t.cursor.Col = 0
	}

	t.cursor.Row++
	t.scrollIfNeeded()
}

// MoveBackward moves the cursor left n columns, stopping at column 0.
func (t *Terminal) MoveBackward(n int) {
	dispatch1(t.middleware.MoveBackward, n, t.moveBackwardInternal)
}

func (t *Terminal) moveBackwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Col = clamp(t.cursor.Col-n, 0, t.cols-1)
}

// MoveBackwardTabs moves the cursor left to the previous n tab stops.
func (t *Terminal) MoveBackwardTabs(n int) {
	dispatch1(t.middleware.MoveBackwardTabs, n, t.moveBackwardTabsInternal)
}

func (t *Terminal) moveBackwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.PrevTabStop(t.cursor.Col)
	}
}

// MoveDown moves the cursor down n rows, stopping at the last row.
func (t *Terminal) MoveDown(n int) {
	dispatch1(t.middleware.MoveDown, n, t.moveDownInternal)
}

func (t *Terminal) moveDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Row = clamp(t.cursor.Row+n, 0, t.rows-1)
}

// MoveDownCr moves the cursor down n rows and to column 0.
func (t *Terminal) MoveDownCr(n int) {
	dispatch1(t.middleware.MoveDownCr, n, t.moveDownCrInternal)
}

func (t *Terminal) moveDownCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Row = clamp(t.cursor.Row+n, 0, t.rows-1)
	t.cursor.Col = 0
}

// MoveForward moves the cursor right n columns, stopping at the last column.
func (t *Terminal) MoveForward(n int) {
	dispatch1(t.middleware.MoveForward, n, t.moveForwardInternal)
}

func (t *Terminal) moveForwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Col = clamp(t.cursor.Col+n, 0, t.cols-1)
}

// MoveForwardTabs moves the cursor right to the next n tab stops.
func (t *Terminal) MoveForwardTabs(n int) {
	dispatch1(t.middleware.MoveForwardTabs, n, t.moveForwardTabsInternal)
}

func (t *Terminal) moveForwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.NextTabStop(t.cursor.Col)
	}
}

// MoveUp moves the cursor up n rows, stopping at row 0.
func (t *Terminal) MoveUp(n int) {
	dispatch1(t.middleware.MoveUp, n, t.moveUpInternal)
}

func (t *Terminal) moveUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Row = clamp(t.cursor.Row-n, 0, t.rows-1)
}

// MoveUpCr moves the cursor up n rows and to column 0.
func (t *Terminal) MoveUpCr(n int) {
	dispatch1(t.middleware.MoveUpCr, n, t.moveUpCrInternal)
}

func (t *Terminal) moveUpCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	t.cursor.Row = clamp(t.cursor.Row-n, 0, t.rows-1)
	t.cursor.Col = 0
}

// PopKeyboardMode removes n keyboard mode entries from the stack.
func (t *Terminal) PopKeyboardMode(n int) {
	dispatch1(t.middleware.PopKeyboardMode, n, t.popKeyboardModeInternal)
}

func (t *Terminal) popKeyboardModeInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n && len(t.keyboardModes) > 0; i++ {
		t.keyboardModes = t.keyboardModes[:len(t.keyboardModes)-1]
	}
}

// PopTitle restores the previous title from the stack.
func (t *Terminal) PopTitle() {
	dispatch0(t.middleware.PopTitle, t.popTitleInternal)
}

func (t *Terminal) popTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.titleStack) > 0 {
		t.title = t.titleStack[len(t.titleStack)-1]
		t.titleStack = t.titleStack[:len(t.titleStack)-1]
	}
	if t.titleProvider != nil {
		t.titleProvider.PopTitle()
	}
}

// PrivacyMessageReceived processes a PM sequence and delegates to the configured provider.
func (t *Terminal) PrivacyMessageReceived(data []byte) {
	dispatch1(t.middleware.PrivacyMessageReceived, data, t.privacyMessageReceivedInternal)
}

func (t *Terminal) privacyMessageReceivedInternal(data []byte) {
	if t.pmProvider != nil {
		t.pmProvider.Receive(data)
	}
}

// PushKeyboardMode adds a keyboard mode to the stack.
func (t *Terminal) PushKeyboardMode(mode KeyboardMode) {
	dispatch1(t.middleware.PushKeyboardMode, mode, t.pushKeyboardModeInternal)
}

func (t *Terminal) pushKeyboardModeInternal(mode KeyboardMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.keyboardModes = append(t.keyboardModes, mode)
}

// PushTitle saves the current title to the stack.
func (t *Terminal) PushTitle() {
	dispatch0(t.middleware.PushTitle, t.pushTitleInternal)
}

func (t *Terminal) pushTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.titleStack = append(t.titleStack, t.title)
	if t.titleProvider != nil {
		t.titleProvider.PushTitle()
	}
}

// ReportKeyboardMode sends the current keyboard mode via DSR response.
func (t *Terminal) ReportKeyboardMode() {
	dispatch0(t.middleware.ReportKeyboardMode, t.reportKeyboardModeInternal)
}

func (t *Terminal) reportKeyboardModeInternal() {
	t.mu.RLock()
	var mode KeyboardMode
	if len(t.keyboardModes) > 0 {
		mode = t.keyboardModes[len(t.keyboardModes)-1]
	}
	t.mu.RUnlock()

	response := fmt.Sprintf("\x1b[?%du", mode)
	t.writeResponseString(response)
}

// ReportModifyOtherKeys sends the current modify-other-keys mode via DSR response.
func (t *Terminal) ReportModifyOtherKeys() {
	dispatch0(t.middleware.ReportModifyOtherKeys, t.reportModifyOtherKeysInternal)
}

func (t *Terminal) reportModifyOtherKeysInternal() {
	t.mu.RLock()
	modify := t.modifyOtherKeys
	t.mu.RUnlock()

	response := fmt.Sprintf("\x1b[>4;%dm", modify)
	t.writeResponseString(response)
}

// ResetColor removes a custom color from the palette at the given index.
func (t *Terminal) ResetColor(i int) {
	dispatch1(t.middleware.ResetColor, i, t.resetColorInternal)
}

func (t *Terminal) resetColorInternal(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.colors, i)
}

// ResetState clears the screen, resets cursor to (0,0), and restores default modes and attributes.
func (t *Terminal) ResetState() {
	dispatch0(t.middleware.ResetState, t.resetStateInternal)
}

func (t *Terminal) resetStateInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.ClearAll(NewCell())
	t.cursor.Row = 0
	t.cursor.Col = 0
	t.cursor.PendingWrap = false
	t.cursor.Visible = true
	t.cursor.Style = CursorStyleBlinkingBlock

	t.template = NewCellTemplate()
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.modes = ModeLineWrap | ModeShowCursor

	t.charsets = [4]Charset{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}
	t.activeCharset = 0

	t.colors = make(map[int]Color)
	t.keyboardModes = make([]KeyboardMode, 0)
	t.currentHyperlink = nil
}

// RestoreCursorPosition restores cursor position, attributes, and charset state from the saved cursor.
func (t *Terminal) RestoreCursorPosition() {
	dispatch0(t.middleware.RestoreCursorPosition, t.restoreCursorPositionInternal)
}

func (t *Terminal) restoreCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restoreCursorPositionLocked()
}

// restoreCursorPositionLocked restores cursor without locking (caller must hold lock)
func (t *Terminal) restoreCursorPositionLocked() {
	if t.savedCursor != nil {
		t.cursor.Row = t.savedCursor.Row
		t.cursor.Col = t.savedCursor.Col
		t.cursor.PendingWrap = t.savedCursor.PendingWrap
		t.template = t.savedCursor.Attrs

		if t.savedCursor.OriginMode {
			t.modes |= ModeOrigin
		} else {
			t.modes &^= ModeOrigin
		}

		t.activeCharset = int(t.savedCursor.CharsetIndex)
		t.charsets = t.savedCursor.Charsets
	}
}

// ReverseIndex moves the cursor up one row. If at the top of the scroll region, scrolls down instead.
func (t *Terminal) ReverseIndex() {
	dispatch0(t.middleware.ReverseIndex, t.reverseIndexInternal)
}

func (t *Terminal) reverseIndexInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	if t.cursor.Row == t.scrollTop {
		t.activeBuffer.ScrollDown(t.scrollTop, t.scrollBottom, t.scrollLeft, t.scrollRight, 1, NewBlankCell(t.template.Bg))
	} else if t.cursor.Row > 0 {
		t.cursor.Row--
	}
}

// SaveCursorPosition saves cursor position, attributes, charset state, and origin mode for later restoration.
func (t *Terminal) SaveCursorPosition() {
	dispatch0(t.middleware.SaveCursorPosition, t.saveCursorPositionInternal)
}

func (t *Terminal) saveCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.saveCursorPositionLocked()
}

// saveCursorPositionLocked saves cursor without locking (caller must hold lock)
func (t *Terminal) saveCursorPositionLocked() {
	t.savedCursor = &SavedCursor{
		Row:          t.cursor.Row,
		Col:          t.cursor.Col,
		PendingWrap:  t.cursor.PendingWrap,
		Attrs:        t.template,
		OriginMode:   t.modes&ModeOrigin != 0,
		CharsetIndex: CharsetIndex(t.activeCharset),
		Charsets:     t.charsets,
	}
}

// ScrollDown shifts lines down within the scroll region, clearing top lines.
func (t *Terminal) ScrollDown(n int) {
	dispatch1(t.middleware.ScrollDown, n, t.scrollDownInternal)
}

func (t *Terminal) scrollDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.ScrollDown(t.scrollTop, t.scrollBottom, t.scrollLeft, t.scrollRight, n, NewBlankCell(t.template.Bg))
}

// ScrollUp shifts lines up within the scroll region, pushing top lines to scrollback if enabled.
func (t *Terminal) ScrollUp(n int) {
	dispatch1(t.middleware.ScrollUp, n, t.scrollUpInternal)
}

func (t *Terminal) scrollUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.ScrollUp(t.scrollTop, t.scrollBottom, t.scrollLeft, t.scrollRight, n, NewBlankCell(t.template.Bg))
}

// SetActiveCharset selects which charset slot (0-3, G0-G3) is currently active for character rendering.
func (t *Terminal) SetActiveCharset(n int) {
	dispatch1(t.middleware.SetActiveCharset, n, t.setActiveCharsetInternal)
}

func (t *Terminal) setActiveCharsetInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n >= 0 && n < 4 {
		t.activeCharset = n
	}
}

// SetColor stores a custom color in the palette at the given index (used for indexed color resolution).
func (t *Terminal) SetColor(index int, c Color) {
	dispatch2(t.middleware.SetColor, index, c, t.setColorInternal)
}

func (t *Terminal) setColorInternal(index int, c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.colors[index] = c
}

// SetCursorStyle changes the cursor rendering style (block, underline, bar, blinking/steady).
func (t *Terminal) SetCursorStyle(style CursorStyle) {
	dispatch1(t.middleware.SetCursorStyle, style, t.setCursorStyleInternal)
}

func (t *Terminal) setCursorStyleInternal(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Style = style
}

// SetDynamicColor responds to a dynamic color query (OSC 10/11/12) with the current color value.
func (t *Terminal) SetDynamicColor(prefix string, index int, terminator string) {
	dispatch3(t.middleware.SetDynamicColor, prefix, index, terminator, t.setDynamicColorInternal)
}

func (t *Terminal) setDynamicColorInternal(prefix string, index int, terminator string) {
	// Query the color from our color map or palette
	t.mu.RLock()
	c, ok := t.colors[index]
	t.mu.RUnlock()

	var response string
	if ok {
		rgba := Resolve(c, &DefaultPalette, true)
		response = fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator)
	} else if index >= 0 && index < 256 {
		rgba := DefaultPalette[index]
		response = fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator)
	}

	if response != "" {
		t.writeResponseString(response)
	}
}

// SetHyperlink sets the active hyperlink (OSC 8) for subsequently written characters.
// Pass nil to clear the hyperlink.
func (t *Terminal) SetHyperlink(hyperlink *Hyperlink) {
	dispatch1(t.middleware.SetHyperlink, hyperlink, t.setHyperlinkInternal)
}

func (t *Terminal) setHyperlinkInternal(hyperlink *Hyperlink) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.currentHyperlink = hyperlink
}

// SetKeyboardMode modifies the top keyboard mode on the stack using the specified behavior (replace, union, or difference).
func (t *Terminal) SetKeyboardMode(mode KeyboardMode, behavior KeyboardModeBehavior) {
	dispatch2(t.middleware.SetKeyboardMode, mode, behavior, t.setKeyboardModeInternal)
}

func (t *Terminal) setKeyboardModeInternal(mode KeyboardMode, behavior KeyboardModeBehavior) {
	t.mu.Lock()
	defer t.mu.Unlock()

	currentMode := KeyboardModeNoMode
	if len(t.keyboardModes) > 0 {
		currentMode = t.keyboardModes[len(t.keyboardModes)-1]
	}

	var newMode KeyboardMode
	switch behavior {
	case KeyboardModeBehaviorReplace:
		newMode = mode
	case KeyboardModeBehaviorUnion:
		newMode = currentMode | mode
	case KeyboardModeBehaviorDifference:
		newMode = currentMode &^ mode
	}

	if len(t.keyboardModes) > 0 {
		t.keyboardModes[len(t.keyboardModes)-1] = newMode
	} else {
		t.keyboardModes = append(t.keyboardModes, newMode)
	}
}

// SetKeypadApplicationMode enables application keypad mode (numeric keypad sends escape sequences).
func (t *Terminal) SetKeypadApplicationMode() {
	dispatch0(t.middleware.SetKeypadApplicationMode, t.setKeypadApplicationModeInternal)
}

func (t *Terminal) setKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes |= ModeKeypadApplication
}

// SetMode enables a terminal mode flag. Some modes have side effects (e.g., ModeOrigin moves cursor to scrollTop).
func (t *Terminal) SetMode(mode TerminalMode) {
	dispatch1(t.middleware.SetMode, mode, t.setModeInternal)
}

func (t *Terminal) setModeInternal(mode TerminalMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, true)
}

// setModeLocked sets or unsets a terminal mode (caller must hold lock). mode
// numbers are already resolved to TerminalMode bits by setPrivateMode /
// setAnsiMode; this only has to apply the handful of modes with side effects
// before flipping the bit.
func (t *Terminal) setModeLocked(mode TerminalMode, set bool) {
	switch mode {
	case ModeOrigin:
		if set {
			t.cursor.Row = t.scrollTop
			t.cursor.Col = 0
		}
	case ModeShowCursor:
		t.cursor.Visible = set
	case ModeSwapScreenAndSetRestoreCursor:
		if set {
			t.saveCursorPositionLocked()
			t.activeBuffer = t.alternateBuffer
			t.activeBuffer.ClearAll(NewBlankCell(t.template.Bg))
		} else {
			t.activeBuffer = t.primaryBuffer
			t.restoreCursorPositionLocked()
		}
	}

	if set {
		t.modes |= mode
	} else {
		t.modes &^= mode
	}
}

// SetModifyOtherKeys sets how modifier keys are reported in keyboard input.
func (t *Terminal) SetModifyOtherKeys(modify ModifyOtherKeys) {
	dispatch1(t.middleware.SetModifyOtherKeys, modify, t.setModifyOtherKeysInternal)
}

func (t *Terminal) setModifyOtherKeysInternal(modify ModifyOtherKeys) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modifyOtherKeys = modify
}

// SetScrollingRegion sets the scroll boundaries (1-based, converted to 0-based internally).
// Moves cursor to home position (top-left of region if origin mode, else absolute top-left).
func (t *Terminal) SetScrollingRegion(top, bottom int) {
	dispatch2(t.middleware.SetScrollingRegion, top, bottom, t.setScrollingRegionInternal)
}

func (t *Terminal) setScrollingRegionInternal(top, bottom int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Convert from 1-based to 0-based; the 1-based inclusive bottom row is
	// already the 0-based exclusive bound scrollBottom uses.
	top--

	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > t.rows {
		bottom = t.rows
	}
	if top >= bottom {
		return
	}

	t.scrollTop = top
	t.scrollBottom = bottom

	// Move cursor to home position (considering origin mode)
	if t.modes&ModeOrigin != 0 {
		t.cursor.Row = t.scrollTop
	} else {
		t.cursor.Row = 0
	}
	t.cursor.Col = 0
}

// StartOfStringReceived processes a SOS sequence and delegates to the configured provider.
func (t *Terminal) StartOfStringReceived(data []byte) {
	dispatch1(t.middleware.StartOfStringReceived, data, t.startOfStringReceivedInternal)
}

func (t *Terminal) startOfStringReceivedInternal(data []byte) {
	if t.sosProvider != nil {
		t.sosProvider.Receive(data)
	}
}

// SetTerminalCharAttribute applies one decomposed SGR attribute to the cell
// template (colors, bold, underline, etc.). A full CSI "m" sequence yields
// one CharAttribute per ParseSGR entry, applied in order.
func (t *Terminal) SetTerminalCharAttribute(attr CharAttribute) {
	dispatch1(t.middleware.SetTerminalCharAttribute, attr, t.setTerminalCharAttributeInternal)
}

func (t *Terminal) setTerminalCharAttributeInternal(attr CharAttribute) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch attr.Attr {
	case CharAttributeReset:
		t.template = NewCellTemplate()

	case CharAttributeBold:
		t.template.SetFlag(CellFlagBold)

	case CharAttributeDim:
		t.template.SetFlag(CellFlagDim)

	case CharAttributeItalic:
		t.template.SetFlag(CellFlagItalic)

	case CharAttributeUnderline:
		t.template.SetFlag(CellFlagUnderline)
		t.template.ClearFlag(CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case CharAttributeDoubleUnderline:
		t.template.SetFlag(CellFlagDoubleUnderline)
		t.template.ClearFlag(CellFlagUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case CharAttributeCurlyUnderline:
		t.template.SetFlag(CellFlagCurlyUnderline)
		t.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case CharAttributeDottedUnderline:
		t.template.SetFlag(CellFlagDottedUnderline)
		t.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDashedUnderline)

	case CharAttributeDashedUnderline:
		t.template.SetFlag(CellFlagDashedUnderline)
		t.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline)

	case CharAttributeBlinkSlow:
		t.template.SetFlag(CellFlagBlinkSlow)

	case CharAttributeBlinkFast:
		t.template.SetFlag(CellFlagBlinkFast)

	case CharAttributeReverse:
		t.template.SetFlag(CellFlagReverse)

	case CharAttributeHidden:
		t.template.SetFlag(CellFlagHidden)

	case CharAttributeStrike:
		t.template.SetFlag(CellFlagStrike)

	case CharAttributeCancelBold:
		t.template.ClearFlag(CellFlagBold)

	case CharAttributeCancelBoldDim:
		t.template.ClearFlag(CellFlagBold | CellFlagDim)

	case CharAttributeCancelItalic:
		t.template.ClearFlag(CellFlagItalic)

	case CharAttributeCancelUnderline:
		t.template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case CharAttributeCancelBlink:
		t.template.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)

	case CharAttributeCancelReverse:
		t.template.ClearFlag(CellFlagReverse)

	case CharAttributeCancelHidden:
		t.template.ClearFlag(CellFlagHidden)

	case CharAttributeCancelStrike:
		t.template.ClearFlag(CellFlagStrike)

	case CharAttributeForeground:
		t.template.Fg = attr.Color

	case CharAttributeBackground:
		t.template.Bg = attr.Color

	case CharAttributeUnderlineColor:
		t.template.UnderlineColor = attr.Color

	case CharAttributeUnderlineColorReset:
		t.template.UnderlineColor = DefaultColor
	}
}

// SetTitle updates the window title and notifies the title provider.
func (t *Terminal) SetTitle(title string) {
	dispatch1(t.middleware.SetTitle, title, t.setTitleInternal)
}

func (t *Terminal) setTitleInternal(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.title = title
	if t.titleProvider != nil {
		t.titleProvider.SetTitle(title)
	}
}

// Substitute replaces the character at the cursor with '?' (used for error indication).
func (t *Terminal) Substitute() {
	dispatch0(t.middleware.Substitute, t.substituteInternal)
}

func (t *Terminal) substituteInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cell := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col)
	if cell != nil {
		cell.Char = '?'
	}
}

// Tab moves the cursor right to the next n tab stops.
func (t *Terminal) Tab(n int) {
	dispatch1(t.middleware.Tab, n, t.tabInternal)
}

func (t *Terminal) tabInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.PendingWrap = false
	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.NextTabStop(t.cursor.Col)
	}
}

// TextAreaSizeChars sends the terminal dimensions in characters via DSR response.
func (t *Terminal) TextAreaSizeChars() {
	dispatch0(t.middleware.TextAreaSizeChars, t.textAreaSizeCharsInternal)
}

func (t *Terminal) textAreaSizeCharsInternal() {
	t.mu.RLock()
	rows := t.rows
	cols := t.cols
	t.mu.RUnlock()

	// Default response: CSI 8 ; rows ; cols t
	response := fmt.Sprintf("\x1b[8;%d;%dt", rows, cols)
	t.writeResponseString(response)
}

// TextAreaSizePixels sends the terminal dimensions in pixels via DSR response (assumes 10x20 pixel cells).
func (t *Terminal) TextAreaSizePixels() {
	dispatch0(t.middleware.TextAreaSizePixels, t.textAreaSizePixelsInternal)
}

func (t *Terminal) textAreaSizePixelsInternal() {
	t.mu.RLock()
	rows := t.rows
	cols := t.cols
	t.mu.RUnlock()

	// Default response: CSI 4 ; height ; width t (assuming 10x20 pixel cells)
	response := fmt.Sprintf("\x1b[4;%d;%dt", rows*20, cols*10)
	t.writeResponseString(response)
}

// UnsetKeypadApplicationMode disables application keypad mode (numeric keypad sends digits).
func (t *Terminal) UnsetKeypadApplicationMode() {
	dispatch0(t.middleware.UnsetKeypadApplicationMode, t.unsetKeypadApplicationModeInternal)
}

func (t *Terminal) unsetKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes &^= ModeKeypadApplication
}

// UnsetMode disables a terminal mode flag. Some modes have side effects (e.g., ModeSwapScreenAndSetRestoreCursor restores primary buffer).
func (t *Terminal) UnsetMode(mode TerminalMode) {
	dispatch1(t.middleware.UnsetMode, mode, t.unsetModeInternal)
}

func (t *Terminal) unsetModeInternal(mode TerminalMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, false)
}

// SetWorkingDirectory stores the current working directory (OSC 7).
func (t *Terminal) SetWorkingDirectory(uri string) {
	dispatch1(t.middleware.SetWorkingDirectory, uri, t.setWorkingDirectoryInternal)
}

func (t *Terminal) setWorkingDirectoryInternal(uri string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workingDir = uri
}

// WorkingDirectory returns the current working directory URI (OSC 7).
func (t *Terminal) WorkingDirectory() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.workingDir
}

// WorkingDirectoryPath extracts the path from the working directory URI.
func (t *Terminal) WorkingDirectoryPath() string {
	t.mu.RLock()
	uri := t.workingDir
	t.mu.RUnlock()

	if uri == "" {
		return ""
	}

	// Parse file://hostname/path
	const prefix = "file://"
	if len(uri) <= len(prefix) {
		return ""
	}
	if uri[:len(prefix)] != prefix {
		return ""
	}
	rest := uri[len(prefix):]

	// Find the path after hostname
	slashIdx := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			slashIdx = i
			break
		}
	}
	if slashIdx < 0 {
		return ""
	}
	return rest[slashIdx:]
}

// CellSizePixels sends the cell size in pixels via DSR response.
func (t *Terminal) CellSizePixels() {
	t.mu.RLock()
	sizeProvider := t.sizeProvider
	t.mu.RUnlock()

	var cellWidth, cellHeight int
	if sizeProvider != nil {
		cellWidth, cellHeight = sizeProvider.CellSizePixels()
	} else {
		// Default cell size
		cellWidth = 10
		cellHeight = 20
	}

	// CSI 6 ; height ; width t
	response := fmt.Sprintf("\x1b[6;%d;%dt", cellHeight, cellWidth)
	t.writeResponseString(response)
}

// DesktopNotification delivers a decoded OSC 99 notification to the
// configured provider, writing back whatever response string it returns
// (used for "?" capability queries).
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	dispatch1(t.middleware.DesktopNotification, payload, t.desktopNotificationInternal)
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	response := provider.Notify(payload)
	if response != "" {
		t.writeResponseString(response)
	}
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}
