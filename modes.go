package vtcore

// LineClearMode selects which part of the current line ClearLine (CSI K) erases.
type LineClearMode int

const (
	LineClearModeRight LineClearMode = iota
	LineClearModeLeft
	LineClearModeAll
)

// ClearMode selects which part of the screen ClearScreen (CSI J) erases.
type ClearMode int

const (
	ClearModeBelow ClearMode = iota
	ClearModeAbove
	ClearModeAll
	ClearModeSaved
)

// TabulationClearMode selects which tab stops ClearTabs (CSI g) removes.
type TabulationClearMode int

const (
	TabulationClearModeCurrent TabulationClearMode = iota
	TabulationClearModeAll
)

// KeyboardMode is a bitmask of Kitty keyboard protocol flags (CSI ? u
// queries, CSI > Pu u pushes, CSI = Pu ; Pb u sets, CSI < Pu u pops).
type KeyboardMode uint8

const (
	KeyboardModeNoMode                     KeyboardMode = 0
	KeyboardModeDisambiguateEscapeCodes    KeyboardMode = 1 << 0
	KeyboardModeReportEventTypes           KeyboardMode = 1 << 1
	KeyboardModeReportAlternateKeys        KeyboardMode = 1 << 2
	KeyboardModeReportAllKeysAsEscapeCodes KeyboardMode = 1 << 3
	KeyboardModeReportAssociatedText       KeyboardMode = 1 << 4
)

// KeyboardModeBehavior selects how SetKeyboardMode combines a new mode value
// with the mode currently on top of the stack (CSI = Pu ; Pb u, where Pb
// selects replace/union/difference).
type KeyboardModeBehavior int

const (
	KeyboardModeBehaviorReplace KeyboardModeBehavior = iota
	KeyboardModeBehaviorUnion
	KeyboardModeBehaviorDifference
)

// ModifyOtherKeys selects how modified key presses are reported, mirroring
// xterm's modifyOtherKeys resource (CSI > 4 ; Pv m).
type ModifyOtherKeys int

const (
	ModifyOtherKeysOff ModifyOtherKeys = iota
	ModifyOtherKeysEnabled
	ModifyOtherKeysEnabledExceptWellDefined
)

// ShellIntegrationMark identifies which OSC 133 prompt boundary a mark
// represents.
type ShellIntegrationMark int

const (
	PromptStart ShellIntegrationMark = iota
	CommandStart
	CommandExecuted
	CommandFinished
)

// setPrivateMode translates a DEC private mode number (CSI ? Pm h / CSI ? Pm
// l) into the corresponding TerminalMode bit and applies it through the
// normal SetMode/UnsetMode path, so middleware still observes the change.
// Unknown numbers are ignored, matching how real terminals silently accept
// private modes they don't implement.
func (t *Terminal) setPrivateMode(num int, set bool) {
	switch num {
	case 1048:
		if set {
			t.SaveCursorPosition()
		} else {
			t.RestoreCursorPosition()
		}
		return
	case 69:
		// DECLRMM. Resetting it also resets the margins to the full width,
		// matching xterm: a disabled DECLRMM never leaves a stale margin
		// that CSI s-as-save-cursor or erases would silently respect.
		if !set {
			t.mu.Lock()
			t.scrollLeft = 0
			t.scrollRight = t.cols
			t.mu.Unlock()
		}
		if set {
			t.SetMode(ModeLeftRightMargin)
		} else {
			t.UnsetMode(ModeLeftRightMargin)
		}
		return
	}

	var m TerminalMode
	switch num {
	case 1:
		m = ModeCursorKeys
	case 3:
		m = ModeColumnMode
	case 6:
		m = ModeOrigin
	case 7:
		m = ModeLineWrap
	case 12:
		m = ModeBlinkingCursor
	case 25:
		m = ModeShowCursor
	case 1000:
		m = ModeReportMouseClicks
	case 1002:
		m = ModeReportCellMouseMotion
	case 1003:
		m = ModeReportAllMouseMotion
	case 1004:
		m = ModeReportFocusInOut
	case 1005:
		m = ModeUTF8Mouse
	case 1006:
		m = ModeSGRMouse
	case 1007:
		m = ModeAlternateScroll
	case 1042:
		m = ModeUrgencyHints
	case 1047, 1049:
		m = ModeSwapScreenAndSetRestoreCursor
	case 2004:
		m = ModeBracketedPaste
	default:
		return
	}

	if set {
		t.SetMode(m)
	} else {
		t.UnsetMode(m)
	}
}

// setAnsiMode translates a non-private ANSI mode number (CSI Pm h / CSI Pm
// l) into the corresponding TerminalMode bit and applies it. Unknown numbers
// are ignored.
func (t *Terminal) setAnsiMode(num int, set bool) {
	var m TerminalMode
	switch num {
	case 4:
		m = ModeInsert
	case 20:
		m = ModeLineFeedNewLine
	default:
		return
	}

	if set {
		t.SetMode(m)
	} else {
		t.UnsetMode(m)
	}
}
