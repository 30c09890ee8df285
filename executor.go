package vtcore

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/kasuga-dev/vtcore/internal/ansiparser"
)

// Ensure Terminal implements ansiparser.EventSink.
var _ ansiparser.EventSink = (*Terminal)(nil)

// --- EventSink: control characters ---

// Execute handles a C0 or C1 control byte.
func (t *Terminal) Execute(b byte) {
	switch b {
	case 0x07: // BEL
		t.Bell()
	case 0x08: // BS
		t.Backspace()
	case 0x09: // HT
		t.Tab(1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.LineFeed()
	case 0x0D: // CR
		t.CarriageReturn()
	case 0x0E: // SO - shift to G1
		t.SetActiveCharset(1)
	case 0x0F: // SI - shift to G0
		t.SetActiveCharset(0)
	case 0x84: // IND
		t.LineFeed()
	case 0x85: // NEL
		t.CarriageReturn()
		t.LineFeed()
	case 0x88: // HTS
		t.HorizontalTabSet()
	case 0x8D: // RI
		t.ReverseIndex()
	}
}

// Print handles a printable rune reaching the ground state.
func (t *Terminal) Print(r rune) {
	t.Input(r)
}

// --- EventSink: ESC dispatch ---

// EscDispatch handles a complete escape sequence (ESC plus intermediates
// plus a final byte), covering charset designation, cursor save/restore,
// full/alignment reset, and the 7-bit equivalents of the C1 controls also
// reachable through Execute.
func (t *Terminal) EscDispatch(intermediates []byte, final byte) {
	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '(':
			t.ConfigureCharset(CharsetIndexG0, charsetFromDesignator(final))
			return
		case ')':
			t.ConfigureCharset(CharsetIndexG1, charsetFromDesignator(final))
			return
		case '*':
			t.ConfigureCharset(CharsetIndexG2, charsetFromDesignator(final))
			return
		case '+':
			t.ConfigureCharset(CharsetIndexG3, charsetFromDesignator(final))
			return
		case '#':
			if final == '8' {
				t.Decaln()
			}
			return
		}
	}

	if len(intermediates) != 0 {
		return
	}

	switch final {
	case '7':
		t.SaveCursorPosition()
	case '8':
		t.RestoreCursorPosition()
	case 'c':
		t.ResetState()
	case 'D':
		t.LineFeed()
	case 'E':
		t.CarriageReturn()
		t.LineFeed()
	case 'H':
		t.HorizontalTabSet()
	case 'M':
		t.ReverseIndex()
	case '=':
		t.SetKeypadApplicationMode()
	case '>':
		t.UnsetKeypadApplicationMode()
	}
}

// charsetFromDesignator maps a charset designation final byte (ESC ( X) to
// the corresponding Charset. Unrecognized designators fall back to ASCII,
// matching how real terminals treat charsets they don't implement.
func charsetFromDesignator(final byte) Charset {
	switch final {
	case '0':
		return CharsetLineDrawing
	case 'A':
		return CharsetUK
	case '<', 'B':
		return CharsetASCII
	default:
		return CharsetASCII
	}
}

// --- EventSink: CSI dispatch ---

// CsiDispatch handles a complete CSI sequence. final is the terminating
// byte; private carries a leading '?'/'>'/'='/'<' marker when present (0
// otherwise); intermediates carries any bytes between the last parameter
// and final.
func (t *Terminal) CsiDispatch(params [][]uint16, intermediates []byte, private byte, final byte) {
	switch private {
	case '?':
		t.csiDispatchDecPrivate(params, intermediates, final)
		return
	case '>':
		t.csiDispatchGT(params, final)
		return
	case '<':
		if final == 'u' {
			t.PopKeyboardMode(csiParamDefault1(params, 0))
		}
		return
	case '=':
		if final == 'u' {
			behavior := KeyboardModeBehaviorReplace
			if v := csiParam(params, 1, -1); v >= 0 {
				switch v {
				case 2:
					behavior = KeyboardModeBehaviorUnion
				case 3:
					behavior = KeyboardModeBehaviorDifference
				}
			}
			t.SetKeyboardMode(KeyboardMode(csiParam(params, 0, 0)), behavior)
		}
		return
	}

	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '!':
			if final == 'p' {
				t.ResetState()
			}
			return
		case ' ':
			if final == 'q' {
				t.SetCursorStyle(CursorStyle(csiParamDefault1(params, 0) - 1))
			}
			return
		}
	}

	switch final {
	case 'A':
		t.MoveUp(csiParamDefault1(params, 0))
	case 'B', 'e':
		t.MoveDown(csiParamDefault1(params, 0))
	case 'C', 'a':
		t.MoveForward(csiParamDefault1(params, 0))
	case 'D':
		t.MoveBackward(csiParamDefault1(params, 0))
	case 'E':
		t.MoveDownCr(csiParamDefault1(params, 0))
	case 'F':
		t.MoveUpCr(csiParamDefault1(params, 0))
	case 'G', '`':
		t.GotoCol(csiParamDefault1(params, 0) - 1)
	case 'H', 'f':
		t.Goto(csiParamDefault1(params, 0)-1, csiParamDefault1(params, 1)-1)
	case 'I':
		t.MoveForwardTabs(csiParamDefault1(params, 0))
	case 'J':
		t.ClearScreen(ClearMode(csiParam(params, 0, 0)))
	case 'K':
		t.ClearLine(LineClearMode(csiParam(params, 0, 0)))
	case 'L':
		t.InsertBlankLines(csiParamDefault1(params, 0))
	case 'M':
		t.DeleteLines(csiParamDefault1(params, 0))
	case 'P':
		t.DeleteChars(csiParamDefault1(params, 0))
	case 'S':
		t.ScrollUp(csiParamDefault1(params, 0))
	case 'T':
		t.ScrollDown(csiParamDefault1(params, 0))
	case 'X':
		t.EraseChars(csiParamDefault1(params, 0))
	case 'Z':
		t.MoveBackwardTabs(csiParamDefault1(params, 0))
	case '@':
		t.InsertBlank(csiParamDefault1(params, 0))
	case 'c':
		t.IdentifyTerminal(0)
	case 'd':
		t.GotoLine(csiParamDefault1(params, 0) - 1)
	case 'g':
		t.ClearTabs(TabulationClearMode(csiParam(params, 0, 0)))
	case 'h':
		t.dispatchSetMode(params, true)
	case 'l':
		t.dispatchSetMode(params, false)
	case 'm':
		for _, attr := range ParseSGR(params) {
			t.SetTerminalCharAttribute(attr)
		}
	case 'n':
		t.DeviceStatus(csiParam(params, 0, 0))
	case 'r':
		top := csiParamDefault1(params, 0)
		bottom := csiParam(params, 1, 0)
		t.SetScrollingRegion(top, bottom)
	case 's':
		t.SaveCursorPosition()
	case 't':
		t.csiDispatchWindowOps(params)
	case 'u':
		t.RestoreCursorPosition()
	}
}

// dispatchSetMode applies SM/RM (CSI Pm h / CSI Pm l) with no private
// marker, one mode number per parameter.
func (t *Terminal) dispatchSetMode(params [][]uint16, set bool) {
	if len(params) == 0 {
		return
	}
	for _, p := range params {
		if len(p) == 0 {
			continue
		}
		t.setAnsiMode(int(p[0]), set)
	}
}

// csiDispatchDecPrivate handles CSI ? ... final, covering DEC private
// mode set/reset and the Kitty keyboard protocol query.
func (t *Terminal) csiDispatchDecPrivate(params [][]uint16, intermediates []byte, final byte) {
	switch final {
	case 'h':
		for _, p := range params {
			if len(p) > 0 {
				t.setPrivateMode(int(p[0]), true)
			}
		}
	case 'l':
		for _, p := range params {
			if len(p) > 0 {
				t.setPrivateMode(int(p[0]), false)
			}
		}
	case 'u':
		t.ReportKeyboardMode()
	}
}

// csiDispatchGT handles CSI > ... final: device attributes and xterm's
// modifyOtherKeys resource. CSI > c is answered through IdentifyTerminal
// with the same VT220 reply as CSI c; no separate secondary
// device-attributes reply is produced.
func (t *Terminal) csiDispatchGT(params [][]uint16, final byte) {
	switch final {
	case 'c':
		t.IdentifyTerminal(0)
	case 'm':
		if csiParam(params, 0, 0) == 4 {
			t.SetModifyOtherKeys(ModifyOtherKeys(csiParam(params, 1, 0)))
		}
	case 'u':
		t.PushKeyboardMode(KeyboardMode(csiParamDefault1(params, 0)))
	}
}

// csiDispatchWindowOps handles xterm window manipulation (CSI Ps t),
// restricted to the read-only text-area/cell-size queries the handler
// layer implements.
func (t *Terminal) csiDispatchWindowOps(params [][]uint16) {
	switch csiParam(params, 0, 0) {
	case 14:
		t.TextAreaSizePixels()
	case 16:
		t.CellSizePixels()
	case 18, 19:
		t.TextAreaSizeChars()
	}
}

// csiParam returns the first sub-parameter of params[idx] as an int, or
// def if the parameter is missing or empty.
func csiParam(params [][]uint16, idx int, def int) int {
	if idx < 0 || idx >= len(params) || len(params[idx]) == 0 {
		return def
	}
	return int(params[idx][0])
}

// csiParamDefault1 is csiParam with the ECMA-48 convention that a missing
// or zero-valued count parameter means 1.
func csiParamDefault1(params [][]uint16, idx int) int {
	v := csiParam(params, idx, 0)
	if v == 0 {
		return 1
	}
	return v
}

// --- EventSink: OSC dispatch ---

// OscDispatch handles a complete OSC sequence. params[0] is the leading
// numeric command; later entries are the remaining semicolon-separated
// fields, still raw bytes since their content (titles, URIs, base64 blobs)
// isn't itself a parameter list.
func (t *Terminal) OscDispatch(params [][]byte, belTerminated bool) {
	if len(params) == 0 {
		return
	}

	terminator := "\x1b\\"
	if belTerminated {
		terminator = "\x07"
	}

	cmd, err := strconv.Atoi(string(params[0]))
	if err != nil {
		return
	}

	switch cmd {
	case 0, 1, 2:
		t.SetTitle(oscJoin(params, 1))
	case 4:
		t.oscSetOrQueryPalette(params[1:], terminator)
	case 7:
		t.SetWorkingDirectory(oscJoin(params, 1))
	case 8:
		t.oscHyperlink(params)
	case 10:
		t.oscDynamicColor("10", ColorIndexForeground, params, terminator)
	case 11:
		t.oscDynamicColor("11", ColorIndexBackground, params, terminator)
	case 12:
		t.oscDynamicColor("12", ColorIndexCursor, params, terminator)
	case 52:
		t.oscClipboard(params, terminator)
	case 99:
		t.DesktopNotification(parseNotificationOSC(params))
	case 133:
		t.oscShellIntegration(params)
	case 1337:
		t.oscITerm2(params)
	}
}

// oscJoin rejoins params[from:] with ';', recovering free text fields
// (titles, URIs) that happened to contain semicolons of their own.
func oscJoin(params [][]byte, from int) string {
	if from >= len(params) {
		return ""
	}
	parts := make([]string, len(params)-from)
	for i, p := range params[from:] {
		parts[i] = string(p)
	}
	return strings.Join(parts, ";")
}

// oscSetOrQueryPalette handles OSC 4 (Pi ; spec pairs), either updating
// the indexed palette or responding with the current color for "?".
func (t *Terminal) oscSetOrQueryPalette(pairs [][]byte, terminator string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		idx, err := strconv.Atoi(string(pairs[i]))
		if err != nil {
			continue
		}
		spec := string(pairs[i+1])
		if spec == "?" {
			t.SetDynamicColor("4;"+strconv.Itoa(idx), idx, terminator)
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			t.SetColor(idx, c)
		}
	}
}

// oscDynamicColor handles OSC 10/11/12 (default foreground/background/
// cursor color), set or query.
func (t *Terminal) oscDynamicColor(prefix string, index int, params [][]byte, terminator string) {
	if len(params) < 2 {
		return
	}
	spec := string(params[1])
	if spec == "?" {
		t.SetDynamicColor(prefix, index, terminator)
		return
	}
	if c, ok := parseColorSpec(spec); ok {
		t.SetColor(index, c)
	}
}

// parseColorSpec parses an "rgb:rr/gg/bb" or "#rrggbb" color spec, as sent
// by OSC 4/10/11/12 set requests.
func parseColorSpec(spec string) (Color, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[len("rgb:"):], "/")
		if len(parts) != 3 {
			return Color{}, false
		}
		r, ok1 := parseColorComponent(parts[0])
		g, ok2 := parseColorComponent(parts[1])
		b, ok3 := parseColorComponent(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return Color{}, false
		}
		return RGB(r, g, b), true
	}
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return Color{}, false
		}
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
	}
	return Color{}, false
}

// parseColorComponent parses one 1-4 hex digit channel of an "rgb:" spec,
// scaling it down to 8 bits the way xterm does.
func parseColorComponent(s string) (uint8, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	maxVal := uint64(1)<<(4*len(s)) - 1
	return uint8(v * 255 / maxVal), true
}

// oscHyperlink handles OSC 8 (id=... ; uri), clearing the active
// hyperlink when uri is empty.
func (t *Terminal) oscHyperlink(params [][]byte) {
	if len(params) < 3 {
		t.SetHyperlink(nil)
		return
	}

	var id string
	for _, field := range strings.Split(string(params[1]), ":") {
		if strings.HasPrefix(field, "id=") {
			id = field[len("id="):]
		}
	}

	uri := oscJoin(params, 2)
	if uri == "" {
		t.SetHyperlink(nil)
		return
	}
	t.SetHyperlink(&Hyperlink{ID: id, URI: uri})
}

// oscClipboard handles OSC 52 (clipboard ; base64-data-or-"?").
func (t *Terminal) oscClipboard(params [][]byte, terminator string) {
	if len(params) < 3 {
		return
	}
	clipboards := string(params[1])
	if clipboards == "" {
		clipboards = "c"
	}
	clipboard := clipboards[0]

	payload := string(params[2])
	if payload == "?" {
		t.ClipboardLoad(clipboard, terminator)
		return
	}

	data, err := base64DecodeLenient(payload)
	if err != nil {
		return
	}
	t.ClipboardStore(clipboard, data)
}

// oscShellIntegration handles OSC 133 semantic prompt marks (A/B/C/D).
func (t *Terminal) oscShellIntegration(params [][]byte) {
	if len(params) < 2 || len(params[1]) == 0 {
		return
	}

	exitCode := -1
	mark := params[1][0]
	if mark == 'D' && len(params) > 2 {
		if code, err := strconv.Atoi(string(params[2])); err == nil {
			exitCode = code
		}
	}

	switch mark {
	case 'A':
		t.ShellIntegrationMark(PromptStart, exitCode)
	case 'B':
		t.ShellIntegrationMark(CommandStart, exitCode)
	case 'C':
		t.ShellIntegrationMark(CommandExecuted, exitCode)
	case 'D':
		t.ShellIntegrationMark(CommandFinished, exitCode)
	}
}

// oscITerm2 handles the iTerm2 proprietary OSC 1337 family, currently just
// the SetUserVar sub-command used by shell integration scripts.
func (t *Terminal) oscITerm2(params [][]byte) {
	if len(params) < 2 {
		return
	}
	payload := string(params[1])
	const prefix = "SetUserVar="
	if !strings.HasPrefix(payload, prefix) {
		return
	}
	rest := payload[len(prefix):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return
	}
	name := rest[:eq]
	value, err := base64DecodeLenient(rest[eq+1:])
	if err != nil {
		return
	}
	t.SetUserVar(name, string(value))
}

// parseNotificationOSC decodes an OSC 99 payload's colon-separated
// metadata fields (params[1]) and trailing free-text body (params[2:])
// into a NotificationPayload.
func parseNotificationOSC(params [][]byte) *NotificationPayload {
	p := &NotificationPayload{Done: true, PayloadType: "body"}
	if len(params) > 1 {
		for _, field := range strings.Split(string(params[1]), ":") {
			eq := strings.IndexByte(field, '=')
			if eq < 0 {
				continue
			}
			key, val := field[:eq], field[eq+1:]
			switch key {
			case "i":
				p.ID = val
			case "d":
				p.Done = val != "0"
			case "p":
				p.PayloadType = val
			case "e":
				p.Encoding = val
			case "a":
				p.Actions = strings.Split(val, ",")
				for _, a := range p.Actions {
					if a == "close" {
						p.TrackClose = true
					}
				}
			case "o":
				p.Occasion = val
			case "u":
				if v, err := strconv.Atoi(val); err == nil {
					p.Urgency = v
				}
			case "g":
				p.IconCacheID = val
			case "n":
				p.IconName = val
			case "t":
				p.Type = val
			case "f":
				p.AppName = val
			case "s":
				p.Sound = val
			case "w":
				if v, err := strconv.Atoi(val); err == nil {
					p.Timeout = v
				}
			}
		}
	}
	p.Data = []byte(oscJoin(params, 2))
	return p
}

// base64DecodeLenient decodes standard base64, tolerating missing padding
// as real-world OSC 52/1337 senders sometimes omit it.
func base64DecodeLenient(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(s)
}

// --- EventSink: DCS dispatch ---

// DcsHook begins a Device Control String (Sixel graphics, DECRQSS,
// termcap/terminfo queries, or any other DCS-terminated payload this
// package does not itself interpret). Per spec, the payload is routed to
// an optional passthrough sink; absent a sink the bytes are still counted
// and then discarded.
func (t *Terminal) DcsHook(params [][]uint16, intermediates []byte, private byte, final byte) {
	t.dcsParams = params
	t.dcsIntermediates = append(t.dcsIntermediates[:0], intermediates...)
	t.dcsPrivate = private
	t.dcsFinal = final
	t.dcsBuf = t.dcsBuf[:0]
}

// DcsPut appends one payload byte to the in-progress DCS string.
func (t *Terminal) DcsPut(b byte) {
	t.dcsBuf = append(t.dcsBuf, b)
	t.dcsByteCount++
}

// DcsUnhook ends the in-progress DCS string, handing the buffered payload
// to the configured DCS sink.
func (t *Terminal) DcsUnhook() {
	t.mu.RLock()
	sink := t.dcsProvider
	t.mu.RUnlock()
	if sink != nil {
		sink.Receive(t.dcsParams, t.dcsIntermediates, t.dcsPrivate, t.dcsFinal, t.dcsBuf)
	}
	t.dcsParams = nil
}

// --- EventSink: APC/PM/SOS dispatch ---

// ApcDispatch handles a complete Application Program Command payload.
func (t *Terminal) ApcDispatch(data []byte) {
	t.ApplicationCommandReceived(data)
}

// PmDispatch handles a complete Privacy Message.
func (t *Terminal) PmDispatch(data []byte) {
	t.PrivacyMessageReceived(data)
}

// SosDispatch handles a complete Start of String.
func (t *Terminal) SosDispatch(data []byte) {
	t.StartOfStringReceived(data)
}
