// Package ansiparser implements the byte-level VT500-style state machine
// that recognizes C0/C1 controls, CSI, OSC, DCS and SS2/SS3 sequences and
// turns them into a small event set for a caller-supplied EventSink.
package ansiparser

// EventSink receives parser events in strict byte order. Implementations
// must not block; the parser calls back synchronously from Parse.
type EventSink interface {
	// Print is called once per printable rune (grapheme clusters composed
	// of combining marks are delivered as separate zero-width Print calls;
	// callers that want clusters combine them themselves).
	Print(r rune)

	// Execute is called for a single C0/C1 control byte (BEL, BS, HT, LF,
	// VT, FF, CR, SO, SI, IND, NEL, HTS, RI, ...).
	Execute(b byte)

	// CsiDispatch is called once a CSI sequence reaches its final byte.
	// params holds one slice per semicolon-separated parameter; a colon
	// inside a parameter separates ECMA-48 sub-parameters, so each element
	// of params is itself a slice of the parsed sub-parameters. Excess
	// parameters beyond DefaultMaxParams are dropped before this is called.
	CsiDispatch(params [][]uint16, intermediates []byte, private byte, final byte)

	// OscDispatch is called once an OSC string reaches its ST or BEL
	// terminator. Each params entry is the raw bytes between ';' separators.
	OscDispatch(params [][]byte, belTerminated bool)

	// EscDispatch is called for a two-or-more-byte escape sequence that is
	// not CSI/OSC/DCS (e.g. charset designators, DECSC/DECRC, RIS).
	EscDispatch(intermediates []byte, final byte)

	// DcsHook is called when a DCS sequence's final byte is recognized,
	// before any payload bytes. DcsPut streams the payload a byte at a
	// time; DcsUnhook marks the end of the string.
	DcsHook(params [][]uint16, intermediates []byte, private byte, final byte)
	DcsPut(b byte)
	DcsUnhook()

	// ApcDispatch, PmDispatch and SosDispatch deliver the payload of an
	// Application Program Command (ESC _), Privacy Message (ESC ^) or
	// Start-of-String (ESC X) sequence once its ST terminator is seen.
	ApcDispatch(data []byte)
	PmDispatch(data []byte)
	SosDispatch(data []byte)
}

// NopSink implements EventSink with no-op methods, useful for embedding in
// sinks that only care about a subset of events.
type NopSink struct{}

func (NopSink) Print(r rune)                                                   {}
func (NopSink) Execute(b byte)                                                 {}
func (NopSink) CsiDispatch(params [][]uint16, intermediates []byte, p, f byte) {}
func (NopSink) OscDispatch(params [][]byte, belTerminated bool)                {}
func (NopSink) EscDispatch(intermediates []byte, final byte)                   {}
func (NopSink) DcsHook(params [][]uint16, intermediates []byte, p, f byte)     {}
func (NopSink) DcsPut(b byte)                                                  {}
func (NopSink) DcsUnhook()                                                     {}
func (NopSink) ApcDispatch(data []byte)                                        {}
func (NopSink) PmDispatch(data []byte)                                         {}
func (NopSink) SosDispatch(data []byte)                                        {}

var _ EventSink = NopSink{}
