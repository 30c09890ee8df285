package ansiparser

import (
	giterator "github.com/danielgatis/go-iterator"
)

// Parser drives the VT500-style state machine byte by byte. It is not
// safe for concurrent use, and Terminal.Write takes no lock around it, so
// callers must not run Parse calls on one Parser concurrently.
type Parser struct {
	st state

	decoder runeDecoder

	intermediates []byte
	private       byte

	params   [][]uint16
	curSub   []uint16
	curVal   uint16
	curDigit bool

	oscBuf  []byte
	apcBuf  []byte
	apcKind byte // 'X' SOS, '^' PM, '_' APC; which of the three is in progress
	escSeen bool // ESC seen while accumulating an OSC/APC/PM/SOS/DCS string, awaiting ST's '\\'

	maxParams        int
	maxSubParams     int
	maxIntermediates int
	maxStringLen     int
}

// New returns a Parser with spec-default limits.
func New() *Parser {
	return &Parser{
		st:               stateGround,
		maxParams:        DefaultMaxParams,
		maxSubParams:     DefaultMaxSubParams,
		maxIntermediates: DefaultMaxIntermediates,
		maxStringLen:     DefaultMaxStringLen,
	}
}

// Parse feeds data through the state machine, invoking sink methods in
// byte order. It never returns an error: malformed input is absorbed per
// the C0/C1/CSI/OSC/DCS recovery rules and never aborts the stream.
func (p *Parser) Parse(data []byte, sink EventSink) {
	it := giterator.New(data)
	for it.HasNext() {
		p.step(it.Next(), sink)
	}
}

// ParseByte feeds a single byte through the state machine. Equivalent to
// calling Parse with a one-byte slice but avoids an allocation.
func (p *Parser) ParseByte(b byte, sink EventSink) {
	p.step(b, sink)
}

func (p *Parser) step(b byte, sink EventSink) {
	// Anywhere transitions: ESC always restarts a new sequence, CAN/SUB
	// always abort back to ground, regardless of current state.
	switch p.st {
	case stateOscString, stateSosPmApcString, stateDcsPassthrough, stateDcsEntry, stateDcsParam, stateDcsIntermediate, stateDcsIgnore:
		// handled inside their own cases below, since these states treat
		// ESC specially (as the first half of ST) rather than as an abort.
	default:
		if b == 0x18 || b == 0x1A { // CAN, SUB
			p.abort(sink)
			return
		}
		if b == 0x1B {
			p.resetSeq()
			p.st = stateEscape
			return
		}
	}

	switch p.st {
	case stateGround:
		p.stepGround(b, sink)
	case stateEscape:
		p.stepEscape(b, sink)
	case stateEscapeIntermediate:
		p.stepEscapeIntermediate(b, sink)
	case stateCsiEntry:
		p.stepCsiEntry(b, sink)
	case stateCsiParam:
		p.stepCsiParam(b, sink)
	case stateCsiIntermediate:
		p.stepCsiIntermediate(b, sink)
	case stateCsiIgnore:
		p.stepCsiIgnore(b, sink)
	case stateOscString:
		p.stepOscString(b, sink)
	case stateDcsEntry:
		p.stepDcsEntry(b, sink)
	case stateDcsParam:
		p.stepDcsParam(b, sink)
	case stateDcsIntermediate:
		p.stepDcsIntermediate(b, sink)
	case stateDcsPassthrough:
		p.stepDcsPassthrough(b, sink)
	case stateDcsIgnore:
		p.stepDcsIgnore(b, sink)
	case stateSosPmApcString:
		p.stepSosPmApcString(b, sink)
	}
}

// abort discards whatever sequence is in progress and returns to ground,
// per the C0 CAN/SUB recovery rule. A DCS hook in progress is unhooked so
// the sink's stream state stays balanced.
func (p *Parser) abort(sink EventSink) {
	if p.st == stateDcsPassthrough {
		sink.DcsUnhook()
	}
	p.resetSeq()
	p.st = stateGround
}

func (p *Parser) resetSeq() {
	p.intermediates = p.intermediates[:0]
	p.private = 0
	p.params = nil
	p.curSub = nil
	p.curVal = 0
	p.curDigit = false
	p.oscBuf = p.oscBuf[:0]
	p.apcBuf = p.apcBuf[:0]
	p.apcKind = 0
	p.escSeen = false
	p.decoder.reset()
}

func isC0(b byte) bool { return b <= 0x1F && b != 0x1B }

func isIntermediate(b byte) bool { return b >= 0x20 && b <= 0x2F }

func isCsiFinal(b byte) bool { return b >= 0x40 && b <= 0x7E }

func isDigit(b byte) bool { return b >= 0x30 && b <= 0x39 }

// ---- Ground ----

func (p *Parser) stepGround(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case b == 0x7F:
		// DEL, ignored.
	case b >= 0x20 && b <= 0x7E:
		sink.Print(rune(b))
	case b >= 0x80 && b <= 0x9F && len(p.decoder.pending) == 0:
		// C1 control, equivalent to ESC Fe where Fe = b - 0x40. Inside a
		// pending UTF-8 sequence the byte is a continuation byte instead.
		p.dispatchC1(b-0x40, sink)
	default:
		// UTF-8 lead or continuation byte.
		if r, ok := p.decoder.feed(b); ok {
			sink.Print(r)
		}
	}
}

// dispatchC1 routes a bare C1 control byte (already converted to its
// 7-bit ESC-Fe equivalent) through the same handling as ESC <final>.
func (p *Parser) dispatchC1(final byte, sink EventSink) {
	p.resetSeq()
	p.st = stateEscape
	p.stepEscape(final, sink)
}

// ---- Escape ----

func (p *Parser) stepEscape(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case b == 0x5B: // '[' CSI
		p.resetSeq()
		p.st = stateCsiEntry
	case b == 0x5D: // ']' OSC
		p.resetSeq()
		p.st = stateOscString
	case b == 0x50: // 'P' DCS
		p.resetSeq()
		p.st = stateDcsEntry
	case b == 0x58 || b == 0x5E || b == 0x5F: // 'X' SOS, '^' PM, '_' APC
		p.resetSeq()
		p.apcKind = b
		p.st = stateSosPmApcString
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
		p.st = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7E:
		sink.EscDispatch(p.intermediates, b)
		p.resetSeq()
		p.st = stateGround
	default:
		// Stray byte, drop back to ground silently.
		p.resetSeq()
		p.st = stateGround
	}
}

func (p *Parser) stepEscapeIntermediate(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
	case b >= 0x30 && b <= 0x7E:
		sink.EscDispatch(p.intermediates, b)
		p.resetSeq()
		p.st = stateGround
	default:
		p.resetSeq()
		p.st = stateGround
	}
}

// ---- CSI ----

func (p *Parser) stepCsiEntry(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case b >= 0x3C && b <= 0x3F:
		p.private = b
		p.st = stateCsiParam
	case isDigit(b) || b == 0x3B || b == 0x3A:
		p.st = stateCsiParam
		p.stepCsiParam(b, sink)
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
		p.st = stateCsiIntermediate
	case isCsiFinal(b):
		p.finishCsi(b, sink)
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) stepCsiParam(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case isDigit(b):
		p.curVal = p.curVal*10 + uint16(b-0x30)
		p.curDigit = true
	case b == 0x3A: // sub-parameter separator
		if len(p.curSub) < p.maxSubParams {
			p.curSub = append(p.curSub, p.curVal)
		}
		p.curVal = 0
		p.curDigit = false
	case b == 0x3B: // parameter separator
		p.pushParam()
	case b >= 0x3C && b <= 0x3F:
		// A second private marker, or one appearing after params started,
		// is malformed; discard the rest of the sequence.
		p.st = stateCsiIgnore
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
		p.st = stateCsiIntermediate
	case isCsiFinal(b):
		p.finishCsi(b, sink)
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIntermediate(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
	case isCsiFinal(b):
		p.finishCsi(b, sink)
	default:
		p.st = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIgnore(b byte, sink EventSink) {
	switch {
	case isC0(b):
		sink.Execute(b)
	case isCsiFinal(b):
		p.resetSeq()
		p.st = stateGround
	default:
		// keep discarding
	}
}

func (p *Parser) pushParam() {
	p.curSub = append(p.curSub, p.curVal)
	if len(p.params) < p.maxParams {
		p.params = append(p.params, p.curSub)
	}
	p.curSub = nil
	p.curVal = 0
	p.curDigit = false
}

func (p *Parser) finishCsi(final byte, sink EventSink) {
	p.pushParam()
	sink.CsiDispatch(p.params, p.intermediates, p.private, final)
	p.resetSeq()
	p.st = stateGround
}

// ---- OSC ----

func (p *Parser) stepOscString(b byte, sink EventSink) {
	switch {
	case b == 0x07: // BEL terminator
		p.finishOsc(sink, true)
	case b == 0x1B:
		p.escSeen = true
	case p.escSeen && b == 0x5C: // ST = ESC \
		p.finishOsc(sink, false)
	case b == 0x9C: // 8-bit ST
		p.finishOsc(sink, false)
	case isC0(b):
		p.escSeen = false
		// other C0 bytes inside an OSC string are ignored, not stored.
	default:
		p.escSeen = false
		if len(p.oscBuf) < p.maxStringLen {
			p.oscBuf = append(p.oscBuf, b)
		}
	}
}

func (p *Parser) finishOsc(sink EventSink, bel bool) {
	params := splitBytes(p.oscBuf, ';')
	sink.OscDispatch(params, bel)
	p.resetSeq()
	p.st = stateGround
}

// ---- SOS/PM/APC ----

func (p *Parser) stepSosPmApcString(b byte, sink EventSink) {
	switch {
	case b == 0x1B:
		p.escSeen = true
	case p.escSeen && b == 0x5C:
		p.finishApc(sink)
	case b == 0x9C:
		p.finishApc(sink)
	case isC0(b):
		p.escSeen = false
	default:
		p.escSeen = false
		if len(p.apcBuf) < p.maxStringLen {
			p.apcBuf = append(p.apcBuf, b)
		}
	}
}

func (p *Parser) finishApc(sink EventSink) {
	switch p.apcKind {
	case 0x58:
		sink.SosDispatch(p.apcBuf)
	case 0x5E:
		sink.PmDispatch(p.apcBuf)
	default:
		sink.ApcDispatch(p.apcBuf)
	}
	p.resetSeq()
	p.st = stateGround
}

// ---- DCS ----

func (p *Parser) stepDcsEntry(b byte, sink EventSink) {
	switch {
	case isC0(b):
		// swallowed; DCS introducers don't execute C0 controls.
	case b >= 0x3C && b <= 0x3F:
		p.private = b
		p.st = stateDcsParam
	case isDigit(b) || b == 0x3B || b == 0x3A:
		p.st = stateDcsParam
		p.stepDcsParam(b, sink)
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
		p.st = stateDcsIntermediate
	case isCsiFinal(b):
		p.hookDcs(b, sink)
	case b == 0x1B:
		p.escSeen = true
		p.st = stateDcsIgnore
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) stepDcsParam(b byte, sink EventSink) {
	switch {
	case isC0(b):
	case isDigit(b):
		p.curVal = p.curVal*10 + uint16(b-0x30)
		p.curDigit = true
	case b == 0x3A:
		if len(p.curSub) < p.maxSubParams {
			p.curSub = append(p.curSub, p.curVal)
		}
		p.curVal = 0
		p.curDigit = false
	case b == 0x3B:
		p.pushParam()
	case b >= 0x3C && b <= 0x3F:
		p.st = stateDcsIgnore
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
		p.st = stateDcsIntermediate
	case isCsiFinal(b):
		p.hookDcs(b, sink)
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) stepDcsIntermediate(b byte, sink EventSink) {
	switch {
	case isC0(b):
	case isIntermediate(b):
		p.intermediates = appendCapped(p.intermediates, b, p.maxIntermediates)
	case isCsiFinal(b):
		p.hookDcs(b, sink)
	default:
		p.st = stateDcsIgnore
	}
}

func (p *Parser) hookDcs(final byte, sink EventSink) {
	p.pushParam()
	sink.DcsHook(p.params, p.intermediates, p.private, final)
	p.st = stateDcsPassthrough
}

func (p *Parser) stepDcsPassthrough(b byte, sink EventSink) {
	switch {
	case b == 0x1B:
		p.escSeen = true
	case p.escSeen && b == 0x5C:
		sink.DcsUnhook()
		p.resetSeq()
		p.st = stateGround
	case b == 0x9C:
		sink.DcsUnhook()
		p.resetSeq()
		p.st = stateGround
	case isC0(b) && b != 0x1B:
		p.escSeen = false
		// Passed through verbatim; Sixel/Kitty payloads may rely on it.
		sink.DcsPut(b)
	default:
		p.escSeen = false
		sink.DcsPut(b)
	}
}

func (p *Parser) stepDcsIgnore(b byte, sink EventSink) {
	switch {
	case b == 0x1B:
		p.escSeen = true
	case p.escSeen && b == 0x5C:
		p.resetSeq()
		p.st = stateGround
	case b == 0x9C:
		p.resetSeq()
		p.st = stateGround
	default:
		p.escSeen = false
	}
}

// appendCapped appends b to buf unless it has already reached max.
func appendCapped(buf []byte, b byte, max int) []byte {
	if len(buf) >= max {
		return buf
	}
	return append(buf, b)
}

// splitBytes is a byte-slice strings.Split, avoiding a string conversion
// for what is usually non-UTF-8-validated OSC payload data.
func splitBytes(buf []byte, sep byte) [][]byte {
	if len(buf) == 0 {
		return [][]byte{{}}
	}
	var out [][]byte
	start := 0
	for i, b := range buf {
		if b == sep {
			out = append(out, buf[start:i])
			start = i + 1
		}
	}
	out = append(out, buf[start:])
	return out
}
