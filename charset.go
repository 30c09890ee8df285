package vtcore

import "golang.org/x/text/encoding/charmap"

// CharsetTable maps the bytes a terminal application sends against an
// active G0-G3 slot to the rune actually printed. Only ASCII (0x20-0x7E)
// entries ever differ from their byte value; C0/C1 controls and DEL never
// pass through a charset table.
type CharsetTable [0x7F - 0x20]rune

// decLineDrawing is the DEC Special Graphics set (ESC ( 0): box-drawing
// and a handful of symbols substituted over the ASCII backtick..tilde
// range (0x60-0x7E). charmap has no DEC entry, so this table is hand-built.
var decLineDrawing = buildLineDrawing()

func buildLineDrawing() CharsetTable {
	var t CharsetTable
	for i := range t {
		t[i] = rune(0x20 + i)
	}
	replace := map[byte]rune{
		'`': '◆', // diamond
		'a': '▒', // checkerboard
		'b': '␉', // HT symbol
		'c': '␌', // FF symbol
		'd': '␍', // CR symbol
		'e': '␊', // LF symbol
		'f': '°', // degree
		'g': '±', // plus/minus
		'h': '␤', // NL symbol
		'i': '␋', // VT symbol
		'j': '┘', // bottom-right corner
		'k': '┐', // top-right corner
		'l': '┌', // top-left corner
		'm': '└', // bottom-left corner
		'n': '┼', // cross
		'o': '⎺', // scan line 1
		'p': '⎻', // scan line 3
		'q': '─', // horizontal line
		'r': '⎼', // scan line 7
		's': '⎽', // scan line 9
		't': '├', // left T
		'u': '┤', // right T
		'v': '┴', // bottom T
		'w': '┬', // top T
		'x': '│', // vertical line
		'y': '≤', // less-or-equal
		'z': '≥', // greater-or-equal
		'{': 'π', // pi
		'|': '≠', // not-equal
		'}': '£', // pound sterling
		'~': '·', // centered dot
	}
	for b, r := range replace {
		t[b-0x20] = r
	}
	return t
}

// asciiTable is the identity mapping, used for CharsetASCII and as the
// base for national variants that only replace a few code points.
var asciiTable = buildASCII()

func buildASCII() CharsetTable {
	var t CharsetTable
	for i := range t {
		t[i] = rune(0x20 + i)
	}
	return t
}

// ukTable is the UK national variant (ESC ( A): identical to ASCII except
// '#' (0x23) becomes the pound sterling sign.
var ukTable = buildUK()

func buildUK() CharsetTable {
	t := asciiTable
	t['#'-0x20] = '£'
	return t
}

// latin1Table backs CharsetLatin1. It is built by decoding the bytes
// 0x20-0x7E through golang.org/x/text/encoding/charmap's ISO 8859-1
// decoder, which maps each of them to itself, so the table equals
// asciiTable. The upper half of ISO 8859-1 (0xA0-0xFF) lies outside
// CharsetTable's range and is not translated.
var latin1Table = buildLatin1()

func buildLatin1() CharsetTable {
	t := asciiTable
	dec := charmap.ISO8859_1.NewDecoder()
	for b := byte(0x20); b <= 0x7E; b++ {
		out, err := dec.Bytes([]byte{b})
		if err != nil || len(out) == 0 {
			continue
		}
		r := []rune(string(out))
		if len(r) == 1 {
			t[b-0x20] = r[0]
		}
	}
	return t
}

// tableFor resolves a Charset selector to its decode table.
func tableFor(cs Charset) *CharsetTable {
	switch cs {
	case CharsetLineDrawing:
		return &decLineDrawing
	case CharsetUK:
		return &ukTable
	case CharsetLatin1:
		return &latin1Table
	default:
		return &asciiTable
	}
}

// Translate maps b (an ASCII byte 0x20-0x7E) through cs. Bytes outside
// that range are returned unchanged: charset designation never affects
// C0/C1 controls.
func Translate(cs Charset, b byte) rune {
	if b < 0x20 || b > 0x7E {
		return rune(b)
	}
	return tableFor(cs)[b-0x20]
}
