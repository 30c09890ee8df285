package ansiparser

import (
	gutf8 "github.com/danielgatis/go-utf8"
)

// runeDecoder incrementally decodes UTF-8 across arbitrarily split Write
// calls. Ill-formed sequences are replaced with U+FFFD and decoding resumes
// at the next byte, per spec §4.F. Held bytes are explicit parser state, so
// splitting a multi-byte rune across two Parse calls is still restartable.
type runeDecoder struct {
	pending []byte
}

// feed appends b to any pending bytes and attempts to decode one rune.
// ok is false while more continuation bytes are needed.
func (d *runeDecoder) feed(b byte) (r rune, ok bool) {
	d.pending = append(d.pending, b)

	r, size := gutf8.DecodeRune(d.pending)
	if r == gutf8.RuneError && size <= 1 {
		if gutf8.FullRune(d.pending) || len(d.pending) >= 4 {
			d.pending = d.pending[:0]
			return gutf8.RuneError, true
		}
		// Need more continuation bytes.
		return 0, false
	}

	d.pending = d.pending[:0]
	return r, true
}

// reset discards any partially accumulated rune, used on Execute/Escape
// interrupting an in-flight UTF-8 sequence.
func (d *runeDecoder) reset() {
	d.pending = d.pending[:0]
}
