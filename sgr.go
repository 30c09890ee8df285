package vtcore

// CharAttributeKind identifies one decomposed SGR (Select Graphic Rendition)
// attribute.
type CharAttributeKind int

const (
	CharAttributeReset CharAttributeKind = iota
	CharAttributeBold
	CharAttributeDim
	CharAttributeItalic
	CharAttributeUnderline
	CharAttributeDoubleUnderline
	CharAttributeCurlyUnderline
	CharAttributeDottedUnderline
	CharAttributeDashedUnderline
	CharAttributeBlinkSlow
	CharAttributeBlinkFast
	CharAttributeReverse
	CharAttributeHidden
	CharAttributeStrike
	CharAttributeCancelBold
	CharAttributeCancelBoldDim
	CharAttributeCancelItalic
	CharAttributeCancelUnderline
	CharAttributeCancelBlink
	CharAttributeCancelReverse
	CharAttributeCancelHidden
	CharAttributeCancelStrike
	CharAttributeForeground
	CharAttributeBackground
	CharAttributeUnderlineColor
	CharAttributeUnderlineColorReset
)

// CharAttribute is one decomposed SGR attribute, as produced by ParseSGR from
// a raw CSI parameter list. Color is only meaningful for the Foreground,
// Background and UnderlineColor kinds.
type CharAttribute struct {
	Attr  CharAttributeKind
	Color Color
}

// ParseSGR decomposes a full CSI "m" parameter list into a sequence of
// CharAttribute values, resolving 38/48/58 extended color sub-sequences in
// both their colon form (38:5:n, 38:2::r:g:b - packed as sub-parameters of a
// single top-level parameter) and their legacy semicolon form
// (38;5;n, 38;2;r;g;b - spread across consecutive top-level parameters). An
// empty parameter list (bare CSI m) means reset, matching ECMA-48.
func ParseSGR(params [][]uint16) []CharAttribute {
	if len(params) == 0 {
		return []CharAttribute{{Attr: CharAttributeReset}}
	}

	var out []CharAttribute
	i := 0
	for i < len(params) {
		p := params[i]
		i++

		if len(p) == 0 {
			out = append(out, CharAttribute{Attr: CharAttributeReset})
			continue
		}

		code := p[0]
		switch {
		case code == 0:
			out = append(out, CharAttribute{Attr: CharAttributeReset})
		case code == 1:
			out = append(out, CharAttribute{Attr: CharAttributeBold})
		case code == 2:
			out = append(out, CharAttribute{Attr: CharAttributeDim})
		case code == 3:
			out = append(out, CharAttribute{Attr: CharAttributeItalic})
		case code == 4:
			out = append(out, CharAttribute{Attr: underlineSubMode(p)})
		case code == 5:
			out = append(out, CharAttribute{Attr: CharAttributeBlinkSlow})
		case code == 6:
			out = append(out, CharAttribute{Attr: CharAttributeBlinkFast})
		case code == 7:
			out = append(out, CharAttribute{Attr: CharAttributeReverse})
		case code == 8:
			out = append(out, CharAttribute{Attr: CharAttributeHidden})
		case code == 9:
			out = append(out, CharAttribute{Attr: CharAttributeStrike})
		case code == 21:
			out = append(out, CharAttribute{Attr: CharAttributeDoubleUnderline})
		case code == 22:
			out = append(out, CharAttribute{Attr: CharAttributeCancelBoldDim})
		case code == 23:
			out = append(out, CharAttribute{Attr: CharAttributeCancelItalic})
		case code == 24:
			out = append(out, CharAttribute{Attr: CharAttributeCancelUnderline})
		case code == 25:
			out = append(out, CharAttribute{Attr: CharAttributeCancelBlink})
		case code == 27:
			out = append(out, CharAttribute{Attr: CharAttributeCancelReverse})
		case code == 28:
			out = append(out, CharAttribute{Attr: CharAttributeCancelHidden})
		case code == 29:
			out = append(out, CharAttribute{Attr: CharAttributeCancelStrike})
		case code >= 30 && code <= 37:
			out = append(out, CharAttribute{Attr: CharAttributeForeground, Color: Indexed(uint8(code - 30))})
		case code == 38:
			c, consumed := parseExtendedColor(p, params, i)
			i += consumed
			out = append(out, CharAttribute{Attr: CharAttributeForeground, Color: c})
		case code == 39:
			out = append(out, CharAttribute{Attr: CharAttributeForeground, Color: DefaultColor})
		case code >= 40 && code <= 47:
			out = append(out, CharAttribute{Attr: CharAttributeBackground, Color: Indexed(uint8(code - 40))})
		case code == 48:
			c, consumed := parseExtendedColor(p, params, i)
			i += consumed
			out = append(out, CharAttribute{Attr: CharAttributeBackground, Color: c})
		case code == 49:
			out = append(out, CharAttribute{Attr: CharAttributeBackground, Color: DefaultColor})
		case code == 58:
			c, consumed := parseExtendedColor(p, params, i)
			i += consumed
			out = append(out, CharAttribute{Attr: CharAttributeUnderlineColor, Color: c})
		case code == 59:
			out = append(out, CharAttribute{Attr: CharAttributeUnderlineColorReset})
		case code >= 90 && code <= 97:
			out = append(out, CharAttribute{Attr: CharAttributeForeground, Color: Indexed(uint8(code-90) + 8)})
		case code >= 100 && code <= 107:
			out = append(out, CharAttribute{Attr: CharAttributeBackground, Color: Indexed(uint8(code-100) + 8)})
		}
	}
	return out
}

// underlineSubMode resolves SGR 4's colon sub-parameter (4:0 none, 4:1
// single, 4:2 double, 4:3 curly, 4:4 dotted, 4:5 dashed). Bare "4" (no
// sub-parameter) means single underline.
func underlineSubMode(p []uint16) CharAttributeKind {
	if len(p) < 2 {
		return CharAttributeUnderline
	}
	switch p[1] {
	case 0:
		return CharAttributeCancelUnderline
	case 2:
		return CharAttributeDoubleUnderline
	case 3:
		return CharAttributeCurlyUnderline
	case 4:
		return CharAttributeDottedUnderline
	case 5:
		return CharAttributeDashedUnderline
	default:
		return CharAttributeUnderline
	}
}

// parseExtendedColor resolves the color argument of an SGR 38/48/58
// sequence. p is the top-level parameter carrying the 38/48/58 code itself;
// params/idx give access to following top-level parameters for the
// semicolon form. Returns the resolved color and how many additional
// top-level parameters (beyond p) were consumed.
func parseExtendedColor(p []uint16, params [][]uint16, idx int) (Color, int) {
	if len(p) >= 2 {
		switch p[1] {
		case 5:
			if len(p) >= 3 {
				return Indexed(uint8(p[2])), 0
			}
		case 2:
			vals := p[2:]
			if len(vals) == 4 {
				// Colon form with an (ignored) colorspace id: 38:2:cs:r:g:b.
				vals = vals[1:]
			}
			if len(vals) >= 3 {
				return RGB(uint8(vals[0]), uint8(vals[1]), uint8(vals[2])), 0
			}
		}
		return DefaultColor, 0
	}

	if idx >= len(params) || len(params[idx]) == 0 {
		return DefaultColor, 0
	}

	switch params[idx][0] {
	case 5:
		if idx+1 < len(params) && len(params[idx+1]) > 0 {
			return Indexed(uint8(params[idx+1][0])), 2
		}
		return DefaultColor, 1
	case 2:
		if idx+3 < len(params) {
			var r, g, b uint8
			if len(params[idx+1]) > 0 {
				r = uint8(params[idx+1][0])
			}
			if len(params[idx+2]) > 0 {
				g = uint8(params[idx+2][0])
			}
			if len(params[idx+3]) > 0 {
				b = uint8(params[idx+3][0])
			}
			return RGB(r, g, b), 4
		}
		return DefaultColor, 1
	default:
		return DefaultColor, 1
	}
}
