package detector

import "github.com/greatbody/convert-encoding/internal/charset"

// event is what a grammar reports after consuming one byte.
type event int

const (
	evNone    event = iota // byte consumed, sequence still open or plain ASCII
	evChar                 // a multi-byte character completed
	evCommon               // a multi-byte character in the family's frequent block completed
	evIllegal              // byte sequence not allowed by the grammar
)

// grammar is a byte-level state machine for one encoding family.
type grammar interface {
	next(b byte) event
	// pending reports an unfinished sequence.
	pending() bool
	encoding() charset.Encoding
}

// validator counts evidence for one grammar. A single illegal sequence
// eliminates the family; after that the grammar is no longer driven.
type validator struct {
	g       grammar
	chars   int64
	common  int64
	illegal int64
}

func newValidator(g grammar) *validator {
	return &validator{g: g}
}

func (v *validator) step(b byte) {
	if v.illegal > 0 {
		return
	}
	switch v.g.next(b) {
	case evChar:
		v.chars++
	case evCommon:
		v.chars++
		v.common++
	case evIllegal:
		v.illegal++
	}
}

func (v *validator) finish() {
	if v.illegal == 0 && v.g.pending() {
		v.illegal++
	}
}

func (v *validator) alive() bool {
	return v.illegal == 0
}

// candidate reports whether the family survived and saw at least one
// multi-byte character.
func (v *validator) candidate() bool {
	return v.alive() && v.chars > 0
}

// commonRatio is the share of multi-byte characters that fell in the
// family's frequent block.
func (v *validator) commonRatio() float64 {
	if v.chars == 0 {
		return 0
	}
	return float64(v.common) / float64(v.chars)
}

// utf8Grammar follows RFC 3629: overlong forms, surrogates and code points
// above U+10FFFF are illegal.
type utf8Grammar struct {
	need   int
	lo, hi byte
}

func (g *utf8Grammar) next(b byte) event {
	if g.need > 0 {
		if b < g.lo || b > g.hi {
			return evIllegal
		}
		g.lo, g.hi = 0x80, 0xBF
		g.need--
		if g.need == 0 {
			return evChar
		}
		return evNone
	}
	switch {
	case b < 0x80:
		return evNone
	case b >= 0xC2 && b <= 0xDF:
		g.need, g.lo, g.hi = 1, 0x80, 0xBF
	case b == 0xE0:
		g.need, g.lo, g.hi = 2, 0xA0, 0xBF
	case b >= 0xE1 && b <= 0xEC, b == 0xEE, b == 0xEF:
		g.need, g.lo, g.hi = 2, 0x80, 0xBF
	case b == 0xED:
		g.need, g.lo, g.hi = 2, 0x80, 0x9F
	case b == 0xF0:
		g.need, g.lo, g.hi = 3, 0x90, 0xBF
	case b >= 0xF1 && b <= 0xF3:
		g.need, g.lo, g.hi = 3, 0x80, 0xBF
	case b == 0xF4:
		g.need, g.lo, g.hi = 3, 0x80, 0x8F
	default:
		return evIllegal
	}
	return evNone
}

func (g *utf8Grammar) pending() bool { return g.need > 0 }

func (g *utf8Grammar) encoding() charset.Encoding { return charset.UTF8 }

// gbGrammar accepts GBK two-byte and GB18030 four-byte sequences. The
// frequent block is GB2312 level 1 hanzi (B0A1-D7FE).
type gbGrammar struct {
	state    int
	lead     byte
	fourByte bool
}

func (g *gbGrammar) next(b byte) event {
	switch g.state {
	case 0:
		switch {
		case b < 0x80:
			return evNone
		case b == 0x80 || b == 0xFF:
			return evIllegal
		}
		g.lead = b
		g.state = 1
		return evNone
	case 1:
		switch {
		case b >= 0x30 && b <= 0x39:
			g.state = 2
			return evNone
		case (b >= 0x40 && b <= 0x7E) || (b >= 0x80 && b <= 0xFE):
			g.state = 0
			if g.lead >= 0xB0 && g.lead <= 0xD7 && b >= 0xA1 {
				return evCommon
			}
			return evChar
		}
		return evIllegal
	case 2:
		if b >= 0x81 && b <= 0xFE {
			g.state = 3
			return evNone
		}
		return evIllegal
	default:
		if b >= 0x30 && b <= 0x39 {
			g.state = 0
			g.fourByte = true
			return evChar
		}
		return evIllegal
	}
}

func (g *gbGrammar) pending() bool { return g.state != 0 }

func (g *gbGrammar) encoding() charset.Encoding {
	if g.fourByte {
		return charset.GB18030
	}
	return charset.GBK
}

// big5Grammar's frequent block is the common hanzi range A440-C67E.
type big5Grammar struct {
	lead byte
}

func (g *big5Grammar) next(b byte) event {
	if g.lead == 0 {
		switch {
		case b < 0x80:
			return evNone
		case b == 0x80 || b == 0xFF:
			return evIllegal
		}
		g.lead = b
		return evNone
	}
	lead := g.lead
	g.lead = 0
	if (b >= 0x40 && b <= 0x7E) || (b >= 0xA1 && b <= 0xFE) {
		if (lead >= 0xA4 && lead <= 0xC5) || (lead == 0xC6 && b <= 0x7E) {
			return evCommon
		}
		return evChar
	}
	return evIllegal
}

func (g *big5Grammar) pending() bool { return g.lead != 0 }

func (g *big5Grammar) encoding() charset.Encoding { return charset.Big5 }

// sjisGrammar accepts single-byte half-width katakana and JIS X 0208 double
// bytes. Leads F0-FC (user-defined area) are rejected. The frequent block is
// hiragana/katakana (leads 82-83) and level 1 kanji (leads 88-9F).
type sjisGrammar struct {
	lead byte
}

func (g *sjisGrammar) next(b byte) event {
	if g.lead == 0 {
		switch {
		case b < 0x80:
			return evNone
		case b >= 0xA1 && b <= 0xDF:
			return evNone
		case (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xEF):
			g.lead = b
			return evNone
		}
		return evIllegal
	}
	lead := g.lead
	g.lead = 0
	if (b >= 0x40 && b <= 0x7E) || (b >= 0x80 && b <= 0xFC) {
		if lead == 0x82 || lead == 0x83 || (lead >= 0x88 && lead <= 0x9F) {
			return evCommon
		}
		return evChar
	}
	return evIllegal
}

func (g *sjisGrammar) pending() bool { return g.lead != 0 }

func (g *sjisGrammar) encoding() charset.Encoding { return charset.ShiftJIS }

// eucJPGrammar accepts JIS X 0208 pairs, SS2 half-width katakana and SS3
// JIS X 0212 triples. The frequent block is kana rows A4-A5 and level 1
// kanji rows B0-CF.
type eucJPGrammar struct {
	state int
	lead  byte
}

func (g *eucJPGrammar) next(b byte) event {
	switch g.state {
	case 0:
		switch {
		case b < 0x80:
			return evNone
		case b == 0x8E:
			g.state = 1
		case b == 0x8F:
			g.state = 2
		case b >= 0xA1 && b <= 0xFE:
			g.lead = b
			g.state = 4
		default:
			return evIllegal
		}
		return evNone
	case 1:
		g.state = 0
		if b >= 0xA1 && b <= 0xDF {
			return evChar
		}
		return evIllegal
	case 2:
		if b >= 0xA1 && b <= 0xFE {
			g.state = 3
			return evNone
		}
		return evIllegal
	case 3:
		g.state = 0
		if b >= 0xA1 && b <= 0xFE {
			return evChar
		}
		return evIllegal
	default:
		g.state = 0
		if b < 0xA1 || b > 0xFE {
			return evIllegal
		}
		if g.lead == 0xA4 || g.lead == 0xA5 || (g.lead >= 0xB0 && g.lead <= 0xCF) {
			return evCommon
		}
		return evChar
	}
}

func (g *eucJPGrammar) pending() bool { return g.state != 0 }

func (g *eucJPGrammar) encoding() charset.Encoding { return charset.EUCJP }

// eucKRGrammar accepts KS X 1001 pairs. The frequent block is the Hangul
// syllable rows B0-C8.
type eucKRGrammar struct {
	lead byte
}

func (g *eucKRGrammar) next(b byte) event {
	if g.lead == 0 {
		switch {
		case b < 0x80:
			return evNone
		case b >= 0xA1 && b <= 0xFE:
			g.lead = b
			return evNone
		}
		return evIllegal
	}
	lead := g.lead
	g.lead = 0
	if b < 0xA1 || b > 0xFE {
		return evIllegal
	}
	if lead >= 0xB0 && lead <= 0xC8 {
		return evCommon
	}
	return evChar
}

func (g *eucKRGrammar) pending() bool { return g.lead != 0 }

func (g *eucKRGrammar) encoding() charset.Encoding { return charset.EUCKR }

// utf16Grammar validates surrogate pairing. U+0000 is illegal so that
// NUL-padded binaries do not pass as text.
type utf16Grammar struct {
	bigEndian bool
	half      bool
	first     byte
	needLow   bool
}

func (g *utf16Grammar) next(b byte) event {
	if !g.half {
		g.first = b
		g.half = true
		return evNone
	}
	g.half = false
	var u uint16
	if g.bigEndian {
		u = uint16(g.first)<<8 | uint16(b)
	} else {
		u = uint16(b)<<8 | uint16(g.first)
	}
	switch {
	case g.needLow:
		g.needLow = false
		if u < 0xDC00 || u > 0xDFFF {
			return evIllegal
		}
		return evChar
	case u == 0:
		return evIllegal
	case u >= 0xD800 && u <= 0xDBFF:
		g.needLow = true
		return evNone
	case u >= 0xDC00 && u <= 0xDFFF:
		return evIllegal
	}
	return evChar
}

func (g *utf16Grammar) pending() bool { return g.half || g.needLow }

func (g *utf16Grammar) encoding() charset.Encoding {
	if g.bigEndian {
		return charset.UTF16BE
	}
	return charset.UTF16LE
}

// utf32Grammar rejects surrogates, U+0000 and values above U+10FFFF.
type utf32Grammar struct {
	bigEndian bool
	n         int
	buf       [4]byte
}

func (g *utf32Grammar) next(b byte) event {
	g.buf[g.n] = b
	g.n++
	if g.n < 4 {
		return evNone
	}
	g.n = 0
	var u uint32
	if g.bigEndian {
		u = uint32(g.buf[0])<<24 | uint32(g.buf[1])<<16 | uint32(g.buf[2])<<8 | uint32(g.buf[3])
	} else {
		u = uint32(g.buf[3])<<24 | uint32(g.buf[2])<<16 | uint32(g.buf[1])<<8 | uint32(g.buf[0])
	}
	if u == 0 || u > 0x10FFFF || (u >= 0xD800 && u <= 0xDFFF) {
		return evIllegal
	}
	return evChar
}

func (g *utf32Grammar) pending() bool { return g.n != 0 }

func (g *utf32Grammar) encoding() charset.Encoding {
	if g.bigEndian {
		return charset.UTF32BE
	}
	return charset.UTF32LE
}
