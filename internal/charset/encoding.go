// Package charset names the encodings the tool understands and binds each
// of them to its golang.org/x/text codec.
package charset

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding identifies a supported character encoding.
type Encoding int

const (
	Unknown Encoding = iota
	UTF8
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
	USASCII
	GBK
	GB18030
	HZGB2312
	Big5
	ShiftJIS
	EUCJP
	ISO2022JP
	EUCKR
	Windows1252
	ISO88591
	ISO885915
	Windows1250
	ISO88592
	Windows1251
	KOI8R
	ISO88595
	IBM866
	Windows1253
	ISO88597

	numEncodings
)

// Family groups encodings by how they are recognized.
type Family int

const (
	FamilyNone Family = iota
	FamilyUnicode
	FamilyCJK
	FamilyEscape
	FamilySingleByte
)

var familyNames = [...]string{
	FamilyNone:       "none",
	FamilyUnicode:    "unicode",
	FamilyCJK:        "cjk",
	FamilyEscape:     "escape",
	FamilySingleByte: "single-byte",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return "none"
	}
	return familyNames[f]
}

type entry struct {
	name    string
	aliases []string
	family  Family
	// asciiCompatible means bytes 0x00-0x7F decode to themselves and
	// every ASCII rune encodes to a single identical byte.
	asciiCompatible bool
	bom             []byte
	codec           encoding.Encoding
}

var registry = [numEncodings]entry{
	Unknown: {name: "unknown"},
	UTF8: {
		name: "UTF-8", aliases: []string{"utf8", "unicode-1-1-utf-8"},
		family: FamilyUnicode, asciiCompatible: true,
		bom:   []byte{0xEF, 0xBB, 0xBF},
		codec: unicode.UTF8,
	},
	UTF16LE: {
		name: "UTF-16LE", aliases: []string{"utf16le", "utf-16"},
		family: FamilyUnicode,
		bom:    []byte{0xFF, 0xFE},
		codec:  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	},
	UTF16BE: {
		name: "UTF-16BE", aliases: []string{"utf16be"},
		family: FamilyUnicode,
		bom:    []byte{0xFE, 0xFF},
		codec:  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	},
	UTF32LE: {
		name: "UTF-32LE", aliases: []string{"utf32le", "utf-32"},
		family: FamilyUnicode,
		bom:    []byte{0xFF, 0xFE, 0x00, 0x00},
		codec:  utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	},
	UTF32BE: {
		name: "UTF-32BE", aliases: []string{"utf32be"},
		family: FamilyUnicode,
		bom:    []byte{0x00, 0x00, 0xFE, 0xFF},
		codec:  utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	},
	USASCII: {
		name: "US-ASCII", aliases: []string{"ascii", "us", "iso646-us", "ansi_x3.4-1968", "cp367"},
		family: FamilyUnicode, asciiCompatible: true,
	},
	GBK: {
		name: "GBK", aliases: []string{"gb2312", "cp936", "windows-936", "euc-cn", "x-gbk", "csgb2312"},
		family: FamilyCJK, asciiCompatible: true,
		codec: simplifiedchinese.GBK,
	},
	GB18030: {
		name: "GB18030", aliases: []string{"gb-18030"},
		family: FamilyCJK, asciiCompatible: true,
		codec: simplifiedchinese.GB18030,
	},
	HZGB2312: {
		name: "HZ-GB-2312", aliases: []string{"hz", "hz-gb2312"},
		family: FamilyEscape,
		codec:  simplifiedchinese.HZGB2312,
	},
	Big5: {
		name: "Big5", aliases: []string{"big-5", "cp950", "csbig5", "x-x-big5"},
		family: FamilyCJK, asciiCompatible: true,
		codec: traditionalchinese.Big5,
	},
	ShiftJIS: {
		name: "Shift_JIS", aliases: []string{"sjis", "shift-jis", "ms_kanji", "cp932", "windows-31j", "x-sjis"},
		family: FamilyCJK, asciiCompatible: true,
		codec: japanese.ShiftJIS,
	},
	EUCJP: {
		name: "EUC-JP", aliases: []string{"eucjp", "x-euc-jp"},
		family: FamilyCJK, asciiCompatible: true,
		codec: japanese.EUCJP,
	},
	ISO2022JP: {
		name: "ISO-2022-JP", aliases: []string{"csiso2022jp", "iso2022jp"},
		family: FamilyEscape, asciiCompatible: true,
		codec: japanese.ISO2022JP,
	},
	EUCKR: {
		name: "EUC-KR", aliases: []string{"euckr", "cp949", "ks_c_5601-1987", "uhc", "windows-949"},
		family: FamilyCJK, asciiCompatible: true,
		codec: korean.EUCKR,
	},
	Windows1252: {
		name: "windows-1252", aliases: []string{"cp1252", "x-cp1252"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.Windows1252,
	},
	ISO88591: {
		name: "ISO-8859-1", aliases: []string{"latin1", "latin-1", "l1", "cp819", "iso8859-1", "iso_8859-1"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.ISO8859_1,
	},
	ISO885915: {
		name: "ISO-8859-15", aliases: []string{"latin9", "latin-9", "iso8859-15"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.ISO8859_15,
	},
	Windows1250: {
		name: "windows-1250", aliases: []string{"cp1250", "x-cp1250"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.Windows1250,
	},
	ISO88592: {
		name: "ISO-8859-2", aliases: []string{"latin2", "latin-2", "l2", "iso8859-2"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.ISO8859_2,
	},
	Windows1251: {
		name: "windows-1251", aliases: []string{"cp1251", "x-cp1251"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.Windows1251,
	},
	KOI8R: {
		name: "KOI8-R", aliases: []string{"koi8r", "koi8", "cskoi8r"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.KOI8R,
	},
	ISO88595: {
		name: "ISO-8859-5", aliases: []string{"cyrillic", "iso8859-5"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.ISO8859_5,
	},
	IBM866: {
		name: "IBM866", aliases: []string{"cp866", "866", "csibm866"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.CodePage866,
	},
	Windows1253: {
		name: "windows-1253", aliases: []string{"cp1253", "x-cp1253"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.Windows1253,
	},
	ISO88597: {
		name: "ISO-8859-7", aliases: []string{"greek", "iso8859-7"},
		family: FamilySingleByte, asciiCompatible: true,
		codec: charmap.ISO8859_7,
	},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Encoding {
	idx := make(map[string]Encoding)
	for e := UTF8; e < numEncodings; e++ {
		idx[normalize(registry[e].name)] = e
		for _, a := range registry[e].aliases {
			idx[normalize(a)] = e
		}
	}
	return idx
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves a canonical name or alias to its Encoding.
func Lookup(name string) (Encoding, error) {
	if e, ok := aliasIndex[normalize(name)]; ok {
		return e, nil
	}
	return Unknown, &UnsupportedEncodingError{Name: name}
}

// MustLookup is like Lookup but panics on unknown names. Intended for
// package-level tables and tests.
func MustLookup(name string) Encoding {
	e, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return e
}

// All returns every supported encoding in registry order.
func All() []Encoding {
	out := make([]Encoding, 0, numEncodings-1)
	for e := UTF8; e < numEncodings; e++ {
		out = append(out, e)
	}
	return out
}

// Valid reports whether e is a registry member other than Unknown.
func (e Encoding) Valid() bool {
	return e > Unknown && e < numEncodings
}

// String returns the canonical name.
func (e Encoding) String() string {
	if e < Unknown || e >= numEncodings {
		return "invalid"
	}
	return registry[e].name
}

// Aliases returns the recognized alternative names of e.
func (e Encoding) Aliases() []string {
	if !e.Valid() {
		return nil
	}
	return append([]string(nil), registry[e].aliases...)
}

// Family reports how e is recognized by the detector.
func (e Encoding) Family() Family {
	if !e.Valid() {
		return FamilyNone
	}
	return registry[e].family
}

// ASCIICompatible reports whether pure 7-bit text is already valid in e
// without any change of bytes.
func (e Encoding) ASCIICompatible() bool {
	return e.Valid() && registry[e].asciiCompatible
}

// BOM returns the byte-order mark of e, or nil when e has none.
func (e Encoding) BOM() []byte {
	if !e.Valid() {
		return nil
	}
	return registry[e].bom
}

// StripBOM returns data without a leading byte-order mark of e.
func StripBOM(data []byte, e Encoding) []byte {
	if bom := e.BOM(); len(bom) > 0 && bytes.HasPrefix(data, bom) {
		return data[len(bom):]
	}
	return data
}

// Codec returns the x/text codec backing e. US-ASCII has no codec of its
// own and returns nil; callers handle it as a restricted UTF-8.
func (e Encoding) Codec() encoding.Encoding {
	if !e.Valid() {
		return nil
	}
	return registry[e].codec
}

// Charmap returns the single-byte table for e, or nil when e is not a
// single-byte code page.
func (e Encoding) Charmap() *charmap.Charmap {
	if e.Family() != FamilySingleByte {
		return nil
	}
	cm, _ := registry[e].codec.(*charmap.Charmap)
	return cm
}

// MarshalText renders the canonical name.
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses a canonical name or alias.
func (e *Encoding) UnmarshalText(text []byte) error {
	v, err := Lookup(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
