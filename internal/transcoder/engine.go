// Package transcoder re-encodes byte buffers between the encodings of the
// charset registry, always going through UTF-8.
package transcoder

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/greatbody/convert-encoding/internal/charset"
)

// Status tells the caller whether Convert produced new bytes.
type Status int

const (
	StatusConverted Status = iota
	// StatusSameEncoding means the input is already valid in the target
	// encoding, either because source and target are the same encoding or
	// because re-encoding reproduced the input byte for byte. The input was
	// returned unchanged.
	StatusSameEncoding
	// StatusUnknownSource means the source encoding is Unknown and the input
	// was returned unchanged.
	StatusUnknownSource
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSameEncoding:
		return "same-encoding"
	case StatusUnknownSource:
		return "unknown-source"
	}
	return "invalid"
}

// Result is the outcome of a conversion.
type Result struct {
	Data   []byte
	Status Status
}

// Convert re-encodes data from one encoding into another. A leading
// byte-order mark of the source is dropped and none is written.
//
// Characters without a representation in to fail the conversion with an
// *UnmappableCharacterError; nothing is substituted.
func Convert(data []byte, from, to charset.Encoding) (Result, error) {
	if from == charset.Unknown {
		return Result{Data: data, Status: StatusUnknownSource}, nil
	}
	if !from.Valid() {
		return Result{}, &charset.UnsupportedEncodingError{Name: from.String()}
	}
	if !to.Valid() {
		return Result{}, &charset.UnsupportedEncodingError{Name: to.String()}
	}
	if from == to || (from == charset.USASCII && to.ASCIICompatible()) {
		return Result{Data: data, Status: StatusSameEncoding}, nil
	}

	text, err := NormalizeToUTF8(data, from)
	if err != nil {
		return Result{}, err
	}
	out, err := ConvertFromUTF8(text, to)
	if err != nil {
		return Result{}, err
	}
	// Latin-1 text read as windows-1252, or GB18030 text read as GBK.
	if bytes.Equal(out, data) {
		return Result{Data: data, Status: StatusSameEncoding}, nil
	}
	return Result{Data: out, Status: StatusConverted}, nil
}

// ConvertNamed is Convert with encodings given by name or alias.
func ConvertNamed(data []byte, from, to string) (Result, error) {
	src, err := charset.Lookup(from)
	if err != nil {
		return Result{}, err
	}
	dst, err := charset.Lookup(to)
	if err != nil {
		return Result{}, err
	}
	return Convert(data, src, dst)
}

// NormalizeToUTF8 decodes data in encoding from into UTF-8, without BOM.
// Bytes that are not valid in from fail with *InvalidSequenceError.
func NormalizeToUTF8(data []byte, from charset.Encoding) ([]byte, error) {
	data = charset.StripBOM(data, from)
	switch from {
	case charset.USASCII:
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return nil, &InvalidSequenceError{Encoding: from, Count: 1, Offset: i}
			}
		}
		return data, nil
	case charset.UTF8:
		if off := invalidUTF8Offset(data); off >= 0 {
			return nil, &InvalidSequenceError{Encoding: from, Count: 1, Offset: off}
		}
		return data, nil
	}

	codec := from.Codec()
	if codec == nil {
		return nil, &charset.UnsupportedEncodingError{Name: from.String()}
	}
	reader := transform.NewReader(bytes.NewReader(data), codec.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, &InvalidSequenceError{Encoding: from, Offset: -1, Err: err}
	}
	// Decoders substitute U+FFFD for malformed input; any replacement rune
	// beyond those literally present in the source marks an invalid sequence.
	if n := countReplacements(out) - literalReplacements(data, from); n > 0 {
		return nil, &InvalidSequenceError{Encoding: from, Count: n, Offset: -1}
	}
	return out, nil
}

// ConvertFromUTF8 encodes UTF-8 text into to.
func ConvertFromUTF8(text []byte, to charset.Encoding) ([]byte, error) {
	switch to {
	case charset.UTF8:
		return text, nil
	case charset.USASCII:
		for i, b := range text {
			if b >= utf8.RuneSelf {
				r, _ := utf8.DecodeRune(text[i:])
				return nil, &UnmappableCharacterError{Rune: r, Offset: i, Encoding: to}
			}
		}
		return text, nil
	}

	codec := to.Codec()
	if codec == nil {
		return nil, &charset.UnsupportedEncodingError{Name: to.String()}
	}
	reader := transform.NewReader(bytes.NewReader(text), codec.NewEncoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		if uerr := firstUnmappable(text, to); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}
	return out, nil
}

// firstUnmappable locates the first rune of text that to cannot encode.
func firstUnmappable(text []byte, to charset.Encoding) *UnmappableCharacterError {
	for i, r := range string(text) {
		if _, err := to.Codec().NewEncoder().String(string(r)); err != nil {
			return &UnmappableCharacterError{Rune: r, Offset: i, Encoding: to}
		}
	}
	return nil
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

var replacementUTF8 = []byte(string(utf8.RuneError))

func countReplacements(text []byte) int {
	return bytes.Count(text, replacementUTF8)
}

// literalReplacements counts U+FFFD characters encoded in the source
// itself, which decode to U+FFFD legitimately.
func literalReplacements(data []byte, from charset.Encoding) int {
	enc, err := from.Codec().NewEncoder().Bytes(replacementUTF8)
	if err != nil || len(enc) == 0 {
		return 0
	}
	return bytes.Count(data, enc)
}
