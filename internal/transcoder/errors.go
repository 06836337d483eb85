package transcoder

import (
	"fmt"

	"github.com/greatbody/convert-encoding/internal/charset"
)

// UnmappableCharacterError reports a character the target encoding cannot
// represent. Offset is the byte offset of the rune in the UTF-8 text.
type UnmappableCharacterError struct {
	Rune     rune
	Offset   int
	Encoding charset.Encoding
}

func (e *UnmappableCharacterError) Error() string {
	return fmt.Sprintf("character %U %q at offset %d has no representation in %s",
		e.Rune, e.Rune, e.Offset, e.Encoding)
}

// InvalidSequenceError reports source bytes that are malformed in the
// declared source encoding. Offset is -1 when the decoder does not expose
// the position.
type InvalidSequenceError struct {
	Encoding charset.Encoding
	Count    int
	Offset   int
	Err      error
}

func (e *InvalidSequenceError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("invalid %s input: %v", e.Encoding, e.Err)
	case e.Offset >= 0:
		return fmt.Sprintf("invalid %s sequence at offset %d", e.Encoding, e.Offset)
	}
	return fmt.Sprintf("%d invalid %s sequence(s)", e.Count, e.Encoding)
}

func (e *InvalidSequenceError) Unwrap() error {
	return e.Err
}
