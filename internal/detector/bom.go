package detector

import (
	"bytes"

	"github.com/greatbody/convert-encoding/internal/charset"
)

// bomOrder lists byte-order marks longest-ambiguity first: the UTF-32LE
// mark starts with the UTF-16LE one.
var bomOrder = []charset.Encoding{
	charset.UTF32LE,
	charset.UTF32BE,
	charset.UTF8,
	charset.UTF16LE,
	charset.UTF16BE,
}

func sniffBOM(head []byte) (charset.Encoding, bool) {
	for _, e := range bomOrder {
		if bytes.HasPrefix(head, e.BOM()) {
			return e, true
		}
	}
	return charset.Unknown, false
}
