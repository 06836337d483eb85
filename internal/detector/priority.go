package detector

import "github.com/greatbody/convert-encoding/internal/charset"

// DefaultPriority breaks exact confidence ties. Encodings common on the
// desktops this tool targets come first.
var DefaultPriority = []charset.Encoding{
	charset.UTF8,
	charset.USASCII,
	charset.GBK,
	charset.GB18030,
	charset.Big5,
	charset.ShiftJIS,
	charset.EUCJP,
	charset.EUCKR,
	charset.ISO2022JP,
	charset.HZGB2312,
	charset.UTF16LE,
	charset.UTF16BE,
	charset.UTF32LE,
	charset.UTF32BE,
	charset.Windows1252,
	charset.ISO88591,
	charset.ISO885915,
	charset.Windows1250,
	charset.ISO88592,
	charset.Windows1251,
	charset.KOI8R,
	charset.ISO88595,
	charset.IBM866,
	charset.Windows1253,
	charset.ISO88597,
}

// Priority returns the effective tie-break order: prefer first, in the
// given order and without duplicates, then the rest of DefaultPriority.
func Priority(prefer []charset.Encoding) []charset.Encoding {
	out := make([]charset.Encoding, 0, len(DefaultPriority))
	seen := make(map[charset.Encoding]bool, len(DefaultPriority))
	for _, list := range [][]charset.Encoding{prefer, DefaultPriority} {
		for _, e := range list {
			if !e.Valid() || seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func rankTable(prefer []charset.Encoding) map[charset.Encoding]int {
	order := Priority(prefer)
	rank := make(map[charset.Encoding]int, len(order))
	for i, e := range order {
		rank[e] = i
	}
	return rank
}
