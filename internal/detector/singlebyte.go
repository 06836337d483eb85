package detector

import (
	"maps"
	"math"
	"slices"
	"unicode"

	"github.com/greatbody/convert-encoding/internal/charset"
)

const (
	// maxIllegalRatio eliminates a code page when more than this share of
	// its high bytes are undefined or C1 controls.
	maxIllegalRatio = 0.10

	unigramWeight = 0.6
	bigramWeight  = 0.4
)

// byteStats holds the frequency tables shared by every code page scorer.
// Only pairs of two high bytes are kept; ASCII bytes read the same in every
// supported code page.
type byteStats struct {
	counts [256]int64
	pairs  [128][128]uint32
	prev   int
}

func (s *byteStats) add(b byte) {
	s.counts[b]++
	if b >= 0x80 && s.prev >= 0x80 {
		s.pairs[s.prev-0x80][b-0x80]++
	}
	s.prev = int(b)
}

// codePage projects the language profiles through one single-byte table.
type codePage struct {
	enc      charset.Encoding
	decode   [128]rune
	illegal  [128]bool
	profiles []*languageProfile
}

var codePages = buildCodePages()

func buildCodePages() []*codePage {
	var out []*codePage
	for _, e := range DefaultPriority {
		cm := e.Charmap()
		if cm == nil {
			continue
		}
		cp := &codePage{enc: e, profiles: codePageProfiles[e]}
		for i := range cp.decode {
			r := cm.DecodeByte(byte(0x80 + i))
			cp.decode[i] = r
			cp.illegal[i] = r == unicode.ReplacementChar || (r >= 0x80 && r <= 0x9F)
		}
		out = append(out, cp)
	}
	return out
}

// score returns the confidence of the code page for s, or 0 when the code
// page is eliminated or has nothing to say.
func (cp *codePage) score(s *byteStats) float64 {
	var high, illegal int64
	observed := make(map[rune]float64)
	for i := 0; i < 128; i++ {
		n := s.counts[0x80+i]
		if n == 0 {
			continue
		}
		high += n
		if cp.illegal[i] {
			illegal += n
			continue
		}
		r := cp.decode[i]
		if unicode.IsSpace(r) {
			continue
		}
		observed[unicode.ToLower(r)] += float64(n)
	}
	if high == 0 {
		return 0
	}
	illegalRatio := float64(illegal) / float64(high)
	if illegalRatio > maxIllegalRatio {
		return 0
	}
	casing := cp.casePlausibility(s)

	best := 0.0
	for _, p := range cp.profiles {
		uni := cosine(observed, p.letters)
		bi, ok := cp.bigramCoverage(s, p)
		if !ok {
			bi = uni
		}
		conf := (unigramWeight*uni + bigramWeight*bi) * casing * (1 - illegalRatio)
		best = math.Max(best, conf)
	}
	return best
}

// cosine sums in rune order so that code pages projecting the same
// observations tie exactly.
func cosine(observed map[rune]float64, expected map[rune]float64) float64 {
	var dot, on, en float64
	for _, r := range slices.Sorted(maps.Keys(observed)) {
		v := observed[r]
		on += v * v
		dot += v * expected[r]
	}
	for _, r := range slices.Sorted(maps.Keys(expected)) {
		en += expected[r] * expected[r]
	}
	if on == 0 || en == 0 {
		return 0
	}
	return dot / (math.Sqrt(on) * math.Sqrt(en))
}

// bigramCoverage compares the share of letter pairs found in the profile's
// bigram list with the share typical text reaches. It reports false when
// the profile has no bigrams or the input no letter pairs.
func (cp *codePage) bigramCoverage(s *byteStats, p *languageProfile) (float64, bool) {
	if len(p.bigrams) == 0 || p.coverage == 0 {
		return 0, false
	}
	var pairs, hits float64
	for i := 0; i < 128; i++ {
		for j := 0; j < 128; j++ {
			n := s.pairs[i][j]
			if n == 0 || cp.illegal[i] || cp.illegal[j] {
				continue
			}
			a, b := cp.decode[i], cp.decode[j]
			if !unicode.IsLetter(a) || !unicode.IsLetter(b) {
				continue
			}
			pairs += float64(n)
			if _, ok := p.bigrams[[2]rune{unicode.ToLower(a), unicode.ToLower(b)}]; ok {
				hits += float64(n)
			}
		}
	}
	if pairs == 0 {
		return 0, false
	}
	return math.Min(1, hits/pairs/p.coverage), true
}

// casePlausibility penalizes letter pairs that rarely occur in real text
// under this table: a lowercase letter followed by an uppercase one, or two
// adjacent letters from different scripts.
func (cp *codePage) casePlausibility(s *byteStats) float64 {
	var pairs, odd float64
	for i := 0; i < 128; i++ {
		for j := 0; j < 128; j++ {
			n := s.pairs[i][j]
			if n == 0 || cp.illegal[i] || cp.illegal[j] {
				continue
			}
			a, b := cp.decode[i], cp.decode[j]
			if !unicode.IsLetter(a) || !unicode.IsLetter(b) {
				continue
			}
			pairs += float64(n)
			if (unicode.IsLower(a) && unicode.IsUpper(b)) || script(a) != script(b) {
				odd += float64(n)
			}
		}
	}
	if pairs == 0 {
		return 1
	}
	return 1 - odd/pairs
}

func script(r rune) int {
	switch {
	case unicode.Is(unicode.Latin, r):
		return 1
	case unicode.Is(unicode.Cyrillic, r):
		return 2
	case unicode.Is(unicode.Greek, r):
		return 3
	}
	return 0
}
