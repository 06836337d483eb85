// Package detector guesses the character encoding of a byte stream.
//
// A Detector is fed one or more chunks of a single stream and finalized
// once. It checks for a byte-order mark, rules out binary content, runs
// strict validators for the multi-byte families and scores the single-byte
// code pages against compiled-in language statistics.
package detector

import (
	"errors"
	"fmt"

	"github.com/greatbody/convert-encoding/internal/charset"
)

var (
	// ErrFinalized is returned by Feed once Finalize has been called.
	ErrFinalized = errors.New("detector: feed after finalize")
	// ErrInconclusive marks a stream whose encoding could not be decided.
	ErrInconclusive = errors.New("detection inconclusive")
)

// DefaultMinConfidence is the lowest confidence reported as a match.
const DefaultMinConfidence = 0.2

const (
	// maxControlRatio is the share of disallowed C0 controls above which
	// input is treated as binary.
	maxControlRatio = 0.05
	// utf16MinZeroHigh and utf16MaxZeroLow bound the share of code units
	// with a zero high (resp. low) byte for NUL-bearing input to pass as
	// UTF-16.
	utf16MinZeroHigh = 0.30
	utf16MaxZeroLow  = 0.10

	validatedUTF8Confidence = 0.99
	utf32PatternConfidence  = 0.99
	escapeConfidence        = 0.95
	cjkBaseConfidence       = 0.30
	cjkCommonWeight         = 0.69
)

// Options tune a detection session.
type Options struct {
	// MinConfidence is the threshold below which the result is Unknown.
	// Zero disables it.
	MinConfidence float64
	// Prefer moves encodings to the front of the tie-break order.
	Prefer []charset.Encoding
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{MinConfidence: DefaultMinConfidence}
}

// Result is the outcome of a detection session.
type Result struct {
	Encoding   charset.Encoding
	Confidence float64
	// BOM is set when the encoding was decided by a byte-order mark.
	BOM    bool
	Reason string
	// Unsupported names a charset an engine recognized that has no
	// registry entry. Encoding is Unknown when it is set.
	Unsupported string
}

// Known reports whether an encoding was identified.
func (r Result) Known() bool {
	return r.Encoding.Valid()
}

// Err returns nil for a known result and an error wrapping ErrInconclusive
// otherwise.
func (r Result) Err() error {
	if r.Known() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInconclusive, r.Reason)
}

func unknown(reason string) Result {
	return Result{Encoding: charset.Unknown, Reason: reason}
}

// Detector accumulates evidence for one stream. It is not safe for
// concurrent use and must not be reused across streams.
type Detector struct {
	opts Options
	rank map[charset.Encoding]int

	head  [4]byte
	headN int

	total  int64
	high   int64
	nul    int64
	ctrl   int64
	zeroAt [4]int64

	utf8  *validator
	cjk   []*validator
	utf16 [2]*validator
	utf32 [2]*validator
	jis   iso2022JPProber
	hz    hzProber
	stats byteStats

	done   bool
	result Result
}

// New returns a Detector configured with opts. A zero MinConfidence
// accepts every candidate; use DefaultOptions for the usual threshold.
func New(opts Options) *Detector {
	d := &Detector{
		opts: opts,
		rank: rankTable(opts.Prefer),
		utf8: newValidator(&utf8Grammar{}),
		cjk: []*validator{
			newValidator(&gbGrammar{}),
			newValidator(&big5Grammar{}),
			newValidator(&sjisGrammar{}),
			newValidator(&eucJPGrammar{}),
			newValidator(&eucKRGrammar{}),
		},
		utf16: [2]*validator{
			newValidator(&utf16Grammar{}),
			newValidator(&utf16Grammar{bigEndian: true}),
		},
		utf32: [2]*validator{
			newValidator(&utf32Grammar{}),
			newValidator(&utf32Grammar{bigEndian: true}),
		},
		stats: byteStats{prev: -1},
	}
	return d
}

// Detect runs a one-shot session over data.
func Detect(data []byte, opts Options) Result {
	d := New(opts)
	_ = d.Feed(data)
	return d.Finalize()
}

// Screen runs the checks every engine applies before statistical
// detection: byte-order mark, empty input, NUL-bearing input and control
// byte density. ok is false when data is plain enough to be left to a
// statistical engine; otherwise r is the final verdict.
func Screen(data []byte, opts Options) (r Result, ok bool) {
	d := New(opts)
	_ = d.Feed(data)
	d.done = true
	d.finish()
	return d.screen()
}

// Feed adds chunk to the session. Results do not depend on how the stream
// is split into chunks.
func (d *Detector) Feed(chunk []byte) error {
	if d.done {
		return ErrFinalized
	}
	for _, b := range chunk {
		d.step(b)
	}
	return nil
}

func (d *Detector) step(b byte) {
	if d.headN < len(d.head) {
		d.head[d.headN] = b
		d.headN++
	}
	switch {
	case b == 0:
		d.nul++
		d.zeroAt[d.total%4]++
	case b < 0x20 && !allowedControl(b):
		d.ctrl++
	case b >= 0x80:
		d.high++
	}
	d.total++

	d.utf8.step(b)
	for _, v := range d.cjk {
		v.step(b)
	}
	d.utf16[0].step(b)
	d.utf16[1].step(b)
	d.utf32[0].step(b)
	d.utf32[1].step(b)
	d.jis.step(b)
	d.hz.step(b)
	d.stats.add(b)
}

// allowedControl lists the C0 controls that occur in plain text: BS, TAB,
// LF, VT, FF, CR, SUB and ESC.
func allowedControl(b byte) bool {
	switch b {
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x1A, 0x1B:
		return true
	}
	return false
}

// Finalize ends the session and returns the best guess. Further calls
// return the same Result.
func (d *Detector) Finalize() Result {
	if d.done {
		return d.result
	}
	d.done = true
	d.finish()
	d.result = d.decide()
	return d.result
}

func (d *Detector) finish() {
	d.utf8.finish()
	for _, v := range d.cjk {
		v.finish()
	}
	for _, v := range d.utf16 {
		v.finish()
	}
	for _, v := range d.utf32 {
		v.finish()
	}
	d.jis.finish()
	d.hz.finish()
}

func (d *Detector) screen() (Result, bool) {
	if enc, ok := sniffBOM(d.head[:d.headN]); ok {
		return Result{Encoding: enc, Confidence: 1, BOM: true, Reason: "byte order mark"}, true
	}
	if d.total == 0 {
		return unknown("empty input"), true
	}
	if d.nul > 0 {
		if r, ok := d.wideUnicode(); ok {
			return d.accept(r), true
		}
		return unknown("binary content: NUL bytes"), true
	}
	if float64(d.ctrl)/float64(d.total) > maxControlRatio {
		return unknown("binary content: control bytes"), true
	}
	return Result{}, false
}

func (d *Detector) decide() Result {
	if r, ok := d.screen(); ok {
		return r
	}
	if d.high == 0 {
		switch {
		case d.jis.detected():
			return d.accept(Result{Encoding: charset.ISO2022JP, Confidence: escapeConfidence, Reason: "ISO-2022-JP escape sequences"})
		case d.hz.detected():
			return d.accept(Result{Encoding: charset.HZGB2312, Confidence: escapeConfidence, Reason: "HZ escape sequences"})
		}
		return Result{Encoding: charset.USASCII, Confidence: 1, Reason: "7-bit text"}
	}
	if d.utf8.candidate() {
		return d.accept(Result{Encoding: charset.UTF8, Confidence: validatedUTF8Confidence, Reason: "valid UTF-8"})
	}
	if r, ok := d.bestCJK(); ok {
		return d.accept(r)
	}
	if r, ok := d.bestSingleByte(); ok {
		return d.accept(r)
	}
	return unknown("no candidate encoding")
}

func (d *Detector) accept(r Result) Result {
	if r.Confidence < d.opts.MinConfidence {
		return unknown(fmt.Sprintf("best candidate %s below minimum confidence (%.2f < %.2f)",
			r.Encoding, r.Confidence, d.opts.MinConfidence))
	}
	return r
}

// wideUnicode recognizes BOM-less UTF-32 and UTF-16 in NUL-bearing input.
func (d *Detector) wideUnicode() (Result, bool) {
	if d.total%4 == 0 {
		units := d.total / 4
		if d.zeroAt[3] == units && d.utf32[0].candidate() {
			return Result{Encoding: charset.UTF32LE, Confidence: utf32PatternConfidence, Reason: "UTF-32LE code unit pattern"}, true
		}
		if d.zeroAt[0] == units && d.utf32[1].candidate() {
			return Result{Encoding: charset.UTF32BE, Confidence: utf32PatternConfidence, Reason: "UTF-32BE code unit pattern"}, true
		}
	}
	if d.total%2 != 0 {
		return Result{}, false
	}
	units := float64(d.total / 2)
	even := float64(d.zeroAt[0] + d.zeroAt[2])
	odd := float64(d.zeroAt[1] + d.zeroAt[3])
	check := func(v *validator, zeroHigh, zeroLow float64, enc charset.Encoding) (Result, bool) {
		if !v.candidate() || zeroHigh/units < utf16MinZeroHigh || zeroLow/units >= utf16MaxZeroLow {
			return Result{}, false
		}
		conf := 0.5 + 0.49*zeroHigh/units
		return Result{Encoding: enc, Confidence: conf, Reason: enc.String() + " code unit pattern"}, true
	}
	if r, ok := check(d.utf16[0], odd, even, charset.UTF16LE); ok {
		return r, true
	}
	return check(d.utf16[1], even, odd, charset.UTF16BE)
}

// bestCJK picks among the surviving multi-byte validators by the share of
// characters in each family's frequent block.
func (d *Detector) bestCJK() (Result, bool) {
	var best Result
	found := false
	for _, v := range d.cjk {
		if !v.candidate() {
			continue
		}
		r := Result{
			Encoding:   v.g.encoding(),
			Confidence: cjkBaseConfidence + cjkCommonWeight*v.commonRatio(),
		}
		if !found || d.better(r, best) {
			best, found = r, true
		}
	}
	if found {
		best.Reason = "valid " + best.Encoding.String() + " sequences"
	}
	return best, found
}

func (d *Detector) bestSingleByte() (Result, bool) {
	var best Result
	found := false
	for _, cp := range codePages {
		conf := cp.score(&d.stats)
		if conf <= 0 {
			continue
		}
		r := Result{Encoding: cp.enc, Confidence: conf}
		if !found || d.better(r, best) {
			best, found = r, true
		}
	}
	if found {
		best.Reason = "code page statistics"
	}
	return best, found
}

// better orders candidates by confidence, then by priority rank.
func (d *Detector) better(a, b Result) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return d.rankOf(a.Encoding) < d.rankOf(b.Encoding)
}

func (d *Detector) rankOf(e charset.Encoding) int {
	if r, ok := d.rank[e]; ok {
		return r
	}
	return len(d.rank)
}
