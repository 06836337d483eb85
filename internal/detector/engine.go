package detector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saintfish/chardet"

	"github.com/greatbody/convert-encoding/internal/charset"
)

// Engine names.
const (
	EngineBuiltin = "builtin"
	EngineICU     = "icu"
)

// ErrUnknownEngine is returned by NewEngine for an unrecognized name.
var ErrUnknownEngine = errors.New("unknown detector engine")

// Engine is a one-shot detector over a whole buffer. Implementations are
// safe for concurrent use.
type Engine interface {
	Name() string
	Detect(data []byte) Result
}

// NewEngine returns the engine registered under name.
func NewEngine(name string, opts Options) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineBuiltin:
		return Builtin{Options: opts}, nil
	case EngineICU:
		return ICU{MinConfidence: opts.MinConfidence}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// Builtin runs the statistical detector of this package.
type Builtin struct {
	Options Options
}

func (Builtin) Name() string { return EngineBuiltin }

func (b Builtin) Detect(data []byte) Result {
	return Detect(data, b.Options)
}

// ICU delegates to github.com/saintfish/chardet, a port of the ICU
// detector, once Screen has ruled out byte-order marks and binary content.
// Charsets ICU reports that have no registry entry come back as Unknown
// with Unsupported set.
type ICU struct {
	// MinConfidence is applied as in Options; zero disables it.
	MinConfidence float64
}

func (ICU) Name() string { return EngineICU }

func (e ICU) Detect(data []byte) Result {
	if r, ok := Screen(data, Options{MinConfidence: e.MinConfidence}); ok {
		return r
	}
	best, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return unknown("icu: " + err.Error())
	}
	return e.resolve(best)
}

// resolve maps an ICU verdict onto the registry. The confidence threshold
// is applied before the registry lookup, so a weak guess at an unsupported
// charset stays inconclusive.
func (e ICU) resolve(best *chardet.Result) Result {
	conf := float64(best.Confidence) / 100
	if conf < e.MinConfidence {
		return unknown(fmt.Sprintf("icu candidate %s below minimum confidence (%.2f < %.2f)", best.Charset, conf, e.MinConfidence))
	}
	enc, err := charset.Lookup(best.Charset)
	if err != nil {
		r := unknown(fmt.Sprintf("icu reported unsupported charset %q", best.Charset))
		r.Unsupported = best.Charset
		r.Confidence = conf
		return r
	}
	reason := "icu"
	if best.Language != "" {
		reason += " (" + best.Language + ")"
	}
	return Result{Encoding: enc, Confidence: conf, Reason: reason}
}
