package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/greatbody/convert-encoding/internal/charset"
	"github.com/greatbody/convert-encoding/internal/detector"
	"github.com/greatbody/convert-encoding/internal/safefile"
	"github.com/greatbody/convert-encoding/internal/transcoder"
)

// ErrOutsideInput is returned for a path that does not lie below the
// input directory.
var ErrOutsideInput = errors.New("path is outside the input directory")

// Options configure a Processor.
type Options struct {
	Engine    detector.Engine
	Target    charset.Encoding
	InputDir  string
	OutputDir string // defaults to InputDir
	// MaxFileSize bounds reads; zero means safefile.DefaultMaxFileSize.
	MaxFileSize int64
	// DryRun detects and converts in memory but writes nothing.
	DryRun bool
}

// Processor handles a single file at a time and holds no per-file state,
// so one Processor serves every worker.
type Processor struct {
	engine      detector.Engine
	target      charset.Encoding
	inputDir    string
	outputDir   string
	maxFileSize int64
	dryRun      bool
}

func NewProcessor(opts Options) (*Processor, error) {
	if opts.Engine == nil {
		opts.Engine = detector.Builtin{Options: detector.DefaultOptions()}
	}
	if !opts.Target.Valid() {
		return nil, &charset.UnsupportedEncodingError{Name: opts.Target.String()}
	}
	in, err := filepath.Abs(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve input directory: %w", err)
	}
	out := in
	if opts.OutputDir != "" {
		if out, err = filepath.Abs(opts.OutputDir); err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = safefile.DefaultMaxFileSize
	}
	return &Processor{
		engine:      opts.Engine,
		target:      opts.Target,
		inputDir:    in,
		outputDir:   out,
		maxFileSize: opts.MaxFileSize,
		dryRun:      opts.DryRun,
	}, nil
}

// Target is the encoding files are converted to.
func (p *Processor) Target() charset.Encoding { return p.target }

// OutputPath maps a file below the input directory to its place below the
// output directory.
func (p *Processor) OutputPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(p.inputDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideInput, path)
	}
	return filepath.Join(p.outputDir, rel), nil
}

// Process reads, detects, converts and writes one file. It never returns
// an error; failures are reported in the result.
func (p *Processor) Process(path string) FileResult {
	res := FileResult{Path: path}
	fail := func(err error) FileResult {
		res.Status = StatusFailed
		res.Err = err
		res.Detail = err.Error()
		return res
	}

	out, err := p.OutputPath(path)
	if err != nil {
		return fail(err)
	}
	res.Output = out

	data, perm, err := safefile.ReadFile(path, p.maxFileSize)
	if err != nil {
		return fail(err)
	}

	det := p.engine.Detect(data)
	res.Source = det.Encoding
	res.Confidence = det.Confidence
	if det.Unsupported != "" {
		res.Status = StatusUnsupportedEncoding
		res.Err = &charset.UnsupportedEncodingError{Name: det.Unsupported}
		res.Detail = det.Reason
		return res
	}
	if !det.Known() {
		res.Status = StatusDetectionFailed
		res.Err = det.Err()
		res.Detail = det.Reason
		return res
	}

	conv, err := transcoder.Convert(data, det.Encoding, p.target)
	if err != nil {
		var unsupported *charset.UnsupportedEncodingError
		if errors.As(err, &unsupported) {
			res.Status = StatusUnsupportedEncoding
			res.Err = err
			res.Detail = err.Error()
			return res
		}
		return fail(err)
	}

	switch conv.Status {
	case transcoder.StatusSameEncoding:
		res.Status = StatusAlreadyTargetEncoding
		res.Detail = fmt.Sprintf("already %s", p.target)
		if det.Encoding != p.target {
			res.Detail += fmt.Sprintf(" (read as %s)", det.Encoding)
		}
		return res
	case transcoder.StatusUnknownSource:
		res.Status = StatusDetectionFailed
		res.Detail = det.Reason
		return res
	}

	res.Detail = fmt.Sprintf("%s -> %s", det.Encoding, p.target)
	if p.dryRun {
		res.Status = StatusConverted
		res.Detail += " (dry run)"
		return res
	}
	if err := safefile.WriteFileAtomic(out, conv.Data, perm); err != nil {
		return fail(fmt.Errorf("write %s: %w", out, err))
	}
	res.Status = StatusConverted
	return res
}
