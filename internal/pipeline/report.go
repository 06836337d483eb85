package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/greatbody/convert-encoding/internal/safefile"
)

// Report is the persisted record of a run.
type Report struct {
	RunID      string        `json:"run_id" toml:"run_id" yaml:"run_id"`
	Input      string        `json:"input" toml:"input" yaml:"input"`
	Output     string        `json:"output" toml:"output" yaml:"output"`
	Target     string        `json:"target" toml:"target" yaml:"target"`
	DryRun     bool          `json:"dry_run" toml:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time     `json:"started_at" toml:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" toml:"finished_at" yaml:"finished_at"`
	Summary    Summary       `json:"summary" toml:"summary" yaml:"summary"`
	Files      []ReportEntry `json:"files" toml:"files" yaml:"files"`
}

type ReportEntry struct {
	Path       string  `json:"path" toml:"path" yaml:"path"`
	Output     string  `json:"output,omitempty" toml:"output,omitempty" yaml:"output,omitempty"`
	Status     string  `json:"status" toml:"status" yaml:"status"`
	Source     string  `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`
	Confidence float64 `json:"confidence" toml:"confidence" yaml:"confidence"`
	Detail     string  `json:"detail,omitempty" toml:"detail,omitempty" yaml:"detail,omitempty"`
	Error      string  `json:"error,omitempty" toml:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport fills a report from the results of a run.
func NewReport(runID string, p *Processor, dryRun bool, results []FileResult, started, finished time.Time) *Report {
	r := &Report{
		RunID:      runID,
		Input:      p.inputDir,
		Output:     p.outputDir,
		Target:     p.target.String(),
		DryRun:     dryRun,
		StartedAt:  started,
		FinishedAt: finished,
		Summary:    Summarize(results),
		Files:      make([]ReportEntry, 0, len(results)),
	}
	for _, res := range results {
		e := ReportEntry{
			Path:       res.Path,
			Status:     res.Status.String(),
			Confidence: res.Confidence,
			Detail:     res.Detail,
		}
		if res.Status == StatusConverted && !dryRun {
			e.Output = res.Output
		}
		if res.Source.Valid() {
			e.Source = res.Source.String()
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		r.Files = append(r.Files, e)
	}
	return r
}

// EncodeReport serializes r in the format named by the extension of path:
// .toml, .yaml or .yml, and JSON for anything else.
func EncodeReport(path string, r *Report) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Marshal(r)
	case ".yaml", ".yml":
		return yaml.Marshal(r)
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// WriteReport encodes r and replaces path atomically.
func WriteReport(path string, r *Report) error {
	data, err := EncodeReport(path, r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := safefile.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
