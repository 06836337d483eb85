// Package pipeline runs read, detect, convert and write over a batch of
// files on a bounded worker pool.
package pipeline

import (
	"fmt"

	"github.com/greatbody/convert-encoding/internal/charset"
)

// Status is the outcome of one file.
type Status int

const (
	// StatusPending marks a file that was never started, e.g. after an
	// interrupt.
	StatusPending Status = iota
	StatusConverted
	StatusAlreadyTargetEncoding
	StatusDetectionFailed
	StatusUnsupportedEncoding
	StatusFailed
)

var statusNames = [...]string{
	StatusPending:               "pending",
	StatusConverted:             "converted",
	StatusAlreadyTargetEncoding: "already-target-encoding",
	StatusDetectionFailed:       "detection-failed",
	StatusUnsupportedEncoding:   "unsupported-encoding",
	StatusFailed:                "failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Skipped reports whether the file was left alone without an error.
func (s Status) Skipped() bool {
	switch s {
	case StatusAlreadyTargetEncoding, StatusDetectionFailed, StatusUnsupportedEncoding:
		return true
	}
	return false
}

// FileResult is what the pipeline reports for one file.
type FileResult struct {
	Path       string
	Output     string
	Status     Status
	Source     charset.Encoding
	Confidence float64
	Detail     string
	Err        error
}
