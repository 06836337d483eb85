package pipeline

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner fans files out to at most Workers concurrent Process calls.
type Runner struct {
	Processor *Processor
	Workers   int
	Log       logrus.FieldLogger
	// OnResult, when set, is called once per finished file from the worker
	// goroutine.
	OnResult func(FileResult)
}

// Run processes files and returns one result per input path, in input
// order. Once ctx is done no new file is started; files already in flight
// finish and the rest are reported as StatusPending.
func (r *Runner) Run(ctx context.Context, files []string) []FileResult {
	results := make([]FileResult, len(files))
	for i, path := range files {
		results[i] = FileResult{Path: path, Status: StatusPending}
	}

	workers := r.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := r.Processor.Process(path)
			results[i] = res
			logResult(log, res)
			if r.OnResult != nil {
				r.OnResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		log.WithField("pending", Summarize(results).Pending).Warn("interrupted, remaining files not processed")
	}
	return results
}

func logResult(log logrus.FieldLogger, res FileResult) {
	entry := log.WithFields(logrus.Fields{
		"path":   res.Path,
		"status": res.Status.String(),
	})
	if res.Source.Valid() {
		entry = entry.WithField("source", res.Source.String())
	}
	switch res.Status {
	case StatusConverted:
		entry.Info(res.Detail)
	case StatusAlreadyTargetEncoding:
		entry.Debug(res.Detail)
	case StatusDetectionFailed, StatusUnsupportedEncoding:
		entry.Warn(res.Detail)
	case StatusFailed:
		entry.WithError(res.Err).Error("file failed")
	}
}
