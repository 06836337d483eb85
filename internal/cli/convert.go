package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/greatbody/convert-encoding/internal/pipeline"
)

func newConvertCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert files to the target encoding (default command)",
		Long: `Detect the encoding of every file below the input directory that passes
the extension filters and rewrite the files whose encoding differs from the
target. Files are replaced atomically; with --output the relative layout is
mirrored below the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, ro)
		},
	}
	addScanFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "detect and convert in memory but write nothing")
	return cmd
}

func runConvert(cmd *cobra.Command, ro *rootOptions) error {
	s, err := newSession(cmd, ro, false)
	if err != nil {
		return err
	}
	defer s.log.Close()

	started := time.Now()
	results := s.runner().Run(cmd.Context(), s.files)
	finished := time.Now()
	summary := pipeline.Summarize(results)

	out := cmd.OutOrStdout()
	if err := printSummary(out, summary); err != nil {
		return err
	}
	fmt.Fprintln(out, pterm.Success.Sprintf("Converted %d files", summary.Converted))

	s.log.WithFields(logrus.Fields{
		"converted": summary.Converted,
		"skipped":   summary.Skipped(),
		"failed":    summary.Failed,
		"pending":   summary.Pending,
		"elapsed":   finished.Sub(started).Round(time.Millisecond).String(),
	}).Info("run finished")

	if s.cfg.Report != "" {
		report := pipeline.NewReport(s.log.RunID, s.processor, s.cfg.DryRun, results, started, finished)
		if err := pipeline.WriteReport(s.cfg.Report, report); err != nil {
			return &ExitError{Code: ExitFailed, Err: err}
		}
		s.log.WithField("path", s.cfg.Report).Info("report written")
	}

	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return &ExitError{Code: ExitFailed, Err: fmt.Errorf("interrupted with %d files pending: %w", summary.Pending, ctxErr)}
	}
	if summary.Failed > 0 {
		return &ExitError{Code: ExitFailed, Err: fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)}
	}
	return nil
}

func printSummary(w io.Writer, s pipeline.Summary) error {
	return renderTable(w, []string{"Result", "Files"}, [][]string{
		{"converted", strconv.Itoa(s.Converted)},
		{"skipped", strconv.Itoa(s.Skipped())},
		{"  already target", strconv.Itoa(s.AlreadyTarget)},
		{"  detection failed", strconv.Itoa(s.DetectionFailed)},
		{"  unsupported", strconv.Itoa(s.Unsupported)},
		{"failed", strconv.Itoa(s.Failed)},
		{"pending", strconv.Itoa(s.Pending)},
		{"total", strconv.Itoa(s.Total)},
	})
}
