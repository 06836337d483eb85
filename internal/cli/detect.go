package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greatbody/convert-encoding/internal/pipeline"
)

func newDetectCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Show the detected encoding of every file without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd, ro)
		},
	}
	addScanFlags(cmd)
	return cmd
}

func runDetect(cmd *cobra.Command, ro *rootOptions) error {
	s, err := newSession(cmd, ro, true)
	if err != nil {
		return err
	}
	defer s.log.Close()

	results := s.runner().Run(cmd.Context(), s.files)

	root, err := filepath.Abs(s.cfg.Input)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rel, err := filepath.Rel(root, res.Path)
		if err != nil {
			rel = res.Path
		}
		enc, conf := "-", "-"
		if res.Source.Valid() {
			enc = res.Source.String()
			conf = fmt.Sprintf("%.2f", res.Confidence)
		}
		rows = append(rows, []string{rel, enc, conf, res.Status.String(), res.Detail})
	}

	out := cmd.OutOrStdout()
	if err := renderTable(out, []string{"File", "Encoding", "Confidence", "Result", "Detail"}, rows); err != nil {
		return err
	}
	summary := pipeline.Summarize(results)
	fmt.Fprintf(out, "%d files, %d would be converted to %s\n", summary.Total, summary.Converted, s.processor.Target())
	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return &ExitError{Code: ExitFailed, Err: fmt.Errorf("interrupted: %w", ctxErr)}
	}
	return nil
}
