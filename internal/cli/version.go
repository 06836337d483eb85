package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "0.1.0"
	BuildTime string
	GitCommit string
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "convert-encoding %s\n", Version)
			if BuildTime != "" {
				fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
			}
			if GitCommit != "" {
				fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
			}
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		},
	}
}
