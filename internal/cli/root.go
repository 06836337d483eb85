// Package cli wires configuration, logging and the conversion pipeline
// into cobra commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Exit statuses.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// ExitError carries the process exit status for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func configError(err error) error {
	return &ExitError{Code: ExitConfig, Err: err}
}

type rootOptions struct {
	configFile string
	envFile    string
}

// NewRootCmd builds the command tree. Invoked without a subcommand the
// root behaves like convert.
func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}
	convertCmd := newConvertCmd(ro)

	root := &cobra.Command{
		Use:   "convert-encoding",
		Short: "Detect and convert the text encoding of files in a directory tree",
		Long: `convert-encoding scans a directory recursively, detects the encoding of
every file that passes the extension filters and rewrites the files whose
encoding differs from the target encoding.

Examples:
  convert-encoding -i ./src -e utf-8 --extensionw .txt,.md
  convert-encoding -i ./legacy -o ./out -e gbk --dry-run --report run.yaml
  convert-encoding detect -i ./src --detector icu
  convert-encoding encodings`,
		Args:          cobra.NoArgs,
		RunE:          convertCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return configError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&ro.configFile, "config", "", "config file (yaml, toml or json)")
	pf.StringVar(&ro.envFile, "env-file", ".env", "dotenv file with CONVENC_* variables")
	pf.BoolP("verbose", "v", false, "log every file, including skipped ones")
	pf.String("log-file", "", "also write logs to this file, rotated by size")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("color", "auto", "color output: auto, always or never")

	root.Flags().AddFlagSet(convertCmd.Flags())

	root.AddCommand(convertCmd)
	root.AddCommand(newDetectCmd(ro))
	root.AddCommand(newEncodingsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(stderr, "Error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailed
}
