package cli

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/greatbody/convert-encoding/internal/config"
	"github.com/greatbody/convert-encoding/internal/detector"
	"github.com/greatbody/convert-encoding/internal/logging"
	"github.com/greatbody/convert-encoding/internal/pipeline"
	"github.com/greatbody/convert-encoding/internal/scan"
)

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"input":                   "input",
	"output":                  "output",
	"encoding":                "encoding",
	"extensionw":              "extensionw",
	"extensionb":              "extensionb",
	"exclude":                 "exclude",
	"verbose":                 "verbose",
	"workers":                 "workers",
	"dry_run":                 "dry-run",
	"max_file_size":           "max-file-size",
	"report":                  "report",
	"detector.engine":         "detector",
	"detector.min_confidence": "min-confidence",
	"detector.prefer":         "prefer",
	"log.file":                "log-file",
	"log.format":              "log-format",
	"log.color":               "color",
}

// addScanFlags registers the flags shared by convert and detect.
func addScanFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringP("input", "i", "", "input directory (required)")
	f.StringP("output", "o", "", "output directory (default: the input directory)")
	f.StringP("encoding", "e", d.Encoding, "target encoding")
	f.StringSlice("extensionw", d.ExtensionWhitelist, "extensions to process, * for all")
	f.StringSlice("extensionb", d.ExtensionBlacklist, "extensions to skip, wins over --extensionw")
	f.StringSlice("exclude", d.Exclude, "regular expressions for relative paths to skip")
	f.IntP("workers", "j", d.Workers, "number of files processed concurrently")
	f.Int64("max-file-size", d.MaxFileSize, "skip files larger than this many bytes")
	f.StringSlice("prefer", d.Detector.Prefer, "encodings that win detection ties, in order")
	f.Float64("min-confidence", d.Detector.MinConfidence, "minimum detection confidence in [0,1]")
	f.String("detector", d.Detector.Engine, "detection engine: builtin or icu")
	f.String("report", "", "write a run report (.json, .yaml or .toml)")
}

// loadConfig layers defaults, the dotenv file, the config file, the
// environment and flags, then validates the result.
func loadConfig(cmd *cobra.Command, ro *rootOptions, requireInput bool) (*config.Config, error) {
	if err := config.LoadEnvFile(ro.envFile); err != nil {
		return nil, configError(err)
	}
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, configError(err)
	}
	cfg, err := loader.LoadConfig(ro.configFile)
	if err != nil {
		return nil, configError(err)
	}
	if err := cfg.Validate(requireInput); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// session is everything a scan command needs once configuration is valid.
type session struct {
	cfg       *config.Config
	log       *logging.Logger
	processor *pipeline.Processor
	files     []string
}

func newSession(cmd *cobra.Command, ro *rootOptions, dryRun bool) (*session, error) {
	cfg, err := loadConfig(cmd, ro, true)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, cfg.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, configError(err)
	}
	s := &session{cfg: cfg, log: log}
	if err := s.prepare(cmd, dryRun || cfg.DryRun); err != nil {
		_ = log.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) prepare(cmd *cobra.Command, dryRun bool) error {
	setColor(s.cfg.Log.Color, cmd.OutOrStdout())

	target, err := s.cfg.Target()
	if err != nil {
		return configError(err)
	}
	opts, err := s.cfg.DetectorOptions()
	if err != nil {
		return configError(err)
	}
	engine, err := detector.NewEngine(s.cfg.Detector.Engine, opts)
	if err != nil {
		return configError(err)
	}
	filter, err := scan.NewFilter(s.cfg.ExtensionWhitelist, s.cfg.ExtensionBlacklist).WithExclude(s.cfg.Exclude)
	if err != nil {
		return configError(err)
	}

	s.files, err = scan.Discover(cmd.Context(), s.cfg.Input, scan.Options{
		Filter: filter,
		OnError: func(path string, err error) {
			s.log.WithError(err).WithField("path", path).Warn("cannot read directory entry")
		},
	})
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return &ExitError{Code: ExitFailed, Err: fmt.Errorf("interrupted: %w", ctxErr)}
		}
		return configError(err)
	}

	s.processor, err = pipeline.NewProcessor(pipeline.Options{
		Engine:      engine,
		Target:      target,
		InputDir:    s.cfg.Input,
		OutputDir:   s.cfg.OutputDir(),
		MaxFileSize: s.cfg.MaxFileSize,
		DryRun:      dryRun,
	})
	if err != nil {
		return configError(err)
	}

	s.log.WithFields(logrus.Fields{
		"input":    s.cfg.Input,
		"output":   s.cfg.OutputDir(),
		"target":   target.String(),
		"detector": engine.Name(),
		"files":    len(s.files),
		"workers":  s.cfg.Workers,
		"dry_run":  dryRun,
	}).Info("scan complete")
	return nil
}

func (s *session) runner() *pipeline.Runner {
	return &pipeline.Runner{
		Processor: s.processor,
		Workers:   s.cfg.Workers,
		Log:       s.log,
	}
}

func setColor(mode string, w io.Writer) {
	if logging.ColorEnabled(mode, w) {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithBoxed(false).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
