// Package logging sets up the logrus logger shared by a run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/greatbody/convert-encoding/internal/config"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// FieldRunID is attached to every entry of a run.
const FieldRunID = "run_id"

// Logger is a logrus entry carrying the run id, plus the rotating file
// sink when one is configured.
type Logger struct {
	*logrus.Entry
	RunID string
	file  *lumberjack.Logger
}

// GenerateRunID returns a new time-ordered run identifier.
func GenerateRunID() string {
	return ulid.Make().String()
}

// New builds the logger for one run. Entries go to console and, when
// cfg.File is set, to a size-rotated file as well.
func New(cfg config.LogConfig, verbose bool, console io.Writer) (*Logger, error) {
	if console == nil {
		console = os.Stderr
	}
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var file *lumberjack.Logger
	out := console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = io.MultiWriter(console, file)
	}
	logger.SetOutput(out)

	switch cfg.Format {
	case config.LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case config.LogFormatText, "":
		colors := file == nil && ColorEnabled(cfg.Color, console)
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
			ForceColors:     colors,
			DisableColors:   !colors,
		})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	runID := GenerateRunID()
	return &Logger{
		Entry: logger.WithField(FieldRunID, runID),
		RunID: runID,
		file:  file,
	}, nil
}

// Close flushes and closes the file sink, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ColorEnabled resolves a color mode against the console writer. "auto"
// turns colors on only for a terminal and honours NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
