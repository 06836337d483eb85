package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/greatbody/convert-encoding/internal/charset"
	"github.com/greatbody/convert-encoding/internal/detector"
	"github.com/greatbody/convert-encoding/internal/safefile"
)

var (
	ErrInputDirRequired  = errors.New("input directory is required")
	ErrInputNotDirectory = errors.New("input path is not a directory")
	ErrInvalidWorkers    = errors.New("workers must be at least 1")
	ErrInvalidConfidence = errors.New("min confidence must be within [0, 1]")
	ErrInvalidLogFormat  = errors.New("log format must be text or json")
	ErrInvalidColorMode  = errors.New("color must be auto, always or never")
	ErrInvalidFileSize   = errors.New("max file size must be positive")
)

// Log formats and color modes.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Input              string         `json:"input" mapstructure:"input"`
	Output             string         `json:"output" mapstructure:"output"`
	Encoding           string         `json:"encoding" mapstructure:"encoding"`
	ExtensionWhitelist []string       `json:"extensionw" mapstructure:"extensionw"`
	ExtensionBlacklist []string       `json:"extensionb" mapstructure:"extensionb"`
	Exclude            []string       `json:"exclude" mapstructure:"exclude"`
	Verbose            bool           `json:"verbose" mapstructure:"verbose"`
	Workers            int            `json:"workers" mapstructure:"workers"`
	DryRun             bool           `json:"dry_run" mapstructure:"dry_run"`
	MaxFileSize        int64          `json:"max_file_size" mapstructure:"max_file_size"`
	Report             string         `json:"report" mapstructure:"report"`
	Detector           DetectorConfig `json:"detector" mapstructure:"detector"`
	Log                LogConfig      `json:"log" mapstructure:"log"`
}

type DetectorConfig struct {
	Engine        string   `json:"engine" mapstructure:"engine"`
	MinConfidence float64  `json:"min_confidence" mapstructure:"min_confidence"`
	Prefer        []string `json:"prefer" mapstructure:"prefer"`
}

type LogConfig struct {
	File       string `json:"file" mapstructure:"file"`
	Format     string `json:"format" mapstructure:"format"`
	Color      string `json:"color" mapstructure:"color"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
}

func DefaultConfig() *Config {
	return &Config{
		Encoding:           "utf-8",
		ExtensionWhitelist: []string{"*"},
		ExtensionBlacklist: []string{},
		Exclude:            []string{},
		Workers:            runtime.NumCPU(),
		MaxFileSize:        safefile.DefaultMaxFileSize,
		Detector: DetectorConfig{
			Engine:        detector.EngineBuiltin,
			MinConfidence: detector.DefaultMinConfidence,
			Prefer:        []string{},
		},
		Log: LogConfig{
			Format:     LogFormatText,
			Color:      ColorAuto,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// OutputDir returns the directory converted files are written under; it
// defaults to the input directory.
func (c *Config) OutputDir() string {
	if c.Output == "" {
		return c.Input
	}
	return c.Output
}

// Target resolves the target encoding name.
func (c *Config) Target() (charset.Encoding, error) {
	return charset.Lookup(c.Encoding)
}

// PreferEncodings resolves the detector's preferred encodings.
func (c *Config) PreferEncodings() ([]charset.Encoding, error) {
	out := make([]charset.Encoding, 0, len(c.Detector.Prefer))
	for _, name := range c.Detector.Prefer {
		if strings.TrimSpace(name) == "" {
			continue
		}
		e, err := charset.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("detector prefer: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// DetectorOptions builds the detector options from the configuration.
func (c *Config) DetectorOptions() (detector.Options, error) {
	prefer, err := c.PreferEncodings()
	if err != nil {
		return detector.Options{}, err
	}
	return detector.Options{MinConfidence: c.Detector.MinConfidence, Prefer: prefer}, nil
}

// Validate checks everything that must hold before any file is touched.
// requireInput is false for commands that do not scan a tree.
func (c *Config) Validate(requireInput bool) error {
	if requireInput {
		if c.Input == "" {
			return ErrInputDirRequired
		}
		fi, err := os.Stat(c.Input)
		if err != nil {
			return fmt.Errorf("input directory: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s", ErrInputNotDirectory, c.Input)
		}
	}
	if _, err := c.Target(); err != nil {
		return fmt.Errorf("target encoding: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFileSize, c.MaxFileSize)
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidConfidence, c.Detector.MinConfidence)
	}
	opts, err := c.DetectorOptions()
	if err != nil {
		return err
	}
	if _, err := detector.NewEngine(c.Detector.Engine, opts); err != nil {
		return err
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	switch c.Log.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, c.Log.Color)
	}
	return nil
}
