package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatbody/convert-encoding/internal/charset"
	"github.com/greatbody/convert-encoding/internal/detector"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Input = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, []string{"*"}, cfg.ExtensionWhitelist)
	assert.Equal(t, detector.EngineBuiltin, cfg.Detector.Engine)
	assert.Equal(t, 0.2, cfg.Detector.MinConfidence)
	assert.GreaterOrEqual(t, cfg.Workers, 1)

	target, err := cfg.Target()
	require.NoError(t, err)
	assert.Equal(t, charset.UTF8, target)
}

func TestOutputDirDefaultsToInput(t *testing.T) {
	cfg := &Config{Input: "/in"}
	assert.Equal(t, "/in", cfg.OutputDir())
	cfg.Output = "/out"
	assert.Equal(t, "/out", cfg.OutputDir())
}

func TestValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing input", func(c *Config) { c.Input = "" }, ErrInputDirRequired},
		{"input not a directory", func(c *Config) { c.Input = file }, ErrInputNotDirectory},
		{"input does not exist", func(c *Config) { c.Input = file + ".missing" }, os.ErrNotExist},
		{"workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"confidence", func(c *Config) { c.Detector.MinConfidence = 1.5 }, ErrInvalidConfidence},
		{"engine", func(c *Config) { c.Detector.Engine = "magic" }, detector.ErrUnknownEngine},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidLogFormat},
		{"color", func(c *Config) { c.Log.Color = "rainbow" }, ErrInvalidColorMode},
		{"max file size", func(c *Config) { c.MaxFileSize = 0 }, ErrInvalidFileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate(true)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_UnsupportedTarget(t *testing.T) {
	cfg := validConfig(t)
	cfg.Encoding = "not-a-real-encoding"

	err := cfg.Validate(true)
	var uerr *charset.UnsupportedEncodingError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "not-a-real-encoding", uerr.Name)
}

func TestValidate_WithoutInput(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate(false))
}

func TestDetectorOptions_ZeroConfidenceKept(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.MinConfidence = 0
	require.NoError(t, cfg.Validate(false))

	opts, err := cfg.DetectorOptions()
	require.NoError(t, err)
	assert.Zero(t, opts.MinConfidence)

	engine, err := detector.NewEngine(detector.EngineICU, opts)
	require.NoError(t, err)
	assert.Equal(t, detector.ICU{}, engine)
}

func TestPreferEncodings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.Prefer = []string{"big5", " ", "cp1251"}

	got, err := cfg.PreferEncodings()
	require.NoError(t, err)
	assert.Equal(t, []charset.Encoding{charset.Big5, charset.Windows1251}, got)

	cfg.Detector.Prefer = []string{"klingon"}
	_, err = cfg.PreferEncodings()
	var uerr *charset.UnsupportedEncodingError
	assert.ErrorAs(t, err, &uerr)
	assert.Error(t, cfg.Validate(false))
}

func TestLoader_Layers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "convenc.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
encoding: gbk
workers: 3
extensionw: [".txt", ".md"]
detector:
  engine: icu
  prefer: [big5]
log:
  format: json
`), 0o600))

	t.Setenv("CONVENC_WORKERS", "5")
	t.Setenv("CONVENC_LOG_COLOR", "never")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("encoding", "e", "utf-8", "")
	fs.StringP("input", "i", "", "")
	require.NoError(t, fs.Parse([]string{"-i", dir}))

	l := NewLoader()
	require.NoError(t, l.BindFlags(fs, map[string]string{
		"encoding": "encoding",
		"input":    "input",
		"missing":  "no-such-flag",
	}))

	cfg, err := l.LoadConfig(file)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Input, "flag set by user")
	assert.Equal(t, "gbk", cfg.Encoding, "unset flag does not override file")
	assert.Equal(t, 5, cfg.Workers, "environment overrides file")
	assert.Equal(t, []string{".txt", ".md"}, cfg.ExtensionWhitelist)
	assert.Equal(t, "icu", cfg.Detector.Engine)
	assert.Equal(t, []string{"big5"}, cfg.Detector.Prefer)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, ColorNever, cfg.Log.Color)
	assert.Equal(t, 0.2, cfg.Detector.MinConfidence, "default kept")
	require.NoError(t, cfg.Validate(true))
}

func TestLoader_MissingConfigFile(t *testing.T) {
	_, err := NewLoader().LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(""))
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CONVENC_ENCODING=big5\n"), 0o600))
	t.Setenv("CONVENC_ENCODING", "")
	require.NoError(t, os.Unsetenv("CONVENC_ENCODING"))

	require.NoError(t, LoadEnvFile(envFile))
	assert.Equal(t, "big5", os.Getenv("CONVENC_ENCODING"))

	cfg, err := NewLoader().LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "big5", cfg.Encoding)
}
