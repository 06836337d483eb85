package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CONVENC_DETECTOR_ENGINE.
const EnvPrefix = "CONVENC"

// Loader layers defaults, an optional config file, the environment and
// command-line flags, in increasing order of precedence.
type Loader struct {
	viper *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return &Loader{viper: v}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("input", d.Input)
	v.SetDefault("output", d.Output)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("extensionw", d.ExtensionWhitelist)
	v.SetDefault("extensionb", d.ExtensionBlacklist)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("report", d.Report)

	v.SetDefault("detector.engine", d.Detector.Engine)
	v.SetDefault("detector.min_confidence", d.Detector.MinConfidence)
	v.SetDefault("detector.prefer", d.Detector.Prefer)

	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.color", d.Log.Color)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// BindFlags binds config keys to flags of fs. Only flags the user actually
// set override lower layers.
func (l *Loader) BindFlags(fs *pflag.FlagSet, keyToFlag map[string]string) error {
	for key, name := range keyToFlag {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadConfig reads configFile when given (YAML, TOML or JSON by extension)
// and returns the merged configuration. It does not validate.
func (l *Loader) LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		l.viper.SetConfigFile(configFile)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFile exports the variables of a dotenv file into the process
// environment. A missing file is not an error; variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
