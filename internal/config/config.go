// Package config loads the settings of the bridges CLI.
//
// Priority (highest to lowest): command-line flags > BRIDGES_* environment
// variables > BRIDGES_* entries of .env files > bridges.yaml > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables and .env entries.
const EnvPrefix = "BRIDGES"

// Keys of the settings.
const (
	KeyLogLevel = "log-level"
	KeyLogFile  = "log-file"
	KeyTestMode = "test-mode"
	KeyDebug    = "debug"
	KeyPrompt   = "prompt"
	KeyBanner   = "banner"
	KeyPlain    = "plain"
	KeyTheme    = "theme"
	KeyFormat   = "format"
	KeyQuiet    = "quiet"
	KeyPrefix   = "output-prefix"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the CLI settings.
type Config struct {
	LogLevel string `mapstructure:"log-level" yaml:"log-level"`
	LogFile  string `mapstructure:"log-file" yaml:"log-file"`
	TestMode bool   `mapstructure:"test-mode" yaml:"test-mode"`
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
	Prompt   string `mapstructure:"prompt" yaml:"prompt"`
	Banner   bool   `mapstructure:"banner" yaml:"banner"`
	Plain    bool   `mapstructure:"plain" yaml:"plain"`
	Theme    string `mapstructure:"theme" yaml:"theme"`
	Format   string `mapstructure:"format" yaml:"format"`
	Quiet    bool   `mapstructure:"quiet" yaml:"quiet"`
	Prefix   string `mapstructure:"output-prefix" yaml:"output-prefix"`
}

// Options selects the files Load reads.
type Options struct {
	// ConfigFile is an explicit config file. It must exist when set.
	ConfigFile string
	// SearchPaths are searched for bridges.yaml when ConfigFile is empty.
	SearchPaths []string
	// DotEnvFiles are read in order; later files win. Missing files are skipped.
	DotEnvFiles []string
}

// DefaultOptions searches the working directory and the user config
// directory, and reads ./.env.
func DefaultOptions() Options {
	opts := Options{
		SearchPaths: []string{"."},
		DotEnvFiles: []string{".env"},
	}
	if dir, err := os.UserConfigDir(); err == nil {
		opts.SearchPaths = append(opts.SearchPaths, filepath.Join(dir, "bridges"))
		opts.DotEnvFiles = append([]string{filepath.Join(dir, "bridges", ".env")}, opts.DotEnvFiles...)
	}
	return opts
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTestMode, false)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyPrompt, "bridges> ")
	v.SetDefault(KeyBanner, true)
	v.SetDefault(KeyPlain, false)
	v.SetDefault(KeyTheme, "default")
	v.SetDefault(KeyFormat, FormatText)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyPrefix, "")
}

// Load reads the configuration into v and decodes it.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts); err != nil {
		return nil, err
	}

	for _, path := range opts.DotEnvFiles {
		if err := mergeDotEnv(v, path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "":
		cfg.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", cfg.Format, FormatText, FormatJSON)
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, opts Options) error {
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
		return nil
	}

	if len(opts.SearchPaths) == 0 {
		return nil
	}
	v.SetConfigName("bridges")
	v.SetConfigType("yaml")
	for _, p := range opts.SearchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil // Missing config file is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// mergeDotEnv merges the BRIDGES_* entries of a .env file into the config
// layer, below environment variables and flags.
func mergeDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	values := make(map[string]any)
	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok {
			continue
		}
		values[strings.ToLower(strings.ReplaceAll(name, "_", "-"))] = value
	}
	if len(values) == 0 {
		return nil
	}
	return v.MergeConfigMap(values)
}
