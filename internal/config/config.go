// Package config loads critpath settings from viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// Output formats accepted by the "output" key.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration for critpath.
// Values are populated from .critpath.yaml, CRITPATH_* env vars, and CLI flags.
type Config struct {
	MaxPaths  int         `mapstructure:"max_paths"`
	Delimiter string      `mapstructure:"delimiter"`
	Output    string      `mapstructure:"output"`
	Format    string      `mapstructure:"format"`
	LogLevel  string      `mapstructure:"log_level"`
	NoColor   bool        `mapstructure:"no_color"`
	Events    string      `mapstructure:"events"`
	Watch     WatchConfig `mapstructure:"watch"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_paths", 10000)
	v.SetDefault("delimiter", "->")
	v.SetDefault("output", OutputText)
	v.SetDefault("format", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("no_color", false)
	v.SetDefault("events", "")
	v.SetDefault("watch.debounce", 100*time.Millisecond)
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.Output = strings.ToLower(cfg.Output)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: output must be text, json or yaml, got %q", ErrInvalid, c.Output)
	}
	if c.MaxPaths < 0 {
		return fmt.Errorf("%w: max_paths must not be negative, got %d", ErrInvalid, c.MaxPaths)
	}
	if c.Delimiter == "" {
		return fmt.Errorf("%w: delimiter must not be empty", ErrInvalid)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
