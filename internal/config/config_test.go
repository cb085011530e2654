package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"MaxPaths", cfg.MaxPaths, 10000},
		{"Delimiter", cfg.Delimiter, "->"},
		{"Output", cfg.Output, "text"},
		{"Format", cfg.Format, ""},
		{"LogLevel", cfg.LogLevel, "warn"},
		{"NoColor", cfg.NoColor, false},
		{"Events", cfg.Events, ""},
		{"Watch.Debounce", cfg.Watch.Debounce, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "max_paths",
			envKey: "CRITPATH_MAX_PATHS",
			envVal: "25",
			field:  func(c Config) any { return c.MaxPaths },
			want:   25,
		},
		{
			name:   "delimiter",
			envKey: "CRITPATH_DELIMITER",
			envVal: " > ",
			field:  func(c Config) any { return c.Delimiter },
			want:   " > ",
		},
		{
			name:   "output",
			envKey: "CRITPATH_OUTPUT",
			envVal: "JSON",
			field:  func(c Config) any { return c.Output },
			want:   "json",
		},
		{
			name:   "no_color",
			envKey: "CRITPATH_NO_COLOR",
			envVal: "true",
			field:  func(c Config) any { return c.NoColor },
			want:   true,
		},
		{
			name:   "log_level",
			envKey: "CRITPATH_LOG_LEVEL",
			envVal: "debug",
			field:  func(c Config) any { return c.LogLevel },
			want:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			// Set env prefix so CRITPATH_* env vars map to config keys.
			v.SetEnvPrefix("CRITPATH")
			v.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load(v)
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".critpath.yaml")
	data := "max_paths: 3\ndelimiter: \" => \"\nwatch:\n  debounce: 250ms\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.MaxPaths != 3 {
		t.Errorf("MaxPaths = %d, want 3", cfg.MaxPaths)
	}
	if cfg.Delimiter != " => " {
		t.Errorf("Delimiter = %q, want %q", cfg.Delimiter, " => ")
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"output", "output", "xml"},
		{"negative max_paths", "max_paths", -1},
		{"empty delimiter", "delimiter", ""},
		{"log level", "log_level", "loud"},
		{"negative debounce", "watch.debounce", -time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
	}
	for in, want := range tests {
		c := Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
