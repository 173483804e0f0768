// Package config loads and saves the ingresos TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all ingresos configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Speech     SpeechConfig     `toml:"speech"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds dataset and table preferences.
type GeneralConfig struct {
	Dataset    string `toml:"dataset,omitempty"`
	Mode       string `toml:"mode"`
	DrillLevel int    `toml:"drill_level"`
	StartYear  int    `toml:"start_year"`
	EndYear    int    `toml:"end_year"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// SpeechConfig holds read-aloud settings. An empty Command autodetects a
// synthesizer on PATH.
type SpeechConfig struct {
	Enabled bool   `toml:"enabled"`
	Command string `toml:"command,omitempty"`
	Voice   string `toml:"voice,omitempty"`
	Rate    int    `toml:"rate,omitempty"`
}

// DashboardConfig holds the years compared by the KPI cards and the span of
// the trend chart.
type DashboardConfig struct {
	CurrentYear  int `toml:"current_year"`
	PreviousYear int `toml:"previous_year"`
	TrendFrom    int `toml:"trend_from"`
	TrendTo      int `toml:"trend_to"`
}

// LoggingConfig holds log settings. An empty File logs to the cache dir.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Mode:       "nominal",
			DrillLevel: 3,
			StartYear:  2020,
			EndYear:    2026,
		},
		Appearance: AppearanceConfig{
			Theme: "hacienda",
		},
		Speech: SpeechConfig{
			Enabled: true,
		},
		Dashboard: DashboardConfig{
			CurrentYear:  2026,
			PreviousYear: 2025,
			TrendFrom:    2020,
			TrendTo:      2026,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ingresos")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ingresos")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// DatasetPath returns the dataset file from the INGRESOS_DATA env var or
// config, in that order.
func DatasetPath(cfg Config) string {
	if p := os.Getenv("INGRESOS_DATA"); p != "" {
		return p
	}
	return cfg.General.Dataset
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
