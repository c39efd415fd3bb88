// Package config loads and saves the nestegg TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/nestegg/internal/model"

	"github.com/BurntSushi/toml"
)

// EnvCurrentYear overrides the year treated as "now".
const EnvCurrentYear = "NESTEGG_CURRENT_YEAR"

// Config holds all nestegg configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Defaults   DefaultsConfig   `toml:"defaults"`
	Rates      RateOverrides    `toml:"rates"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// CurrentYear pins "now"; 0 means use the clock.
	CurrentYear int `toml:"current_year,omitempty"`
}

// DefaultsConfig seeds the parameters of a new session.
type DefaultsConfig struct {
	RetirementYearOffset int     `toml:"retirement_year_offset"`
	MonthlyIncome        float64 `toml:"monthly_income"`
	MonthlyExpenses      float64 `toml:"monthly_expenses"`
	RetirementRate       float64 `toml:"retirement_rate"`
	GoalRate             float64 `toml:"goal_rate"`
}

// RateOverrides adds or replaces named annual-rate presets.
type RateOverrides struct {
	Presets map[string]float64 `toml:"presets,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for the JSON API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			RetirementYearOffset: 30,
			RetirementRate:       5,
			GoalRate:             3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nestegg")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nestegg")
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
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// CurrentYear resolves the year treated as "now": the environment variable,
// then the config file, then the clock.
func CurrentYear(cfg Config, now time.Time) (int, error) {
	if v := os.Getenv(EnvCurrentYear); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y <= 0 {
			return 0, fmt.Errorf("%s: invalid year %q", EnvCurrentYear, v)
		}
		return y, nil
	}
	if cfg.General.CurrentYear > 0 {
		return cfg.General.CurrentYear, nil
	}
	return now.Year(), nil
}

// DefaultParams builds the parameters for a new session.
func DefaultParams(cfg Config, currentYear int) model.Params {
	offset := cfg.Defaults.RetirementYearOffset
	if offset <= 0 {
		offset = DefaultConfig().Defaults.RetirementYearOffset
	}
	return model.Params{
		RetirementYear:  currentYear + offset,
		MonthlyIncome:   cfg.Defaults.MonthlyIncome,
		MonthlyExpenses: cfg.Defaults.MonthlyExpenses,
		RetirementRate:  cfg.Defaults.RetirementRate,
	}
}
