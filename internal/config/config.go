package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the carlog application preferences. Vehicle settings such as
// units and currency live in the data snapshot, not here.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Reminders  ReminderConfig   `toml:"reminders"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath           string `toml:"db_path,omitempty"`
	DefaultTimeframe string `toml:"default_timeframe"`
	RecentLimit      int    `toml:"recent_limit"`
	RollingWindow    int    `toml:"rolling_window"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ReminderConfig controls the background watcher.
type ReminderConfig struct {
	Schedule     string `toml:"schedule"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultTimeframe: "6months",
			RecentLimit:      10,
			RollingWindow:    3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Reminders: ReminderConfig{
			Schedule:     "@every 1h",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "carlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "carlog")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first so its CARLOG_*
// variables can override file values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), fmt.Errorf("reading .env: %w", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CARLOG_DB"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("CARLOG_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("CARLOG_SCHEDULE"); v != "" {
		cfg.Reminders.Schedule = v
	}
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
