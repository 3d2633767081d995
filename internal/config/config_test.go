package config

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CARLOG_DB", "")
	t.Setenv("CARLOG_THEME", "")
	t.Setenv("CARLOG_SCHEDULE", "")
	t.Chdir(t.TempDir())
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	useTempConfig(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := useTempConfig(t)
	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.General.RollingWindow = 5
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ConfigPath() != filepath.Join(dir, "carlog", "config.toml") {
		t.Errorf("ConfigPath = %q", ConfigPath())
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Appearance.Theme != "tokyo-night" || got.General.RollingWindow != 5 {
		t.Errorf("loaded = %+v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempConfig(t)
	t.Setenv("CARLOG_THEME", "terminal")
	t.Setenv("CARLOG_DB", "/tmp/other.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Appearance.Theme != "terminal" || cfg.General.DBPath != "/tmp/other.db" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDotEnvFile(t *testing.T) {
	useTempConfig(t)
	if err := os.WriteFile(".env", []byte("CARLOG_SCHEDULE=@every 30m\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set, even empty.
	os.Unsetenv("CARLOG_SCHEDULE")
	t.Cleanup(func() { os.Unsetenv("CARLOG_SCHEDULE") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reminders.Schedule != "@every 30m" {
		t.Errorf("schedule = %q", cfg.Reminders.Schedule)
	}
}

func TestParseError(t *testing.T) {
	useTempConfig(t)
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ConfigPath(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}
