package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(&cfg); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
	if !cfg.ShowIndicator || !cfg.ShowClock {
		t.Error("indicator and clock should be enabled by default")
	}
	if cfg.DebugExit {
		t.Error("debug exit must be off by default")
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"background_color": "3b4252",
		"show_clock": false,
		"dpi": 144,
		"pam_service": "system-auth"
	}`)

	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.BackgroundColor != "3b4252" {
		t.Errorf("BackgroundColor = %q", cfg.BackgroundColor)
	}
	if cfg.ShowClock {
		t.Error("ShowClock not overridden")
	}
	if cfg.DPI != 144 {
		t.Errorf("DPI = %v, want 144", cfg.DPI)
	}
	// Untouched keys keep their defaults.
	if !cfg.ShowIndicator {
		t.Error("ShowIndicator lost its default")
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
background_color: 4c566a
show_failed_attempts: true
idle_timeout: 300
`)

	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.BackgroundColor != "4c566a" {
		t.Errorf("BackgroundColor = %q", cfg.BackgroundColor)
	}
	if !cfg.ShowFailedAttempts {
		t.Error("ShowFailedAttempts not set")
	}
	if cfg.IdleTimeout != 300 {
		t.Errorf("IdleTimeout = %d, want 300", cfg.IdleTimeout)
	}
}

func TestLoadConfigRejectsBadColor(t *testing.T) {
	path := writeFile(t, "config.json", `{"background_color": "#2e3440"}`)
	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err == nil {
		t.Fatal("config with a malformed color loaded successfully")
	}
}

func TestLoadConfigRejectsUnknownFormat(t *testing.T) {
	path := writeFile(t, "config.toml", `background_color = "2e3440"`)
	cfg := DefaultConfig()
	if err := LoadConfig(path, &cfg); err == nil {
		t.Fatal("unsupported format accepted")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"), &cfg); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestValidateConfigRejectsMissingImage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BackgroundImage = "/nonexistent/wallpaper.png"
	if err := ValidateConfig(&cfg); err == nil {
		t.Fatal("missing background image accepted")
	}
}

func TestValidateConfigRejectsNegativeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DPI = -1
	if err := ValidateConfig(&cfg); err == nil {
		t.Error("negative dpi accepted")
	}

	cfg = DefaultConfig()
	cfg.IdleTimeout = -5
	if err := ValidateConfig(&cfg); err == nil {
		t.Error("negative idle_timeout accepted")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.BackgroundColor = "434c5e"
	cfg.ShowFailedAttempts = true

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded := DefaultConfig()
	if err := LoadConfig(path, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}
