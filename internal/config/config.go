package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nordlock/nordlock/internal/render"
)

// Configuration holds the application settings
type Configuration struct {
	// Whether to lock the screen immediately on startup
	LockScreen bool `json:"lock_screen" yaml:"lock_screen"`

	// Idle timeout in seconds before auto-locking (0 disables)
	IdleTimeout int `json:"idle_timeout" yaml:"idle_timeout"`

	// PAM service name to use for authentication
	PamService string `json:"pam_service" yaml:"pam_service"`

	// Background color (in rrggbb hex format) for the lock screen
	BackgroundColor string `json:"background_color" yaml:"background_color"`

	// Path to a background image drawn over the fill color
	BackgroundImage string `json:"background_image" yaml:"background_image"`

	// Whether to tile the background image instead of drawing it once
	TileImage bool `json:"tile_image" yaml:"tile_image"`

	// Whether to draw the unlock indicator while typing
	ShowIndicator bool `json:"show_indicator" yaml:"show_indicator"`

	// Whether to draw the clock widget
	ShowClock bool `json:"show_clock" yaml:"show_clock"`

	// Whether to show the failed attempt counter inside the indicator
	ShowFailedAttempts bool `json:"show_failed_attempts" yaml:"show_failed_attempts"`

	// Path to a TTF font file; empty selects the built-in font
	Font string `json:"font" yaml:"font"`

	// DPI override for indicator scaling; 0 reads it from the screen
	DPI float64 `json:"dpi" yaml:"dpi"`

	// Enable debug exit with ESC or Q key
	DebugExit bool `json:"debug_exit" yaml:"debug_exit"`

	// Command to run before locking the screen
	PreLockCommand string `json:"pre_lock_command" yaml:"pre_lock_command"`

	// Command to run after unlocking the screen
	PostLockCommand string `json:"post_lock_command" yaml:"post_lock_command"`

	// Whether to pause MPRIS media players when locking
	LockPauseMedia bool `json:"lock_pause_media" yaml:"lock_pause_media"`

	// Whether to unpause MPRIS media players after unlocking
	UnlockUnpauseMedia bool `json:"unlock_unpause_media" yaml:"unlock_unpause_media"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Configuration {
	pamPath := "/etc/pam.d/nordlock"
	pamService := "system-auth"
	if _, err := os.Stat(pamPath); err == nil {
		pamService = "nordlock"
	}

	return Configuration{
		LockScreen:         false,
		IdleTimeout:        0,
		PamService:         pamService,
		BackgroundColor:    "2e3440",
		ShowIndicator:      true,
		ShowClock:          true,
		ShowFailedAttempts: false,
		DPI:                0,
		DebugExit:          false, // Disabled by default for security
		PreLockCommand:     "",    // No default pre-lock command
		PostLockCommand:    "",    // No default post-lock command
		LockPauseMedia:     false, // Disabled by default
		UnlockUnpauseMedia: false, // Disabled by default
	}
}

// LoadConfig loads configuration from the specified file path. The file
// format is selected by extension: .json, or .yaml/.yml.
func LoadConfig(path string, config *Configuration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := ValidateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	return nil
}

// SaveConfig saves the current configuration to the specified file path
func SaveConfig(path string, config Configuration) error {
	if err := ValidateConfig(&config); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON: %v", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// ValidateConfig checks if the configuration is valid
func ValidateConfig(config *Configuration) error {
	if _, err := render.ParseColor(config.BackgroundColor); err != nil {
		return fmt.Errorf("bad background_color: %v", err)
	}

	if config.DPI < 0 {
		return fmt.Errorf("dpi must not be negative")
	}

	if config.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout must not be negative")
	}

	if config.BackgroundImage != "" {
		if _, err := os.Stat(config.BackgroundImage); err != nil {
			return fmt.Errorf("background_image not accessible: %v", err)
		}
	}

	if config.Font != "" {
		if _, err := os.Stat(config.Font); err != nil {
			return fmt.Errorf("font not accessible: %v", err)
		}
	}

	if config.PamService == "" {
		return fmt.Errorf("pam_service must not be empty")
	}

	return nil
}

// GenerateDefaultConfigFile creates a default configuration file if it doesn't exist
func GenerateDefaultConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %v", err)
	}

	configDir := filepath.Join(homeDir, ".config", "nordlock")

	err = os.MkdirAll(configDir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	configPath := filepath.Join(configDir, "config.json")

	if _, err = os.Stat(configPath); err == nil {
		// Config file already exists, no need to create it
		return nil
	}

	config := DefaultConfig()

	err = SaveConfig(configPath, config)
	if err != nil {
		return fmt.Errorf("failed to save default config: %v", err)
	}

	return nil
}

// DefaultConfigPath returns the path probed when no config flag is given.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "nordlock", "config.json")
}
