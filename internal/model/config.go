package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection settings for the report backend.
type ServerConfig struct {
	// BaseURL is the root URL of the BAYAN backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Email is the last-used login email, prefilled on the login form.
	// The password itself lives in the OS keyring, never in this file.
	Email string `mapstructure:"email" yaml:"email"`
}

// PollConfig controls the periodic update checks.
type PollConfig struct {
	// UpdateIntervalSec is how often (in seconds) the user-role check
	// for resolved reports runs.
	UpdateIntervalSec int `mapstructure:"update_interval_sec" yaml:"update_interval_sec"`

	// AdminIntervalSec is how often the admin new-report count check runs.
	AdminIntervalSec int `mapstructure:"admin_interval_sec" yaml:"admin_interval_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// EnhancedUI toggles the richer dashboard rendering.
	EnhancedUI bool `mapstructure:"enhanced_ui" yaml:"enhanced_ui"`
}

// LogConfig controls the file logger. The terminal belongs to the UI,
// so all diagnostics go to a file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/bayan/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "bayan", "config.yaml")
}

// DefaultDataPath returns the default path for the local state database.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "bayan.db")
	}
	return filepath.Join(home, ".local", "share", "bayan", "bayan.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
		},
		Poll: PollConfig{
			UpdateIntervalSec: 30,
			AdminIntervalSec:  30,
		},
		Display: DisplayConfig{
			EnhancedUI: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.base_url", "http://localhost:5000")
	v.SetDefault("poll.update_interval_sec", 30)
	v.SetDefault("poll.admin_interval_sec", 30)
	v.SetDefault("display.enhanced_ui", true)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Poll.UpdateIntervalSec <= 0 {
		cfg.Poll.UpdateIntervalSec = 30
	}
	if cfg.Poll.AdminIntervalSec <= 0 {
		cfg.Poll.AdminIntervalSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("poll", cfg.Poll)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
