// Package config provides YAML-based configuration loading for the client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Input rate-limit policies.
const (
	PolicyDebounce = "debounce"
	PolicyThrottle = "throttle"
)

// Config is the root client configuration.
type Config struct {
	// AppName optional logical name of the client
	AppName string `mapstructure:"app_name"`

	// ServerURL is the websocket endpoint of the remote computation process
	ServerURL string `mapstructure:"server_url"`

	// Subprotocol selects the frame codec: "app" (JSON) or "app+cbor"
	Subprotocol string `mapstructure:"subprotocol"`

	// Input controls rate limiting of outbound input updates
	Input InputConfig `mapstructure:"input"`

	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`
}

// InputConfig controls how local value changes are paced before SendInput.
type InputConfig struct {
	// Policy: debounce or throttle
	Policy string `mapstructure:"policy"`
	// ThresholdMS is the rate-limit window in milliseconds
	ThresholdMS int `mapstructure:"threshold_ms"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		AppName:     "shiny-client",
		ServerURL:   "ws://127.0.0.1:8101/app",
		Subprotocol: "app",
		Input: InputConfig{
			Policy:      PolicyDebounce,
			ThresholdMS: 250,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: true,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/shiny-client.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from the provided path (if non-empty), otherwise
// it searches common locations and supports environment overrides.
// Environment variables use the prefix SHINY and `.`/`-` are replaced with
// `_`. Example: SHINY_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHINY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("subprotocol", cfg.Subprotocol)
	v.SetDefault("input.policy", cfg.Input.Policy)
	v.SetDefault("input.threshold_ms", cfg.Input.ThresholdMS)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	// Choose config file
	if path == "" {
		if envPath := os.Getenv("SHINY_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `shiny`
		v.SetConfigName("shiny")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".shiny"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Input.Policy)) {
	case PolicyDebounce, PolicyThrottle:
		c.Input.Policy = strings.ToLower(strings.TrimSpace(c.Input.Policy))
	default:
		return fmt.Errorf("invalid input.policy: %q", c.Input.Policy)
	}
	if c.Input.ThresholdMS <= 0 {
		c.Input.ThresholdMS = 250
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
