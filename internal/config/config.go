// Package config provides console configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (VULNAI_SERVER_URL, VULNAI_ADMIN_TOKEN, ...)
//  2. Config file (~/.vulnai/config.yaml)
//  3. Default values
//
// The console is a thin client: the only things it needs to know are
// where the backend lives, how to authenticate admin calls, and how
// patient to be on the wire.
//
// Security: the admin token is never logged; it is masked in MarshalJSON.
// Validation runs immediately after load (fail-fast) and reports
// sentinel errors usable with errors.Is().
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidServerURL indicates the backend base URL is malformed.
	ErrInvalidServerURL = errors.New("invalid server URL")

	// ErrMissingAdminToken indicates no admin token is configured.
	ErrMissingAdminToken = errors.New("missing admin token")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid request timeout")
)

// Timeout bounds in seconds. Tool installs clone repositories and run
// install commands server-side, so the ceiling is generous.
const (
	MinTimeoutSeconds     = 1
	MaxTimeoutSeconds     = 600
	DefaultTimeoutSeconds = 120
)

// DefaultAdminToken matches the backend's development default. Override
// it in any non-local deployment.
const DefaultAdminToken = "default_admin_token"

// Config stores console configuration.
// SECURITY: AdminToken is masked in MarshalJSON. When adding new
// sensitive fields, update MarshalJSON.
type Config struct {
	// ServerURL is the base URL of the VulnAI backend (scheme + host).
	ServerURL string `mapstructure:"server_url" json:"server_url"`

	// AdminToken is sent as X-Admin-Token on every admin-scoped call.
	AdminToken string `mapstructure:"admin_token" json:"admin_token"` // SENSITIVE: masked in MarshalJSON

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`

	// Logging configuration.
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".vulnai")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Also support current directory

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("admin_token", DefaultAdminToken)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds environment variables explicitly.
// VULNAI_ADMIN_TOKEN is the only secret; it never touches the config
// file in provisioned deployments.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("server_url", "VULNAI_SERVER_URL")
	_ = v.BindEnv("admin_token", "VULNAI_ADMIN_TOKEN")
	_ = v.BindEnv("timeout_seconds", "VULNAI_TIMEOUT_SECONDS")
	_ = v.BindEnv("log_level", "VULNAI_LOG_LEVEL")
	_ = v.BindEnv("log_json", "VULNAI_LOG_JSON")
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidServerURL, c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidServerURL, c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrInvalidServerURL, c.ServerURL)
	}

	if c.AdminToken == "" {
		return fmt.Errorf("%w: set VULNAI_ADMIN_TOKEN or admin_token in config.yaml", ErrMissingAdminToken)
	}

	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("%w: %d (must be %d-%d seconds)",
			ErrInvalidTimeout, c.TimeoutSeconds, MinTimeoutSeconds, MaxTimeoutSeconds)
	}

	return nil
}

// MarshalJSON masks sensitive fields for safe logging.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	if masked.AdminToken != "" {
		masked.AdminToken = "***"
	}
	return json.Marshal(masked)
}

// SlogLevel translates the configured log level into a slog level.
// Unknown levels fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
