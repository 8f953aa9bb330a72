package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nibzard/taskboard/internal/api"
	"github.com/nibzard/taskboard/internal/notify"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceUserFile   ConfigSource = "user file"
	SourceProjFile   ConfigSource = "project file"
	SourceConfigFile ConfigSource = "config file"
	SourceEnv        ConfigSource = "environment"
	SourceFlag       ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest precedence first.
	Files []string
}

// Default values.
const (
	DefaultBaseURL        = api.DefaultBaseURL
	DefaultLogDir         = "~/.taskboard/logs"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultToastEnterMS   = 100
	DefaultToastDisplayMS = 3000
	DefaultToastExitMS    = 300
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the full configuration for taskboard.
type Config struct {
	// Backend
	BaseURL           string `toml:"base_url" yaml:"base_url"`
	RequestTimeout    int    `toml:"request_timeout" yaml:"request_timeout"` // seconds, 0 disables
	ValidateResponses bool   `toml:"validate_responses" yaml:"validate_responses"`

	// Logging configuration
	LogDir        string `toml:"log_dir" yaml:"log_dir"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps" yaml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller" yaml:"log_caller"`

	// Toast lifecycle in milliseconds
	ToastEnterMS   int `toml:"toast_enter_ms" yaml:"toast_enter_ms"`
	ToastDisplayMS int `toml:"toast_display_ms" yaml:"toast_display_ms"`
	ToastExitMS    int `toml:"toast_exit_ms" yaml:"toast_exit_ms"`
}

// Timeout returns the per-request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// ToastTiming returns the configured toast lifecycle.
func (c *Config) ToastTiming() notify.Timing {
	return notify.Timing{
		Enter:   time.Duration(c.ToastEnterMS) * time.Millisecond,
		Display: time.Duration(c.ToastDisplayMS) * time.Millisecond,
		Exit:    time.Duration(c.ToastExitMS) * time.Millisecond,
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base_url: %v", ErrInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) URL", ErrInvalid, c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: unknown log_format %q (want text, json or logfmt)", ErrInvalid, c.LogFormat)
	}
	if c.ToastEnterMS < 0 || c.ToastDisplayMS < 0 || c.ToastExitMS < 0 {
		return fmt.Errorf("%w: toast timings must not be negative", ErrInvalid)
	}
	if c.ToastDisplayMS < c.ToastEnterMS {
		return fmt.Errorf("%w: toast_display_ms must be at least toast_enter_ms", ErrInvalid)
	}
	return nil
}

// fileConfig mirrors Config with optional fields so a file only overrides
// the keys it sets.
type fileConfig struct {
	BaseURL           *string `toml:"base_url" yaml:"base_url"`
	RequestTimeout    *int    `toml:"request_timeout" yaml:"request_timeout"`
	ValidateResponses *bool   `toml:"validate_responses" yaml:"validate_responses"`
	LogDir            *string `toml:"log_dir" yaml:"log_dir"`
	LogLevel          *string `toml:"log_level" yaml:"log_level"`
	LogFormat         *string `toml:"log_format" yaml:"log_format"`
	LogTimestamps     *bool   `toml:"log_timestamps" yaml:"log_timestamps"`
	LogCaller         *bool   `toml:"log_caller" yaml:"log_caller"`
	ToastEnterMS      *int    `toml:"toast_enter_ms" yaml:"toast_enter_ms"`
	ToastDisplayMS    *int    `toml:"toast_display_ms" yaml:"toast_display_ms"`
	ToastExitMS       *int    `toml:"toast_exit_ms" yaml:"toast_exit_ms"`
}
