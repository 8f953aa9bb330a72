package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "TASKBOARD_"

// loadFromEnv overrides config from TASKBOARD_* environment variables.
// Malformed numbers are reported rather than ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	str := func(key string, field *string) {
		if v := os.Getenv(envPrefix + strings.ToUpper(key)); v != "" {
			*field = v
			sources[key] = SourceEnv
		}
	}
	boolean := func(key string, field *bool) {
		if v := os.Getenv(envPrefix + strings.ToUpper(key)); v != "" {
			*field = boolFromString(v)
			sources[key] = SourceEnv
		}
	}
	var firstErr error
	integer := func(key string, field *int) {
		name := envPrefix + strings.ToUpper(key)
		v := os.Getenv(name)
		if v == "" {
			return
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, name, v)
			}
			return
		}
		*field = i
		sources[key] = SourceEnv
	}

	str("base_url", &cfg.BaseURL)
	integer("request_timeout", &cfg.RequestTimeout)
	boolean("validate_responses", &cfg.ValidateResponses)
	str("log_dir", &cfg.LogDir)
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
	integer("toast_enter_ms", &cfg.ToastEnterMS)
	integer("toast_display_ms", &cfg.ToastDisplayMS)
	integer("toast_exit_ms", &cfg.ToastExitMS)

	return firstErr
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
