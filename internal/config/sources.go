package config

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// field describes one configurable key.
type field struct {
	key string
	get func(*Config) string
}

var fields = []field{
	{"base_url", func(c *Config) string { return c.BaseURL }},
	{"request_timeout", func(c *Config) string { return strconv.Itoa(c.RequestTimeout) }},
	{"validate_responses", func(c *Config) string { return strconv.FormatBool(c.ValidateResponses) }},
	{"log_dir", func(c *Config) string { return c.LogDir }},
	{"log_level", func(c *Config) string { return c.LogLevel }},
	{"log_format", func(c *Config) string { return c.LogFormat }},
	{"log_timestamps", func(c *Config) string { return strconv.FormatBool(c.LogTimestamps) }},
	{"log_caller", func(c *Config) string { return strconv.FormatBool(c.LogCaller) }},
	{"toast_enter_ms", func(c *Config) string { return strconv.Itoa(c.ToastEnterMS) }},
	{"toast_display_ms", func(c *Config) string { return strconv.Itoa(c.ToastDisplayMS) }},
	{"toast_exit_ms", func(c *Config) string { return strconv.Itoa(c.ToastExitMS) }},
}

// Entry is one effective configuration value.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries returns every key with its effective value and source, in a
// stable order.
func (cws *ConfigWithSources) Entries() []Entry {
	out := make([]Entry, 0, len(fields))
	for _, f := range fields {
		src := cws.Sources[f.key]
		if src == "" {
			src = SourceDefault
		}
		out = append(out, Entry{Key: f.key, Value: f.get(cws.Config), Source: src})
	}
	return out
}

// WriteTable prints the effective configuration with sources.
func (cws *ConfigWithSources) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, e := range cws.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
	}
	for _, f := range cws.Files {
		fmt.Fprintf(tw, "# read\t%s\t\n", f)
	}
	return tw.Flush()
}

// WriteTOML encodes cfg as a TOML config file.
func WriteTOML(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// WriteYAML encodes cfg as a YAML config file.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskboard configuration file
# Values can be overridden by TASKBOARD_* environment variables or CLI flags

# Task API base URL (must end in /api)
base_url = "http://127.0.0.1:5000/api"

# Per-request timeout in seconds, 0 disables
request_timeout = 0

# Validate server payloads against the built-in schemas
validate_responses = true

# Log directory for interactive sessions (supports ~ expansion)
log_dir = "~/.taskboard/logs"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Toast lifecycle in milliseconds
toast_enter_ms = 100
toast_display_ms = 3000
toast_exit_ms = 300
`
}
