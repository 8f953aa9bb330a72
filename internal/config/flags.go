package config

import "flag"

// flagValues receives parsed flag values before they are applied.
type flagValues struct {
	configFile    string
	baseURL       string
	timeout       int
	validate      bool
	logDir        string
	logLevel      string
	logFormat     string
	logTimestamps bool
	logCaller     bool
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"base-url":       "base_url",
	"timeout":        "request_timeout",
	"validate":       "validate_responses",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// bindFlags defines the global flags on fs.
func bindFlags(fs *flag.FlagSet) *flagValues {
	fv := &flagValues{}
	fs.StringVar(&fv.configFile, "config", "", "Path to a TOML or YAML config file")
	fs.StringVar(&fv.baseURL, "base-url", DefaultBaseURL, "Task API base URL")
	fs.IntVar(&fv.timeout, "timeout", 0, "Request timeout in seconds (0 disables)")
	fs.BoolVar(&fv.validate, "validate", true, "Validate server responses against the payload schemas")
	fs.StringVar(&fv.logDir, "log-dir", DefaultLogDir, "Log directory")
	fs.StringVar(&fv.logLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&fv.logFormat, "log-format", DefaultLogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&fv.logTimestamps, "log-timestamps", false, "Include timestamps in log output")
	fs.BoolVar(&fv.logCaller, "log-caller", false, "Include caller location in log output")
	return fv
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cfg *Config, fs *flag.FlagSet, fv *flagValues, sources map[string]ConfigSource) {
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch f.Name {
		case "base-url":
			cfg.BaseURL = fv.baseURL
		case "timeout":
			cfg.RequestTimeout = fv.timeout
		case "validate":
			cfg.ValidateResponses = fv.validate
		case "log-dir":
			cfg.LogDir = fv.logDir
		case "log-level":
			cfg.LogLevel = fv.logLevel
		case "log-format":
			cfg.LogFormat = fv.logFormat
		case "log-timestamps":
			cfg.LogTimestamps = fv.logTimestamps
		case "log-caller":
			cfg.LogCaller = fv.logCaller
		}
		sources[key] = SourceFlag
	})
}
