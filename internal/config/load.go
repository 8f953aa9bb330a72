package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from every source and tracks where each value
// came from. fs may be nil; remaining positional arguments are available
// through fs.Args() after Load returns.
func Load(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	if fs == nil {
		fs = flag.NewFlagSet("taskboard", flag.ContinueOnError)
	}

	// Flags are parsed up front so --config is known, but applied last.
	fv := bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	cws := &ConfigWithSources{Config: cfg, Sources: make(map[string]ConfigSource)}
	for _, f := range fields {
		cws.Sources[f.key] = SourceDefault
	}

	if p := findUserConfigFile(); p != "" {
		if err := cws.loadFile(p, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := cws.loadFile(p, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	explicit := os.Getenv(envPrefix + "CONFIG")
	if fv.configFile != "" {
		explicit = fv.configFile
	}
	if explicit != "" {
		explicit = expandPath(explicit)
		if err := cws.loadFile(explicit, SourceConfigFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
	}

	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, err
	}
	applyFlags(cfg, fs, fv, cws.Sources)

	finalizeConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cws, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.RequestTimeout = 0
	cfg.ValidateResponses = true
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.ToastEnterMS = DefaultToastEnterMS
	cfg.ToastDisplayMS = DefaultToastDisplayMS
	cfg.ToastExitMS = DefaultToastExitMS
}

// finalizeConfig computes derived values.
func finalizeConfig(cfg *Config) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
}

func (cws *ConfigWithSources) loadFile(path string, source ConfigSource) error {
	fc, err := decodeFile(path)
	if err != nil {
		return err
	}
	mergeFile(cws.Config, fc, cws.Sources, source)
	cws.Files = append(cws.Files, path)
	return nil
}

// decodeFile reads a TOML or YAML config file. Unknown keys are errors.
func decodeFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc := &fileConfig{}
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(fc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return fc, nil
	}

	md, err := toml.Decode(string(data), fc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return fc, nil
}

// mergeFile copies the keys set in fc onto cfg.
func mergeFile(cfg *Config, fc *fileConfig, sources map[string]ConfigSource, source ConfigSource) {
	setIf(&cfg.BaseURL, fc.BaseURL, sources, "base_url", source)
	setIf(&cfg.RequestTimeout, fc.RequestTimeout, sources, "request_timeout", source)
	setIf(&cfg.ValidateResponses, fc.ValidateResponses, sources, "validate_responses", source)
	setIf(&cfg.LogDir, fc.LogDir, sources, "log_dir", source)
	setIf(&cfg.LogLevel, fc.LogLevel, sources, "log_level", source)
	setIf(&cfg.LogFormat, fc.LogFormat, sources, "log_format", source)
	setIf(&cfg.LogTimestamps, fc.LogTimestamps, sources, "log_timestamps", source)
	setIf(&cfg.LogCaller, fc.LogCaller, sources, "log_caller", source)
	setIf(&cfg.ToastEnterMS, fc.ToastEnterMS, sources, "toast_enter_ms", source)
	setIf(&cfg.ToastDisplayMS, fc.ToastDisplayMS, sources, "toast_display_ms", source)
	setIf(&cfg.ToastExitMS, fc.ToastExitMS, sources, "toast_exit_ms", source)
}

func setIf[T any](field *T, value *T, sources map[string]ConfigSource, name string, source ConfigSource) {
	if value == nil {
		return
	}
	*field = *value
	sources[name] = source
}
