// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskboard/taskboard.toml or OS-specific config directory)
// 3. Project config file (taskboard.toml, .taskboard.toml or taskboard.yaml in the working directory)
// 4. Explicit config file (--config or TASKBOARD_CONFIG)
// 5. Environment variables (TASKBOARD_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
//
// User-level config locations:
// - ~/.taskboard/taskboard.toml (preferred)
// - ~/.taskboard/taskboard.yaml
// - Windows: %APPDATA%\taskboard\taskboard.toml
// - macOS: ~/Library/Application Support/taskboard/taskboard.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskboard/taskboard.toml or ~/.config/taskboard/taskboard.toml
package config
