// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskflow/taskflow.toml or OS-specific config directory)
// 3. Project config file (taskflow.toml or .taskflow.toml in the working directory)
// 4. Environment variables (TASKFLOW_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.taskflow/taskflow.toml (preferred)
// - Windows: %APPDATA%\taskflow\taskflow.toml
// - macOS: ~/Library/Application Support/taskflow/taskflow.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskflow/taskflow.toml or ~/.config/taskflow/taskflow.toml
//
// Unknown keys in a config file are rejected.
package config
