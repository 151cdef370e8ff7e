// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultDataDir   = "~/.taskflow"
	DefaultDBFile    = "taskflow.db"
	DefaultLogFile   = "taskflow.log"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Theme values accepted in config. An empty theme means "detect".
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the full configuration for taskflow.
type Config struct {
	// Paths
	DBPath  string `toml:"db_path"`
	LogFile string `toml:"log_file"`

	// Initial theme when none has been saved yet ("dark", "light" or empty to detect)
	Theme string `toml:"theme"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}
