package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskflow configuration file
# Values can be overridden by TASKFLOW_* environment variables or CLI flags

# Task database (supports ~ expansion and %VAR% on Windows)
db_path = "~/.taskflow/taskflow.db"

# Theme used until one is saved with the toggle: "dark", "light" or "" to detect
theme = ""

# Log file; set to "" to log to stderr
log_file = "~/.taskflow/taskflow.log"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false
`
}
