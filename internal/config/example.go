package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskman configuration file
# Values can be overridden by environment variables (TASKMAN_*) or CLI flags

# Tasks file (relative paths resolve against the working directory,
# supports ~ and $VAR expansion)
tasks_file = "tasks.json"

# Default sort for "taskman ls": priority, due, category or empty
default_sort = ""

# Logging
log_level = "warn"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false

# Append logs to a file instead of stderr (read it with "taskman tail")
# log_file = "~/.taskman/taskman.log"
`
}
