package config

import (
	"os"
	"strings"
)

// envVar binds an environment variable to a config field.
type envVar struct {
	name  string
	field string
	apply func(cfg *Config, v string)
}

var envVars = []envVar{
	{"TASKMAN_FILE", "tasks_file", func(c *Config, v string) { c.TasksFile = v }},
	{"TASKMAN_DEFAULT_SORT", "default_sort", func(c *Config, v string) { c.DefaultSort = v }},
	{"TASKMAN_LOG_LEVEL", "log_level", func(c *Config, v string) { c.LogLevel = v }},
	{"TASKMAN_LOG_FORMAT", "log_format", func(c *Config, v string) { c.LogFormat = v }},
	{"TASKMAN_LOG_TIMESTAMPS", "log_timestamps", func(c *Config, v string) { c.LogTimestamps = boolFromString(v) }},
	{"TASKMAN_LOG_CALLER", "log_caller", func(c *Config, v string) { c.LogCaller = boolFromString(v) }},
	{"TASKMAN_LOG_FILE", "log_file", func(c *Config, v string) { c.LogFile = v }},
}

// EnvVars lists the environment variables taskman reads.
func EnvVars() []string {
	names := make([]string, 0, len(envVars))
	for _, e := range envVars {
		names = append(names, e.name)
	}
	return names
}

// loadFromEnv overrides config from environment variables. Empty values
// are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, e := range envVars {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		e.apply(cfg, v)
		if sources != nil {
			sources[e.field] = SourceEnv
		}
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
