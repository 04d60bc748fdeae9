package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the config dirs at a temp tree, clears TASKMAN_*
// and moves into an empty working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range EnvVars() {
		t.Setenv(name, "")
	}
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	// Resolve symlinks (macOS /var -> /private/var) so paths compare equal.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return home, wd
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestDefaults(t *testing.T) {
	_, work := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(work, DefaultTasksFile); cfg.TasksFile != want {
		t.Errorf("TasksFile: got %q, want %q", cfg.TasksFile, want)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.DefaultSort != "" || cfg.LogFile != "" || cfg.LogTimestamps || cfg.LogCaller {
		t.Errorf("unexpected non-default values: %+v", cfg)
	}
	for _, field := range Fields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if len(cws.Files) != 0 {
		t.Errorf("Files: got %v, want none", cws.Files)
	}
}

func TestPrecedence(t *testing.T) {
	home, work := isolate(t)

	writeConfig(t, filepath.Join(home, ".taskman", "taskman.toml"), `
tasks_file = "user.json"
log_level = "info"
log_format = "json"
default_sort = "category"
`)
	writeConfig(t, filepath.Join(work, "taskman.toml"), `
tasks_file = "project.json"
log_level = "debug"
`)
	t.Setenv("TASKMAN_LOG_LEVEL", "error")
	t.Setenv("TASKMAN_LOG_CALLER", "yes")

	fs := newFlagSet()
	cws, err := LoadWithSources(fs, []string{"-file", "flag.json", "add", "-title", "x"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		value  string
		source ConfigSource
	}{
		{"tasks_file", filepath.Join(work, "flag.json"), SourceFlag},
		{"log_level", "error", SourceEnv},
		{"log_caller", "true", SourceEnv},
		{"log_format", "json", SourceUserFile},
		{"default_sort", "category", SourceUserFile},
		{"log_timestamps", "false", SourceDefault},
	}
	for _, tt := range tests {
		if got := cfg.Value(tt.field); got != tt.value {
			t.Errorf("%s: got %q, want %q", tt.field, got, tt.value)
		}
		if got := cws.Sources[tt.field]; got != tt.source {
			t.Errorf("source of %s: got %q, want %q", tt.field, got, tt.source)
		}
	}

	if got := strings.Join(fs.Args(), " "); got != "add -title x" {
		t.Errorf("remaining args: got %q", got)
	}
	if len(cws.Files) != 2 || cws.ConfigFile() != "taskman.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestProjectFileOnlySetsDefinedKeys(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, ".taskman.toml"), `log_timestamps = false`)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cws.Sources["log_timestamps"] != SourceProjFile {
		t.Errorf("log_timestamps source: got %q", cws.Sources["log_timestamps"])
	}
	if cws.Sources["tasks_file"] != SourceDefault {
		t.Errorf("tasks_file source: got %q", cws.Sources["tasks_file"])
	}
}

func TestXDGUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux/BSD only")
	}
	home, _ := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "taskman", "taskman.toml"), `log_level = "info"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
}

func TestUnknownKeys(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, "taskman.toml"), `
tasks_file = "a.json"
colour = "blue"
`)

	cws, err := LoadWithSources(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if len(cws.Unknown) != 1 || !strings.HasSuffix(cws.Unknown[0], "colour") {
		t.Errorf("Unknown: got %v, want [taskman.toml: colour]", cws.Unknown)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{"bad toml", `tasks_file = `, nil, "loading project config file"},
		{"bad sort", `default_sort = "title"`, nil, "default_sort"},
		{"unknown flag", ``, []string{"-nope"}, "parsing flags"},
		{"empty file path", ``, []string{"-file", ""}, "tasks_file must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			writeConfig(t, filepath.Join(work, "taskman.toml"), tt.file)

			fs := newFlagSet()
			fs.SetOutput(&strings.Builder{})
			_, err := Load(fs, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error: got %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKMAN_FILE", "/tmp/env-tasks.json")
	t.Setenv("TASKMAN_DEFAULT_SORT", "due")
	t.Setenv("TASKMAN_LOG_FORMAT", "logfmt")
	t.Setenv("TASKMAN_LOG_TIMESTAMPS", "1")
	t.Setenv("TASKMAN_LOG_FILE", "/tmp/taskman.log")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.TasksFile != "/tmp/env-tasks.json" {
		t.Errorf("TasksFile: got %q", cfg.TasksFile)
	}
	if cfg.DefaultSort != "due" {
		t.Errorf("DefaultSort: got %q", cfg.DefaultSort)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q", cfg.LogFormat)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if cfg.LogFile != "/tmp/taskman.log" {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
	if len(sources) != 5 {
		t.Errorf("sources: got %v, want 5 env entries", sources)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	t.Setenv("TASKMAN_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$TASKMAN_TEST_DIR/tasks.json", "/data/tasks.json"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"off", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		if got := boolFromString(tt.in); got != tt.want {
			t.Errorf("boolFromString(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("decode example: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example has unknown keys: %v", md.Undecoded())
	}
	if cfg.TasksFile != DefaultTasksFile || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("example disagrees with defaults: %+v", cfg)
	}
}
