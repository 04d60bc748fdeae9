// Package cmd implements the CLI command structure for taskman.
package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/config"
	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/store"
	"github.com/nibzard/taskman/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every subcommand needs.
type app struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	log    *log.Logger
	stdin  io.Reader
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// Run executes the taskman CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	cfg := cws.Config
	opts, err := logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	logger, closeLog, err := logging.Open(cfg.LogFile, stderr, opts)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	defer closeLog()

	a := &app{
		cws:    cws,
		cfg:    cfg,
		log:    logger,
		stdin:  stdin,
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
	}
	logger.Debug("config loaded", "tasks_file", cfg.TasksFile, "files", strings.Join(cws.Files, ","))

	// Determine the subcommand; the menu is the default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return a.menuCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "rm", "remove":
		return a.removeCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "done", "complete":
		return a.doneCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "show":
		return a.showCommand(remainingArgs)
	case "purge":
		return a.purgeCommand(remainingArgs)
	case "clear":
		return a.clearCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "tail":
		return a.tailCommand(ctx, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// service opens the task collection at the configured path.
func (a *app) service() *task.Service {
	st := store.New(a.cfg.TasksFile, store.WithLogger(a.log))
	return task.NewService(st, task.WithLogger(a.log))
}

// newFlagSet returns a subcommand flag set that reports errors to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("taskman "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskman version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskman - A personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskman [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu                Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  add                 Add a task")
	fmt.Fprintln(w, "  rm TITLE            Remove a task")
	fmt.Fprintln(w, "  edit TITLE          Edit a task (blank options keep current values)")
	fmt.Fprintln(w, "  done TITLE          Mark a task as complete")
	fmt.Fprintln(w, "  ls                  List tasks")
	fmt.Fprintln(w, "  show TITLE          Show a task and its comments")
	fmt.Fprintln(w, "  purge               Remove all completed tasks")
	fmt.Fprintln(w, "  clear               Remove all tasks")
	fmt.Fprintln(w, "  export              Write the task list as JSON or YAML")
	fmt.Fprintln(w, "  doctor              Check config and task file validity")
	fmt.Fprintln(w, "  config [init]       Show effective config, or write an example config file")
	fmt.Fprintln(w, "  tail                Tail the log file")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -title string       Task title (required)")
	fmt.Fprintln(w, "  -category string    Task category")
	fmt.Fprintln(w, "  -priority string    Low, Medium or High")
	fmt.Fprintln(w, "  -due string         Due date (YYYY-MM-DD, today or later)")
	fmt.Fprintln(w, "  -comments string    Additional comments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options (use with 'edit' command):")
	fmt.Fprintln(w, "  -title, -category, -priority, -due, -comments as for add")
	fmt.Fprintln(w, "  -clear-comments     Remove the comments")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -pending            Only pending tasks")
	fmt.Fprintln(w, "  -completed          Only completed tasks")
	fmt.Fprintln(w, "  -sort string        Sort by priority, due or category")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other Options:")
	fmt.Fprintln(w, "  clear -yes          Skip the confirmation prompt")
	fmt.Fprintln(w, "  export -format json|yaml -o path")
	fmt.Fprintln(w, "  config init -force  Overwrite an existing config file")
	fmt.Fprintln(w, "  tail -n int -f      Last n lines (0 = all), follow like tail -f")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s\n", strings.Join(config.EnvVars(), ", "))
}
