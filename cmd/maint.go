package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/taskman/internal/config"
	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/store"
)

func (a *app) exportCommand(args []string) error {
	fset := a.newFlagSet("export")
	format := fset.String("format", "", "Export format (json, yaml)")
	outPath := fset.String("o", "", "Write to this file instead of stdout")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fset.Args())
	}

	name := *format
	if name == "" {
		switch strings.ToLower(filepath.Ext(*outPath)) {
		case ".yaml", ".yml":
			name = "yaml"
		}
	}
	f, err := store.ParseFormat(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := store.Encode(&buf, a.service().Tasks(), f); err != nil {
		return fmt.Errorf("export tasks: %w", err)
	}
	if *outPath == "" {
		_, err := a.out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(*outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export tasks: %w", err)
	}
	fmt.Fprintf(a.out, "Exported tasks to %s\n", *outPath)
	return nil
}

func (a *app) doctorCommand(args []string) error {
	fset := a.newFlagSet("doctor")
	verbose := fset.Bool("v", false, "Verbose output")
	if err := fset.Parse(args); err != nil {
		return err
	}
	remaining := fset.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	tasksPath := a.cfg.TasksFile
	if len(remaining) == 1 {
		tasksPath = remaining[0]
	}

	w := a.out
	fmt.Fprintln(w, "Taskman Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(a.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
	}
	for _, key := range a.cws.Unknown {
		fmt.Fprintf(w, "  ⚠️  Unknown key %s\n", key)
	}
	fmt.Fprintln(w)

	// Tasks file
	fmt.Fprintf(w, "Tasks file: %s\n", tasksPath)
	info, err := os.Stat(tasksPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		result, err := store.Validate(tasksPath, time.Now())
		if err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
			break
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", result.Count)
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		if *verbose && result.Valid {
			tasks, err := store.Read(tasksPath)
			if err == nil {
				for _, t := range tasks {
					fmt.Fprintf(w, "    - %s [%s] due %s\n", t.Title, t.Priority, t.DueDate)
				}
			}
		}
	}
	fmt.Fprintln(w)

	// Log file
	if a.cfg.LogFile != "" {
		fmt.Fprintf(w, "Log file: %s\n", a.cfg.LogFile)
		if _, err := os.Stat(a.cfg.LogFile); err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
		fmt.Fprintln(w)
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) configCommand(args []string) error {
	if len(args) > 0 && args[0] == "init" {
		return a.configInitCommand(args[1:])
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown config subcommand: %s", args[0])
	}

	w := a.out
	if len(a.cws.Files) == 0 {
		fmt.Fprintln(w, "# no config file found, showing defaults and overrides")
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(w, "# loaded %s\n", f)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(w, "%-15s = %-30q # %s\n", field, a.cfg.Value(field), a.cws.Sources[field])
	}
	for _, key := range a.cws.Unknown {
		fmt.Fprintf(w, "# unknown key %s\n", key)
	}
	return nil
}

func (a *app) configInitCommand(args []string) error {
	fset := a.newFlagSet("config init")
	force := fset.Bool("force", false, "Overwrite an existing config file")
	if err := fset.Parse(args); err != nil {
		return err
	}
	path := config.ProjectConfigPath()
	if fset.NArg() == 1 {
		path = fset.Arg(0)
	} else if fset.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fset.Args()[1:])
	}

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}

func (a *app) tailCommand(ctx context.Context, args []string) error {
	fset := a.newFlagSet("tail")
	follow := fset.Bool("f", false, "Follow the log (like tail -f)")
	fset.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fset.Int("n", 20, "Number of lines to show (0 = all)")
	if err := fset.Parse(args); err != nil {
		return err
	}

	logPath := a.cfg.LogFile
	if logPath == "" {
		return fmt.Errorf("no log file configured (set log_file, TASKMAN_LOG_FILE or -log-file)")
	}
	if _, err := os.Stat(logPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(a.out, "No log file found.")
		return nil
	}

	if *follow {
		fmt.Fprintf(a.errOut, "Tailing: %s (Ctrl+C to stop)\n", logPath)
	}
	return logging.Tail(ctx, a.out, logPath, *n, *follow)
}
