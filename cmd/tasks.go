package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/task"
	"github.com/nibzard/taskman/internal/ui"
)

// errNoTTY is returned when the menu is started without a terminal.
var errNoTTY = errors.New("the interactive menu requires a terminal (see 'taskman help' for commands)")

func (a *app) menuCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if !ui.IsTTY(a.stdin) || !ui.IsTTY(a.out) {
		return errNoTTY
	}
	a.quietLog()
	return ui.Run(ctx, a.service())
}

// quietLog drops log output while the menu owns the terminal, unless the
// logger writes to a file.
func (a *app) quietLog() {
	if a.cfg.LogFile == "" {
		a.log = logging.Discard()
	}
}

func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	title := fs.String("title", "", "Task title")
	category := fs.String("category", "", "Task category")
	priority := fs.String("priority", "", "Low, Medium or High")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	comments := fs.String("comments", "", "Additional comments")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	t, err := a.service().Add(task.NewTask{
		Title:    *title,
		Category: *category,
		Priority: *priority,
		DueDate:  *due,
		Comments: *comments,
	})
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	fmt.Fprintf(a.out, "Task '%s' added successfully!\n", t.Title)
	return nil
}

func (a *app) removeCommand(args []string) error {
	title, err := titleArg(args)
	if err != nil {
		return err
	}
	svc := a.service()
	t, err := svc.Get(title)
	if err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	if err := svc.Remove(title); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	fmt.Fprintf(a.out, "Task '%s' removed successfully!\n", t.Title)
	return nil
}

func (a *app) editCommand(args []string) error {
	fs := a.newFlagSet("edit")
	newTitle := fs.String("title", "", "New title")
	category := fs.String("category", "", "New category")
	priority := fs.String("priority", "", "New priority (Low, Medium or High)")
	due := fs.String("due", "", "New due date (YYYY-MM-DD)")
	comments := fs.String("comments", "", "New comments")
	clearComments := fs.Bool("clear-comments", false, "Remove the comments")

	title, err := parseWithTitle(fs, args)
	if err != nil {
		return err
	}

	updated, err := a.service().Edit(title, task.Patch{
		Title:         *newTitle,
		Category:      *category,
		Priority:      *priority,
		DueDate:       *due,
		Comments:      *comments,
		ClearComments: *clearComments,
	})
	if err != nil {
		return fmt.Errorf("edit task: %w", err)
	}
	fmt.Fprintf(a.out, "Task '%s' updated successfully!\n", updated.Title)
	return nil
}

func (a *app) doneCommand(args []string) error {
	title, err := titleArg(args)
	if err != nil {
		return err
	}
	svc := a.service()
	t, err := svc.Get(title)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	if err := svc.Complete(title); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	fmt.Fprintf(a.out, "Task '%s' marked as complete!\n", t.Title)
	return nil
}

func (a *app) lsCommand(args []string) error {
	fs := a.newFlagSet("ls")
	pending := fs.Bool("pending", false, "Only pending tasks")
	completed := fs.Bool("completed", false, "Only completed tasks")
	sortBy := fs.String("sort", a.cfg.DefaultSort, "Sort by priority, due or category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *pending && *completed {
		return fmt.Errorf("-pending and -completed are mutually exclusive")
	}
	key, err := task.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}

	tasks := a.service().Tasks()
	heading := "TO-DO LIST"
	switch {
	case *pending:
		tasks = task.FilterByCompletion(tasks, false)
		heading = "PENDING TASKS"
	case *completed:
		tasks = task.FilterByCompletion(tasks, true)
		heading = "COMPLETED TASKS"
	}
	tasks = task.Sort(tasks, key)
	if label := sortLabel(key); label != "" {
		heading += " (Sorted by " + label + ")"
	}

	fmt.Fprint(a.out, ui.RenderList(heading, tasks))
	return nil
}

func sortLabel(key task.SortKey) string {
	switch key {
	case task.SortPriority:
		return "Priority"
	case task.SortDueDate:
		return "Due Date"
	case task.SortCategory:
		return "Category"
	default:
		return ""
	}
}

func (a *app) showCommand(args []string) error {
	title, err := titleArg(args)
	if err != nil {
		return err
	}
	t, err := a.service().Get(title)
	if err != nil {
		return fmt.Errorf("show task: %w", err)
	}
	fmt.Fprintln(a.out, ui.FormatTask(t))
	fmt.Fprint(a.out, ui.RenderComments(t))
	return nil
}

func (a *app) purgeCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	n, err := a.service().RemoveCompleted()
	if err != nil {
		return fmt.Errorf("remove completed tasks: %w", err)
	}
	if n == 0 {
		fmt.Fprintln(a.out, "No completed tasks to remove!")
		return nil
	}
	fmt.Fprintf(a.out, "Removed %d completed task(s).\n", n)
	return nil
}

func (a *app) clearCommand(args []string) error {
	fs := a.newFlagSet("clear")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.BoolVar(yes, "y", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	confirmed := *yes
	if !confirmed {
		fmt.Fprint(a.out, "Are you sure you want to remove ALL tasks? (yes/no): ")
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
		}
		confirmed = isYes(line)
	}

	removed, err := a.service().RemoveAll(confirmed)
	if err != nil {
		return fmt.Errorf("remove all tasks: %w", err)
	}
	if removed {
		fmt.Fprintln(a.out, "All tasks removed successfully!")
	} else {
		fmt.Fprintln(a.out, "Task removal canceled.")
	}
	return nil
}

// titleArg joins positional arguments so unquoted titles work.
func titleArg(args []string) (string, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return "", fmt.Errorf("missing task title")
	}
	return title, nil
}

// parseWithTitle accepts the title either before or after the flags. Leading
// words up to the first flag are joined into the title.
func parseWithTitle(fs *flag.FlagSet, args []string) (string, error) {
	n := 0
	for n < len(args) && !strings.HasPrefix(args[n], "-") {
		n++
	}
	leading := args[:n]
	if err := fs.Parse(args[n:]); err != nil {
		return "", err
	}
	if len(leading) > 0 {
		if fs.NArg() > 0 {
			return "", fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
		return titleArg(leading)
	}
	return titleArg(fs.Args())
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
