package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskman/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// FormatTask renders one task as a single list line.
func FormatTask(t task.Task) string {
	status := pendingStyle.Render("Pending")
	if t.Completed {
		status = doneStyle.Render("Done")
	}
	return fmt.Sprintf("- %s [%s] (%s) Due: %s → %s", t.Title, t.Priority, t.Category, t.DueDate, status)
}

// RenderList renders a heading followed by one line per task, or a
// "No tasks found!" notice when tasks is empty.
func RenderList(heading string, tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found!\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(heading) + "\n")
	for _, t := range tasks {
		b.WriteString(FormatTask(t) + "\n")
	}
	return b.String()
}

// RenderComments renders the comment block for a task.
func RenderComments(t task.Task) string {
	if !t.HasComments() {
		return fmt.Sprintf("No additional comments for '%s'.\n", t.Title)
	}
	return fmt.Sprintf("%s\n%s\n", headerStyle.Render(fmt.Sprintf("Additional comments for '%s':", t.Title)), t.CommentText())
}

func writeTitle(b *strings.Builder) {
	title := "Task Manager"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(dimStyle.Render(strings.Repeat("=", len(title))) + "\n\n")
}

func writeMenu(b *strings.Builder) {
	for _, item := range menuItems {
		fmt.Fprintf(b, "%s %s\n", keyStyle.Render(fmt.Sprintf("%2s.", item.key)), item.label)
	}
	b.WriteString("\n")
}

func writeStatus(b *strings.Builder, msg string, isErr bool) {
	if msg == "" {
		return
	}
	if isErr {
		b.WriteString(errStyle.Render("⚠ "+msg) + "\n\n")
		return
	}
	b.WriteString(okStyle.Render(msg) + "\n\n")
}

func writeFooter(b *strings.Builder, prompting bool) {
	if prompting {
		b.WriteString(dimStyle.Render("enter to confirm | esc to cancel | ctrl+c to quit") + "\n")
		return
	}
	b.WriteString(dimStyle.Render("enter a number and press enter | ctrl+c to quit") + "\n")
}

// IsTTY returns true if v is a terminal. v is usually os.Stdin or os.Stdout.
func IsTTY(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
