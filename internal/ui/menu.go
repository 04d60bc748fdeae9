// Package ui provides the interactive numbered menu.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskman/internal/task"
)

type menuItem struct {
	key   string
	label string
	run   func(m *Model)
}

// menuItems is the menu in display order.
var menuItems = []menuItem{
	{"1", "Add Task", (*Model).startAdd},
	{"2", "Remove Task", (*Model).startRemove},
	{"3", "Remove All Tasks", (*Model).startRemoveAll},
	{"4", "Edit Task", (*Model).startEdit},
	{"5", "Mark Task as Complete", (*Model).startComplete},
	{"6", "List All Tasks", func(m *Model) {
		m.list("TO-DO LIST", m.svc.Tasks())
	}},
	{"7", "List Pending Tasks", func(m *Model) {
		m.list("PENDING TASKS", task.FilterByCompletion(m.svc.Tasks(), false))
	}},
	{"8", "List Completed Tasks", func(m *Model) {
		m.list("COMPLETED TASKS", task.FilterByCompletion(m.svc.Tasks(), true))
	}},
	{"9", "Sort by Priority", func(m *Model) {
		m.list("TO-DO LIST (Sorted by Priority)", task.SortByPriority(m.svc.Tasks()))
	}},
	{"10", "Sort by Due Date", func(m *Model) {
		m.list("TO-DO LIST (Sorted by Due Date)", task.SortByDueDate(m.svc.Tasks()))
	}},
	{"11", "Remove All Completed Tasks", (*Model).removeCompleted},
	{"12", "Sort by Category", func(m *Model) {
		m.list("TO-DO LIST (Sorted by Category)", task.SortByCategory(m.svc.Tasks()))
	}},
	{"13", "View Additional Comments for a Task", (*Model).startComments},
	{"0", "Exit", func(m *Model) { m.quitting = true }},
}

// field is one prompt of a form.
type field struct {
	key   string
	label string
	// current is shown as a hint; a blank answer keeps it when optional.
	current  string
	optional bool
	// check validates a non-blank answer; a failure re-prompts the field.
	check func(string) error
}

// form collects answers for one action, then submits them.
type form struct {
	title  string
	fields []field
	step   int
	values map[string]string
	submit func(m *Model, values map[string]string) error
}

// Model is the bubbletea model for the menu.
type Model struct {
	svc      *task.Service
	input    textinput.Model
	form     *form
	output   string
	status   string
	isErr    bool
	quitting bool
}

// NewModel returns a menu bound to svc.
func NewModel(svc *task.Service) *Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256
	in.Focus()
	m := &Model{svc: svc, input: in}
	m.resetPrompt()
	return m
}

// Run starts the menu on the terminal and blocks until the user exits.
func Run(ctx context.Context, svc *task.Service) error {
	program := tea.NewProgram(NewModel(svc), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEsc:
			if m.form != nil {
				m.form = nil
				m.setStatus("Canceled.")
				m.resetPrompt()
			}
			return m, nil
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if m.form == nil {
				m.choose(value)
			} else {
				m.answer(value)
			}
			if m.quitting {
				return m, tea.Quit
			}
			m.resetPrompt()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)
	if m.quitting {
		b.WriteString("See you next time!\n")
		return b.String()
	}
	if m.output != "" {
		b.WriteString(m.output + "\n")
	}
	writeStatus(&b, m.status, m.isErr)
	if m.form == nil {
		writeMenu(&b)
		b.WriteString("Enter your choice:\n")
	} else {
		b.WriteString(headerStyle.Render(m.form.title) + "\n")
		f := m.form.fields[m.form.step]
		b.WriteString(f.label + "\n")
	}
	b.WriteString(m.input.View() + "\n\n")
	writeFooter(&b, m.form != nil)
	return b.String()
}

// choose runs the menu entry for key.
func (m *Model) choose(key string) {
	m.output = ""
	m.setStatus("")
	for _, item := range menuItems {
		if item.key == key {
			item.run(m)
			return
		}
	}
	m.fail("Invalid choice, please try again.")
}

// answer records the answer to the current field and advances the form.
func (m *Model) answer(value string) {
	f := m.form
	fld := f.fields[f.step]
	if value == "" && !fld.optional {
		m.setError(fmt.Errorf("%s must not be empty", fld.key))
		return
	}
	if value != "" && fld.check != nil {
		if err := fld.check(value); err != nil {
			m.setError(err)
			return
		}
	}
	m.setStatus("")
	f.values[fld.key] = value
	f.step++
	if f.step < len(f.fields) {
		return
	}

	m.form = nil
	if err := f.submit(m, f.values); err != nil {
		m.setError(err)
	}
}

func (m *Model) startForm(title string, submit func(m *Model, values map[string]string) error, fields ...field) {
	m.form = &form{
		title:  title,
		fields: fields,
		values: make(map[string]string, len(fields)),
		submit: submit,
	}
}

// resetPrompt sets the input placeholder for the current step.
func (m *Model) resetPrompt() {
	m.input.Placeholder = ""
	if m.form == nil {
		return
	}
	if cur := m.form.fields[m.form.step].current; cur != "" {
		m.input.Placeholder = cur
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.isErr = false
}

func (m *Model) setError(err error) {
	m.fail(describe(err))
}

func (m *Model) fail(msg string) {
	m.status = msg
	m.isErr = true
}

// describe turns core errors into the message shown to the user.
func describe(err error) string {
	var nf *task.NotFoundError
	var ioErr *task.IOError
	switch {
	case errors.As(err, &nf):
		return "Task not found!"
	case errors.As(err, &ioErr):
		return fmt.Sprintf("Could not save tasks: %v", ioErr.Err)
	default:
		return err.Error()
	}
}

func (m *Model) list(heading string, tasks []task.Task) {
	m.output = RenderList(heading, tasks)
}

func (m *Model) requireTask(title string) error {
	_, err := m.svc.Get(title)
	return err
}

func (m *Model) startAdd() {
	m.startForm("Add Task", func(m *Model, v map[string]string) error {
		t, err := m.svc.Add(task.NewTask{
			Title:    v["title"],
			Category: v["category"],
			Priority: v["priority"],
			DueDate:  v["due date"],
			Comments: v["comments"],
		})
		if err != nil {
			return err
		}
		m.setStatus(fmt.Sprintf("Task '%s' added successfully!", t.Title))
		return nil
	},
		field{key: "title", label: "Enter task title:"},
		field{key: "category", label: "Enter task category:", optional: true},
		field{key: "priority", label: "Enter priority (Low, Medium, High):", check: m.svc.CheckPriority},
		field{key: "due date", label: "Enter due date (YYYY-MM-DD):", check: m.svc.CheckDueDate},
		field{key: "comments", label: "Enter additional comments (optional):", optional: true},
	)
}

func (m *Model) startRemove() {
	m.startForm("Remove Task", func(m *Model, v map[string]string) error {
		t, err := m.svc.Get(v["title"])
		if err != nil {
			return err
		}
		if err := m.svc.Remove(v["title"]); err != nil {
			return err
		}
		m.setStatus(fmt.Sprintf("Task '%s' removed successfully!", t.Title))
		return nil
	}, field{key: "title", label: "Enter the task title to remove:"})
}

func (m *Model) startRemoveAll() {
	m.startForm("Remove All Tasks", func(m *Model, v map[string]string) error {
		removed, err := m.svc.RemoveAll(isYes(v["confirm"]))
		if err != nil {
			return err
		}
		if removed {
			m.setStatus("All tasks removed successfully!")
		} else {
			m.setStatus("Task removal canceled.")
		}
		return nil
	}, field{
		key:   "confirm",
		label: "Are you sure you want to remove ALL tasks? (yes/no):",
		check: checkYesNo,
	})
}

func (m *Model) startEdit() {
	m.startForm("Edit Task", func(m *Model, v map[string]string) error {
		cur, err := m.svc.Get(v["title"])
		if err != nil {
			return err
		}
		m.startEditFields(cur)
		return nil
	}, field{key: "title", label: "Enter the task title to edit:"})
}

// startEditFields prompts for new values; blank answers keep the current one.
func (m *Model) startEditFields(cur task.Task) {
	comments := "none"
	if cur.HasComments() {
		comments = cur.CommentText()
	}
	m.setStatus("Leave blank to keep current value.")
	m.startForm(fmt.Sprintf("Edit Task '%s'", cur.Title), func(m *Model, v map[string]string) error {
		p := task.Patch{
			Title:    v["title"],
			Category: v["category"],
			Priority: v["priority"],
			DueDate:  v["due date"],
			Comments: v["comments"],
		}
		if strings.EqualFold(p.Comments, "-") {
			p.Comments = ""
			p.ClearComments = true
		}
		updated, err := m.svc.Edit(cur.Title, p)
		if err != nil {
			return err
		}
		m.setStatus(fmt.Sprintf("Task '%s' updated successfully!", updated.Title))
		return nil
	},
		field{key: "title", label: fmt.Sprintf("New title (current: %s):", cur.Title), current: cur.Title, optional: true},
		field{key: "category", label: fmt.Sprintf("New category (current: %s):", cur.Category), current: cur.Category, optional: true},
		field{key: "priority", label: fmt.Sprintf("New priority (current: %s):", cur.Priority), current: string(cur.Priority), optional: true,
			check: m.svc.CheckPriority},
		field{key: "due date", label: fmt.Sprintf("New due date (current: %s):", cur.DueDate), current: cur.DueDate, optional: true,
			check: unlessEqual(cur.DueDate, m.svc.CheckDueDate)},
		field{key: "comments", label: fmt.Sprintf("New comments (current: %s, '-' to clear):", comments), current: cur.CommentText(), optional: true},
	)
}

// unlessEqual skips check when the answer equals the current value, so an
// unchanged past due date is still accepted.
func unlessEqual(current string, check func(string) error) func(string) error {
	return func(v string) error {
		if v == current {
			return nil
		}
		return check(v)
	}
}

func (m *Model) startComplete() {
	m.startForm("Mark Task as Complete", func(m *Model, v map[string]string) error {
		t, err := m.svc.Get(v["title"])
		if err != nil {
			return err
		}
		if err := m.svc.Complete(v["title"]); err != nil {
			return err
		}
		m.setStatus(fmt.Sprintf("Task '%s' marked as complete!", t.Title))
		return nil
	}, field{key: "title", label: "Enter the task title to mark as complete:"})
}

func (m *Model) startComments() {
	m.startForm("View Additional Comments", func(m *Model, v map[string]string) error {
		t, err := m.svc.Get(v["title"])
		if err != nil {
			return err
		}
		m.output = RenderComments(t)
		return nil
	}, field{key: "title", label: "Enter the task title to view comments:"})
}

func (m *Model) removeCompleted() {
	n, err := m.svc.RemoveCompleted()
	if err != nil {
		m.setError(err)
		return
	}
	if n == 0 {
		m.fail("No completed tasks to remove!")
		return
	}
	m.setStatus(fmt.Sprintf("All completed tasks removed successfully! (%d)", n))
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func checkYesNo(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "n", "no":
		return nil
	}
	return errors.New("please answer yes or no")
}
