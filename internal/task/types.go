package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical due date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the valid priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank returns the sort rank of p: High 3, Medium 2, Low 1, anything else 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Task is a single to-do item.
type Task struct {
	Title     string   `json:"title" yaml:"title"`
	Category  string   `json:"category" yaml:"category"`
	Priority  Priority `json:"priority" yaml:"priority"`
	DueDate   string   `json:"due_date" yaml:"due_date"`
	Completed bool     `json:"completed" yaml:"completed"`
	Comments  *string  `json:"comments" yaml:"comments"`
}

// Due parses the due date using DateLayout.
func (t Task) Due() (time.Time, error) {
	return time.ParseInLocation(DateLayout, t.DueDate, time.Local)
}

// HasComments reports whether the task carries a non-empty comment.
func (t Task) HasComments() bool {
	return t.Comments != nil && *t.Comments != ""
}

// CommentText returns the comment or an empty string.
func (t Task) CommentText() string {
	if t.Comments == nil {
		return ""
	}
	return *t.Comments
}

// Matches reports whether title refers to this task (case-insensitive).
func (t Task) Matches(title string) bool {
	return strings.EqualFold(strings.TrimSpace(title), t.Title)
}

func (t Task) equal(o Task) bool {
	return t.Title == o.Title &&
		t.Category == o.Category &&
		t.Priority == o.Priority &&
		t.DueDate == o.DueDate &&
		t.Completed == o.Completed &&
		t.CommentText() == o.CommentText() &&
		(t.Comments == nil) == (o.Comments == nil)
}

// Reason identifies why validation failed.
type Reason string

const (
	ReasonInvalidPriority   Reason = "invalid_priority"
	ReasonInvalidDateFormat Reason = "invalid_date_format"
	ReasonPastDueDate       Reason = "past_due_date"
	ReasonEmptyTitle        Reason = "empty_title"
)

// Sentinel errors matched by errors.Is against ValidationError and NotFoundError.
var (
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrPastDueDate       = errors.New("due date is in the past")
	ErrEmptyTitle        = errors.New("title is empty")
	ErrNotFound          = errors.New("task not found")
)

// ValidationError reports a rejected field value.
type ValidationError struct {
	Reason Reason
	Value  string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonInvalidPriority:
		return fmt.Sprintf("invalid priority %q, must be Low, Medium or High", e.Value)
	case ReasonInvalidDateFormat:
		return fmt.Sprintf("invalid date format %q, use YYYY-MM-DD", e.Value)
	case ReasonPastDueDate:
		return fmt.Sprintf("due date %s is in the past", e.Value)
	case ReasonEmptyTitle:
		return "title must not be empty"
	default:
		return fmt.Sprintf("invalid value %q", e.Value)
	}
}

// Unwrap returns the sentinel matching the reason.
func (e *ValidationError) Unwrap() error {
	switch e.Reason {
	case ReasonInvalidPriority:
		return ErrInvalidPriority
	case ReasonInvalidDateFormat:
		return ErrInvalidDateFormat
	case ReasonPastDueDate:
		return ErrPastDueDate
	case ReasonEmptyTitle:
		return ErrEmptyTitle
	default:
		return nil
	}
}

// NotFoundError reports a title with no matching task.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.Title)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IOError wraps a failure to persist the collection.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
