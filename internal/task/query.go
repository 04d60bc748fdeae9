package task

import (
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the ordering used by Sort.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "due"
	SortCategory SortKey = "category"
)

// ParseSortKey parses a sort key name. "none" and "" select insertion order.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "priority":
		return SortPriority, nil
	case "due", "due_date", "due-date", "date":
		return SortDueDate, nil
	case "category":
		return SortCategory, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q, must be one of: priority, due, category, none", s)
	}
}

// Sort returns tasks ordered by key.
func Sort(tasks []Task, key SortKey) []Task {
	switch key {
	case SortPriority:
		return SortByPriority(tasks)
	case SortDueDate:
		return SortByDueDate(tasks)
	case SortCategory:
		return SortByCategory(tasks)
	default:
		return slices.Clone(tasks)
	}
}

// FilterByCompletion returns the tasks whose completion state equals
// wantCompleted, in their original order.
func FilterByCompletion(tasks []Task, wantCompleted bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == wantCompleted {
			out = append(out, t)
		}
	}
	return out
}

// SortByPriority orders tasks High, Medium, Low. Equal priorities keep their
// relative order and unknown priorities come last.
func SortByPriority(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
	return out
}

// SortByDueDate orders tasks by due date, earliest first. Tasks whose date
// does not parse come last.
func SortByDueDate(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		da, errA := a.Due()
		db, errB := b.Due()
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return da.Compare(db)
	})
	return out
}

// SortByCategory orders tasks by category, ignoring case.
func SortByCategory(tasks []Task) []Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b Task) int {
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	})
	return out
}
