package task

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Reporter receives human-readable validation warnings.
// *log.Logger from charmbracelet/log satisfies it.
type Reporter interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// NormalizePriority trims s and capitalizes it: first letter upper, rest lower.
func NormalizePriority(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ValidatePriority reports whether value is exactly Low, Medium or High.
// Callers normalize the value first.
func ValidatePriority(value string, r Reporter) bool {
	if err := checkPriority(value); err != nil {
		warn(r, "invalid priority, must be Low, Medium or High", err)
		return false
	}
	return true
}

// ValidateDueDate reports whether value parses with layout and is not
// strictly before the date of today.
func ValidateDueDate(value, layout string, today time.Time, r Reporter) bool {
	if err := checkDueDate(value, layout, today); err != nil {
		switch err.Reason {
		case ReasonInvalidDateFormat:
			warn(r, "invalid date format, use YYYY-MM-DD", err)
		default:
			warn(r, "due date is in the past", err)
		}
		return false
	}
	return true
}

func checkPriority(value string) *ValidationError {
	if !Priority(value).Valid() {
		return &ValidationError{Reason: ReasonInvalidPriority, Value: value}
	}
	return nil
}

func checkDueDate(value, layout string, today time.Time) *ValidationError {
	due, err := time.ParseInLocation(layout, strings.TrimSpace(value), today.Location())
	if err != nil {
		return &ValidationError{Reason: ReasonInvalidDateFormat, Value: value}
	}
	if due.Before(startOfDay(today)) {
		return &ValidationError{Reason: ReasonPastDueDate, Value: value}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func warn(r Reporter, msg string, err *ValidationError) {
	if r == nil {
		return
	}
	r.Warn(msg, "value", err.Value)
}
