package task

import (
	"slices"
	"strings"
	"time"
)

// Store persists a task collection.
type Store interface {
	// Load returns the persisted collection, or an empty one when nothing
	// usable is stored.
	Load() []Task
	// Save replaces the persisted collection.
	Save(tasks []Task) error
}

// Logger is the logging capability used by Service. Validation failures
// are logged at debug level since the returned error carries the reason.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
}

// NewTask holds the fields for Add.
type NewTask struct {
	Title    string
	Category string
	Priority string
	DueDate  string
	Comments string
}

// Patch holds the fields for Edit. Blank fields keep the current value.
type Patch struct {
	Title    string
	Category string
	Priority string
	DueDate  string
	Comments string
	// ClearComments removes the comment; it wins over Comments.
	ClearComments bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to decide whether a due date is in the past.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger that receives validation warnings and
// mutation events.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service owns the in-memory collection and writes it through its Store
// after every successful mutation.
type Service struct {
	store Store
	tasks []Task
	now   func() time.Time
	log   Logger
}

// NewService loads the collection from store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		log:   nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = store.Load()
	if s.tasks == nil {
		s.tasks = []Task{}
	}
	return s
}

// Tasks returns a copy of the collection in insertion order.
func (s *Service) Tasks() []Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Service) Len() int {
	return len(s.tasks)
}

// Get returns the first task matching title.
func (s *Service) Get(title string) (Task, error) {
	i := s.index(title)
	if i < 0 {
		return Task{}, &NotFoundError{Title: title}
	}
	return s.tasks[i], nil
}

// Add validates the input and appends a new, incomplete task.
func (s *Service) Add(in NewTask) (Task, error) {
	t := Task{
		Title:    strings.TrimSpace(in.Title),
		Category: strings.TrimSpace(in.Category),
		Priority: Priority(NormalizePriority(in.Priority)),
		DueDate:  strings.TrimSpace(in.DueDate),
	}
	if t.Title == "" {
		return Task{}, &ValidationError{Reason: ReasonEmptyTitle}
	}
	if err := s.validatePriority(t.Priority); err != nil {
		return Task{}, err
	}
	if err := s.validateDueDate(t.DueDate); err != nil {
		return Task{}, err
	}
	if c := strings.TrimSpace(in.Comments); c != "" {
		t.Comments = &c
	}

	prev := s.tasks
	s.tasks = append(slices.Clone(prev), t)
	if err := s.persist("add task", prev); err != nil {
		return Task{}, err
	}
	s.log.Info("task added", "title", t.Title)
	return t, nil
}

// Remove deletes the first task matching title.
func (s *Service) Remove(title string) error {
	i := s.index(title)
	if i < 0 {
		return &NotFoundError{Title: title}
	}
	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.persist("remove task", prev); err != nil {
		return err
	}
	s.log.Info("task removed", "title", prev[i].Title)
	return nil
}

// Edit merges p into the first task matching title. Priority and due date
// are validated only when they change. Any failure leaves the task as it was.
func (s *Service) Edit(title string, p Patch) (Task, error) {
	i := s.index(title)
	if i < 0 {
		return Task{}, &NotFoundError{Title: title}
	}
	cur := s.tasks[i]
	next := cur

	if v := strings.TrimSpace(p.Title); v != "" {
		next.Title = v
	}
	if v := strings.TrimSpace(p.Category); v != "" {
		next.Category = v
	}
	if v := NormalizePriority(p.Priority); v != "" {
		next.Priority = Priority(v)
	}
	if v := strings.TrimSpace(p.DueDate); v != "" {
		next.DueDate = v
	}
	if p.ClearComments {
		next.Comments = nil
	} else if v := strings.TrimSpace(p.Comments); v != "" {
		next.Comments = &v
	}

	if next.Priority != cur.Priority {
		if err := s.validatePriority(next.Priority); err != nil {
			return Task{}, err
		}
	}
	if next.DueDate != cur.DueDate {
		if err := s.validateDueDate(next.DueDate); err != nil {
			return Task{}, err
		}
	}
	if next.equal(cur) {
		return cur, nil
	}

	prev := s.tasks
	s.tasks = slices.Clone(prev)
	s.tasks[i] = next
	if err := s.persist("edit task", prev); err != nil {
		return Task{}, err
	}
	s.log.Info("task updated", "title", next.Title)
	return next, nil
}

// Complete marks the first task matching title as completed. Completing a
// task twice is not an error.
func (s *Service) Complete(title string) error {
	i := s.index(title)
	if i < 0 {
		return &NotFoundError{Title: title}
	}
	if s.tasks[i].Completed {
		return nil
	}
	prev := s.tasks
	s.tasks = slices.Clone(prev)
	s.tasks[i].Completed = true
	if err := s.persist("complete task", prev); err != nil {
		return err
	}
	s.log.Info("task completed", "title", s.tasks[i].Title)
	return nil
}

// RemoveCompleted deletes every completed task and returns how many were
// removed. Nothing is written when none were.
func (s *Service) RemoveCompleted() (int, error) {
	prev := s.tasks
	kept := FilterByCompletion(prev, false)
	removed := len(prev) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.tasks = kept
	if err := s.persist("remove completed tasks", prev); err != nil {
		return 0, err
	}
	s.log.Info("completed tasks removed", "count", removed)
	return removed, nil
}

// RemoveAll clears the collection when confirmed is true and reports
// whether it did.
func (s *Service) RemoveAll(confirmed bool) (bool, error) {
	if !confirmed {
		return false, nil
	}
	prev := s.tasks
	s.tasks = []Task{}
	if err := s.persist("remove all tasks", prev); err != nil {
		return false, err
	}
	s.log.Info("all tasks removed", "count", len(prev))
	return true, nil
}

func (s *Service) index(title string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool {
		return t.Matches(title)
	})
}

// persist saves the current collection, restoring prev on failure.
func (s *Service) persist(op string, prev []Task) error {
	if err := s.store.Save(s.tasks); err != nil {
		s.tasks = prev
		return &IOError{Op: op, Err: err}
	}
	return nil
}

// CheckPriority reports whether value would be accepted as a priority.
// It does not log.
func (s *Service) CheckPriority(value string) error {
	if err := checkPriority(NormalizePriority(value)); err != nil {
		return err
	}
	return nil
}

// CheckDueDate reports whether value would be accepted as a due date today.
// It does not log.
func (s *Service) CheckDueDate(value string) error {
	if err := checkDueDate(strings.TrimSpace(value), DateLayout, s.now()); err != nil {
		return err
	}
	return nil
}

func (s *Service) validatePriority(p Priority) error {
	if !ValidatePriority(string(p), debugReporter{s.log}) {
		return checkPriority(string(p))
	}
	return nil
}

func (s *Service) validateDueDate(value string) error {
	today := s.now()
	if !ValidateDueDate(value, DateLayout, today, debugReporter{s.log}) {
		return checkDueDate(value, DateLayout, today)
	}
	return nil
}

// debugReporter forwards validation warnings to l at debug level.
type debugReporter struct {
	l Logger
}

func (d debugReporter) Warn(msg interface{}, keyvals ...interface{}) {
	d.l.Debug(msg, keyvals...)
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Info(interface{}, ...interface{})  {}
