// Package store reads and writes the tasks file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/task"
)

// DefaultFile is the tasks file name used when none is configured.
const DefaultFile = "tasks.json"

// FileStore persists tasks as a JSON array in a single file.
type FileStore struct {
	path   string
	logger *log.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used to report unreadable files.
func WithLogger(l *log.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store for path.
func New(path string, opts ...Option) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	s := &FileStore{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored tasks. A missing, unreadable or malformed file
// yields an empty collection.
func (s *FileStore) Load() []task.Task {
	tasks, err := Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("tasks file not found, starting empty", "path", s.path)
		} else {
			s.logger.Warn("ignoring unreadable tasks file", "path", s.path, "err", err)
		}
		return []task.Task{}
	}
	return tasks
}

// Save writes tasks with 2-space indentation, replacing the file atomically.
func (s *FileStore) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write tasks file %s: %w", s.path, err)
	}
	s.logger.Debug("tasks saved", "path", s.path, "count", len(tasks))
	return nil
}

// Read parses the tasks file at path and reports every failure.
func Read(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path. An existing file keeps its permissions; perm applies to new files.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
