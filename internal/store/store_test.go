package store

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/taskman/internal/task"
)

func strPtr(s string) *string {
	return &s
}

func sample() []task.Task {
	return []task.Task{
		{Title: "Pay rent", Category: "Home", Priority: task.PriorityHigh, DueDate: "2026-11-01"},
		{Title: "Buy milk", Category: "Shopping", Priority: task.PriorityLow, DueDate: "2026-10-20", Completed: true, Comments: strPtr("oat")},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := New(path)

	require.NoError(t, s.Save(sample()))
	assert.Equal(t, sample(), s.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "]\n"))
	assert.Contains(t, string(data), "\n  {\n    \"title\": \"Pay rent\"")
	assert.Contains(t, string(data), `"comments": null`)
}

func TestSaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, New(path).Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSaveCreatesDirectoryAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "tasks.json")
	s := New(path)

	require.NoError(t, s.Save(sample()))
	require.NoError(t, s.Save(sample()[:1]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.json", entries[0].Name())
	assert.Len(t, s.Load(), 1)
}

func TestSaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := New(path)

	require.NoError(t, s.Save(sample()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, s.Save(sample()[:1]))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveFailsOnUnwritableTarget(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := New(filepath.Join(blocker, "tasks.json")).Save(sample())
	assert.Error(t, err)
}

func TestLoadMissingOrMalformed(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	missing := New(filepath.Join(dir, "missing.json"), WithLogger(logger))
	assert.Equal(t, []task.Task{}, missing.Load())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, []task.Task{}, New(bad, WithLogger(logger)).Load())

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Equal(t, []task.Task{}, New(empty).Load())

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte("null"), 0o644))
	assert.Equal(t, []task.Task{}, New(null).Load())

	assert.Contains(t, buf.String(), "tasks file not found")
	assert.Contains(t, buf.String(), "ignoring unreadable tasks file")
}

func TestLoadOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[
    {
        "title": "Gym",
        "category": "Health",
        "priority": "Medium",
        "due_date": "2026-10-20",
        "completed": false
    }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got := New(path).Load()
	require.Len(t, got, 1)
	assert.Equal(t, "Gym", got[0].Title)
	assert.Equal(t, task.PriorityMedium, got[0].Priority)
	assert.Nil(t, got[0].Comments)
}

func TestServiceWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	now := func() time.Time { return time.Date(2026, time.October, 14, 9, 0, 0, 0, time.Local) }

	svc := task.NewService(New(path), task.WithClock(now))
	_, err := svc.Add(task.NewTask{Title: "Gym", Category: "Health", Priority: "medium", DueDate: "2026-10-20"})
	require.NoError(t, err)
	require.NoError(t, svc.Complete("gym"))

	reloaded := task.NewService(New(path), task.WithClock(now))
	got, err := reloaded.Get("GYM")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Error(t, reloaded.Remove("missing"))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
