package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/nibzard/taskman/internal/task"
)

var today = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.Local)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		valid     bool
		errPaths  []string
		warnCount int
	}{
		{
			name:    "valid file",
			content: `[{"title":"A","category":"x","priority":"High","due_date":"2026-11-01","completed":false,"comments":null}]`,
			valid:   true,
		},
		{
			name:    "empty array",
			content: `[]`,
			valid:   true,
		},
		{
			name:     "bad priority",
			content:  `[{"title":"A","category":"x","priority":"high","due_date":"2026-11-01","completed":false}]`,
			errPaths: []string{"[0].priority"},
		},
		{
			name:     "bad date",
			content:  `[{"title":"A","category":"x","priority":"Low","due_date":"01-11-2026","completed":false}]`,
			errPaths: []string{"[0].due_date"},
		},
		{
			name:     "missing field",
			content:  `[{"title":"A","priority":"Low","due_date":"2026-11-01","completed":false}]`,
			errPaths: []string{"[0]"},
		},
		{
			name:     "not an array",
			content:  `{"tasks":[]}`,
			errPaths: []string{""},
		},
		{
			name:     "invalid json",
			content:  `[{`,
			errPaths: []string{""},
		},
		{
			name: "duplicates and overdue",
			content: `[
				{"title":"A","category":"x","priority":"Low","due_date":"2026-11-01","completed":false},
				{"title":"a","category":"x","priority":"Low","due_date":"2020-01-01","completed":false},
				{"title":"done late","category":"x","priority":"Low","due_date":"2020-01-01","completed":true}
			]`,
			valid:     true,
			warnCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(writeFile(t, tt.content), today)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
			assert.Len(t, result.Warnings, tt.warnCount, "warnings: %v", result.Warnings)
			if tt.valid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			for _, want := range tt.errPaths {
				found := false
				for _, e := range result.Errors {
					if ve, ok := e.(*ValidationError); ok && ve.Path == want {
						found = true
					}
				}
				assert.True(t, found, "no error at %q in %v", want, result.Errors)
			}
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "nope.json"), today)
	assert.Error(t, err)
}

func TestValidateSavedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, New(path).Save(sample()))

	result, err := Validate(path, today)
	require.NoError(t, err)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.Count)
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/0", "[0]"},
		{"/2/due_date", "[2].due_date"},
		{"#/1/title", "[1].title"},
		{"/0/a~1b", "[0].a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, jsonPointerToPath(tt.in), tt.in)
	}
}

func TestEncode(t *testing.T) {
	var jsonBuf bytes.Buffer
	require.NoError(t, Encode(&jsonBuf, sample(), FormatJSON))
	assert.True(t, strings.HasPrefix(jsonBuf.String(), "[\n  {"))

	var yamlBuf bytes.Buffer
	require.NoError(t, Encode(&yamlBuf, sample(), FormatYAML))
	assert.Contains(t, yamlBuf.String(), "title: Pay rent")
	assert.Contains(t, yamlBuf.String(), "comments: null")

	var decoded []task.Task
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &decoded))
	assert.Equal(t, sample(), decoded)

	var empty bytes.Buffer
	require.NoError(t, Encode(&empty, nil, FormatJSON))
	assert.Equal(t, "[]\n", empty.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}
