package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		debug       bool
		expectDebug bool
	}{
		{name: "debug enabled", debug: true, expectDebug: true},
		{name: "debug disabled", debug: false, expectDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, "test", tt.debug)

			l.Debug("debug message %s", "arg")
			l.Info("info message %d", 42)

			out := buf.String()
			assert.Contains(t, out, "info message 42")
			if tt.expectDebug {
				assert.Contains(t, out, "debug message arg")
			} else {
				assert.NotContains(t, out, "debug message")
			}
		})
	}
}

func TestNew_IncludesComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "sampler", false)

	l.Warn("disk %s unavailable", "/data")
	l.Error("render failed")

	out := buf.String()
	assert.Contains(t, out, "component=sampler")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "disk /data unavailable")
	assert.Contains(t, out, "ERR")
}

func TestWith_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "", false)

	With(base, "session").Info("started")
	assert.Contains(t, buf.String(), "component=session")

	// Non-zerolog loggers pass through unchanged
	bl := NewBufferLogger()
	assert.Same(t, bl, With(bl, "session"))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termdash.log")

	l, closer, err := OpenFile(path, "cli", false)
	require.NoError(t, err)
	l.Info("hello %s", "file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestOpenFile_BadPath(t *testing.T) {
	_, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"), "cli", false)
	assert.Error(t, err)
}

func TestNoopLogger(t *testing.T) {
	l := Noop()

	// Should not panic
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug 1"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "error 4"}, l.Messages[3])

	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("fatal"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("warn"))
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	bl := NewBufferLogger()
	SetDefault(bl)
	Default().Info("via default")

	require.Len(t, bl.Messages, 1)
	assert.True(t, strings.Contains(bl.Messages[0].Message, "via default"))
}
