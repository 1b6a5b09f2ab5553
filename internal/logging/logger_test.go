package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"TRACE", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{" Warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestRunLogger_LevelRouting(t *testing.T) {
	var file, console bytes.Buffer
	rl := New(Options{
		File:         &file,
		FileLevel:    LevelInfo,
		Console:      &console,
		ConsoleLevel: LevelWarn,
	})

	rl.Debugf("hidden %d", 1)
	rl.Infof("started %s", "run")
	rl.Warnf("path %s missing", "x")
	rl.Errorf("cannot read %s", "y")

	fileOut := file.String()
	assert.NotContains(t, fileOut, "hidden")
	assert.Contains(t, fileOut, "INFO: started run")
	assert.Contains(t, fileOut, "WARN: path x missing")
	assert.Contains(t, fileOut, "ERROR: cannot read y")

	consoleOut := console.String()
	assert.NotContains(t, consoleOut, "started run")
	assert.Contains(t, consoleOut, "warning: path x missing\n")
	assert.Contains(t, consoleOut, "error: cannot read y\n")
}

func TestRunLogger_DebugLevelFile(t *testing.T) {
	var file bytes.Buffer
	rl := New(Options{File: &file, FileLevel: LevelDebug})
	rl.Debugf("per-file stats")
	assert.Contains(t, file.String(), "DEBUG: per-file stats")
}

func TestRunLogger_ColorPrefixes(t *testing.T) {
	var console bytes.Buffer
	rl := New(Options{Console: &console, ConsoleLevel: LevelWarn, Color: true})
	rl.Errorf("boom")
	assert.Contains(t, console.String(), "\x1b[")
	assert.Contains(t, console.String(), "boom")

	console.Reset()
	plain := New(Options{Console: &console, ConsoleLevel: LevelWarn, Color: false})
	plain.Errorf("boom")
	assert.Equal(t, "error: boom\n", console.String())
}

func TestRunLogger_ConsoleNotice(t *testing.T) {
	var console bytes.Buffer
	rl := New(Options{Console: &console, ConsoleLevel: LevelError})
	rl.Console("Log written to: %s", "logs/x.txt")
	assert.Equal(t, "Log written to: logs/x.txt\n", console.String())
}

func TestRunLogger_NilSinks(t *testing.T) {
	rl := New(Options{})
	assert.NotPanics(t, func() {
		rl.Errorf("nowhere")
		rl.Console("nowhere")
	})
}

func TestOpenRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 10, 14, 9, 5, 3, 0, time.Local)

	f1, p1, err := OpenRunLog(dir, now)
	require.NoError(t, err)
	defer f1.Close()
	assert.Equal(t, filepath.Join(dir, "log_2026-10-14_09-05-03.txt"), p1)

	f2, p2, err := OpenRunLog(dir, now)
	require.NoError(t, err)
	defer f2.Close()
	assert.Equal(t, filepath.Join(dir, "log_2026-10-14_09-05-03_1.txt"), p2)

	_, err = f1.WriteString("hello\n")
	require.NoError(t, err)
	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "hello"))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Warnf("path %s", "a")
	r.Errorf("read %s", "b")
	r.Infof("summary")

	assert.Len(t, r.Entries(), 3)
	assert.Equal(t, []string{"path a"}, r.AtLevel(LevelWarn))
	assert.True(t, r.Contains(LevelError, "read b"))
	assert.False(t, r.Contains(LevelError, "path"))

	var _ Logger = r
	var _ Logger = Discard
	var _ Logger = New(Options{})
}
