package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lgreperrors "github.com/standardbeagle/lgrep/internal/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collect(t *testing.T, path string) []Line {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var lines []Line
	for s.Next() {
		lines = append(lines, s.Line())
	}
	require.NoError(t, s.Err())
	return lines
}

func TestScanner_LineNumbering(t *testing.T) {
	tests := []struct {
		name    string
		content string
		texts   []string
	}{
		{"empty file", "", nil},
		{"single line no newline", "only", []string{"only"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb\n", []string{"a", "", "", "b"}},
		{"crlf stripped", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"final carriage return kept", "one\r\ntwo\r", []string{"one", "two\r"}},
		{"lone carriage return kept", "one\r", []string{"one\r"}},
		{"lone newline", "\n", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := collect(t, writeFile(t, tt.content))
			require.Len(t, lines, len(tt.texts))
			for i, line := range lines {
				assert.Equal(t, i+1, line.Number)
				assert.Equal(t, tt.texts[i], line.Text)
				assert.False(t, line.Undecodable)
			}
		})
	}
}

func TestScanner_UndecodableLine(t *testing.T) {
	path := writeFile(t, "good\nbad \xff\xfe bytes\nafter\n")
	lines := collect(t, path)

	require.Len(t, lines, 3)
	assert.Equal(t, Line{Number: 1, Text: "good"}, lines[0])
	assert.Equal(t, Line{Number: 2, Text: UndecodableText, Undecodable: true}, lines[1])
	assert.Equal(t, Line{Number: 3, Text: "after"}, lines[2])
}

func TestScanner_LongLine(t *testing.T) {
	long := strings.Repeat("x", 3*readBufferSize) + "needle"
	lines := collect(t, writeFile(t, long+"\nshort\n"))

	require.Len(t, lines, 2)
	assert.Equal(t, long, lines[0].Text)
	assert.Equal(t, "short", lines[1].Text)
}

func TestScanner_BytesRead(t *testing.T) {
	content := "abc\r\ndef\n"
	path := writeFile(t, content)

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	for s.Next() {
	}
	assert.Equal(t, int64(len(content)), s.BytesRead())
	assert.Equal(t, path, s.Path())
}

func TestScanner_OpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.Nil(t, s)

	var fre *lgreperrors.FileReadError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, "open", fre.Operation)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScanner_Restartable(t *testing.T) {
	path := writeFile(t, "one\ntwo\n")
	first := collect(t, path)
	second := collect(t, path)
	assert.Equal(t, first, second)
}

func TestScanner_CloseIdempotent(t *testing.T) {
	s, err := Open(writeFile(t, "x\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, s.Next())
}

func TestScanner_ReadErrorOnDirectory(t *testing.T) {
	// Opening a directory succeeds on Unix but reading it fails
	s, err := Open(t.TempDir())
	if err != nil {
		t.Skipf("platform refuses to open directories: %v", err)
	}
	defer s.Close()

	assert.False(t, s.Next())
	var fre *lgreperrors.FileReadError
	require.True(t, errors.As(s.Err(), &fre))
	assert.Equal(t, "read", fre.Operation)
}
