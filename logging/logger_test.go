package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var l CapturingLogger
	l.Printf("attempt %d of %d", 1, 3)
	l.Printf("done")

	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "attempt 1 of 3", out[0].Message)
	assert.Equal(t, "done", out[1].Message)
	assert.False(t, out[0].Time.IsZero())
}

func TestCapturedOutputDump(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello")

	var buf bytes.Buffer
	l.Output().Dump(&buf, "DEBUG ")
	assert.Contains(t, buf.String(), "DEBUG [")
	assert.Contains(t, buf.String(), "hello")
}

func TestNullLoggerDiscards(t *testing.T) {
	NullLogger().Printf("nothing to see")
}

func TestZerologConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ConsoleOutput: &buf})
	l.Printf("target %s answered", "http://localhost:3000")
	assert.Contains(t, buf.String(), "target http://localhost:3000 answered")
}

func TestZerologLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "error", ConsoleOutput: &buf})
	l.Printf("routine message")
	assert.Empty(t, buf.String())
}

func TestZerologFileWriter(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "harness.log")
	l := New(Options{ConsoleOutput: &buf, FilePath: path})
	l.Printf("logged to file too")
	// lumberjack creates the file lazily on first write
	assert.FileExists(t, path)
}
