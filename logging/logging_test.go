package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "info", Output: &buf, Session: "run-1"})
	require.NoError(t, err)

	log.With("component", "midi").Info("MIDI input connected", "port", "Elektron Digitakt", "channel", 10)
	log.Debug("hidden")

	line := buf.String()
	assert.Contains(t, line, " INFO midi: MIDI input connected")
	assert.Contains(t, line, `port="Elektron Digitakt"`)
	assert.Contains(t, line, "channel=10")
	assert.Contains(t, line, "session=run-1")
	assert.NotContains(t, line, "hidden")
	assert.NotContains(t, line, "component=")
	assert.NotContains(t, line, ".go:", "no caller at info level")
}

func TestConsoleDebugIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	log.Debug("event", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "logging_test.go:")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestConsoleGroups(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Output: &buf, Session: "s"})
	require.NoError(t, err)
	log.WithGroup("frame").Info("stats", "fps", 60.5, slog.Group("bank", "envelopes", 3))
	assert.Contains(t, buf.String(), "frame.fps=60.5")
	assert.Contains(t, buf.String(), "frame.bank.envelopes=3")
	assert.Contains(t, buf.String(), " session=s", "attrs added before the group stay ungrouped")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Level: "warn", Format: "json", Output: &buf, Session: "abc"})
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("onsets dropped", "count", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "warn", record["level"])
	assert.Equal(t, "onsets dropped", record["msg"])
	assert.Equal(t, "abc", record[FieldSession])
	assert.Equal(t, 3.0, record["count"])
	assert.Contains(t, record, "ts")
}

func TestGeneratedSession(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Output: &buf})
	require.NoError(t, err)
	log.Info("hello")
	assert.Regexp(t, `session=[0-9a-f-]{36}`, buf.String())
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vizzy.log")
	var buf bytes.Buffer
	log, closeLog, err := New(Options{Output: &buf, File: path})
	require.NoError(t, err)
	log.Info("to both")
	require.NoError(t, closeLog())
	assert.Error(t, closeLog(), "file already closed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(content))
}

func TestNoFileCloseIsNoop(t *testing.T) {
	_, closeLog, err := New(Options{Output: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.NoError(t, closeLog())
}

func TestInvalidFormatOpensNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vizzy.log")
	_, _, err := New(Options{Format: "xml", File: path})
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestInvalidOptions(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	assert.Error(t, err)
	_, _, err = New(Options{Level: "loud"})
	assert.Error(t, err)

	for name, want := range map[string]slog.Level{"DEBUG": slog.LevelDebug, "warning": slog.LevelWarn, "": slog.LevelInfo} {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}
