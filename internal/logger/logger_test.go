package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"verbose", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestConfigureWritesToFile(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	path := filepath.Join(t.TempDir(), "bridges.log")
	require.NoError(t, Configure("debug", path, false))
	t.Cleanup(func() { _ = Close() })

	CommandInvocation("add", map[string]any{"a": 1})
	ContextOperation("update", "total", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Invoking command")
	assert.Contains(t, string(data), "command=add")
	assert.Contains(t, string(data), "key=total")
}

func TestConfigureClosesPreviousFile(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Configure("info", first, false))
	opened := logFile
	require.NotNil(t, opened)

	require.NoError(t, Configure("info", second, false))
	assert.ErrorIs(t, opened.Close(), os.ErrClosed, "reconfiguring closes the old file")
	assert.NotSame(t, opened, logFile)

	Info("to second")
	require.NoError(t, Close())
	assert.Nil(t, logFile)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to second")
	data, err = os.ReadFile(first)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "to second")
}

func TestConfigureLevels(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	t.Setenv("BRIDGES_LOG_LEVEL", "error")
	require.NoError(t, Configure("", "", false))
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())

	require.NoError(t, Configure("debug", "", true))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel(), "test mode pins the level")

	assert.Error(t, Configure("info", filepath.Join(t.TempDir(), "missing", "x.log"), false))
}

func TestNewStyledLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	l := NewStyledLoggerTo(&buf, "Bridge")
	l.Info("registered", "command", "add")

	assert.Contains(t, buf.String(), "Bridge")
	assert.Contains(t, buf.String(), "registered")
	assert.Contains(t, buf.String(), "command=add")
}
