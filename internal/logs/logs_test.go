package logs

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "loud", wantErr: true},
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

func TestSetupConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "conch.log")

	logger, err := Setup(Options{Level: slog.LevelInfo, Console: &console, File: file})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close() })

	logger.With("run_id", "abc").Info("command executed", "command", "echo")
	logger.Debug("only in file")

	assert.Contains(t, console.String(), "command executed")
	assert.Contains(t, console.String(), "run_id=abc")
	assert.NotContains(t, console.String(), "only in file")

	require.NoError(t, Close())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"command executed"`)
	assert.Contains(t, string(data), `"run_id":"abc"`)
	assert.Contains(t, string(data), `"msg":"only in file"`)
	assert.Same(t, logger, ConsoleLogger())
}
