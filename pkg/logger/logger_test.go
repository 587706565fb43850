package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, level, tt.in)
	}
}

func captureLog(t *testing.T, format string, level slog.Level, logFn func(*slog.Logger)) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	Init(level, f, format)
	logFn(GetLogger())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestInit_SimpleFormat(t *testing.T) {
	out := captureLog(t, "simple", slog.LevelInfo, func(log *slog.Logger) {
		log.Info("server started", "port", 8080)
	})
	assert.Equal(t, "INFO server started port=8080\n", out)
}

func TestInit_VerboseFormat(t *testing.T) {
	out := captureLog(t, "verbose", slog.LevelInfo, func(log *slog.Logger) {
		log.Warn("store unavailable", "op", "peek")
	})
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="store unavailable"`)
	assert.Contains(t, out, "op=peek")
}

func TestInit_LevelFiltering(t *testing.T) {
	out := captureLog(t, "simple", slog.LevelWarn, func(log *slog.Logger) {
		log.Debug("noise")
		log.Info("more noise")
		log.Error("signal")
	})
	assert.Equal(t, "ERROR signal\n", out)
}
