package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRotatingWriterCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "cli.log")
	w, err := NewRotatingWriter(RotationConfig{File: path})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestNewRotatingWriterRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelInfo, ParseLevel("info"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger("warn", &buf)
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	require.NotContains(t, out, "quiet")
	require.Contains(t, out, "loud")
}
