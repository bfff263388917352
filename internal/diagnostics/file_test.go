package diagnostics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOutputLogger_StderrOnly(t *testing.T) {
	t.Parallel()

	logger, closer, err := NewOutputLogger(OutputConfig{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NoError(t, closer.Close())
}

func TestNewOutputLogger_RotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "diagnostics.log")

	logger, closer, err := NewOutputLogger(OutputConfig{
		File:         path,
		MaxAge:       24 * time.Hour,
		RotationTime: time.Hour,
		JSON:         true,
	})
	require.NoError(t, err)

	logger.Error("HTTP error intercepted", "request_id", "req-1")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "diagnostics.*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), `"request_id":"req-1"`)
}
