package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/maskd/internal/perms"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".maskd.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), perms.RegularFile))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout.Duration())
	require.Equal(t, []string{"http://localhost:4200"}, cfg.Server.CORS.AllowOrigins)
	require.True(t, cfg.Server.CORS.AllowCredentials)
	require.False(t, cfg.Masking.StripPassthroughDetails)
	require.Equal(t, 1024, cfg.Diagnostics.QueueSize)
	require.Equal(t, TracingDisabled, cfg.Observability.Tracing)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[server]
addr = "127.0.0.1:8080"
shutdown_timeout = "10s"

[masking]
strip_passthrough_details = true

[diagnostics]
queue_size = 16
`)

	cfg, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path())
	require.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	require.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	require.True(t, cfg.Masking.StripPassthroughDetails)
	require.Equal(t, 16, cfg.Diagnostics.QueueSize)

	// Untouched sections keep their defaults.
	require.True(t, cfg.Server.CORS.Enabled)
	require.Equal(t, FormatJSON, cfg.Diagnostics.Format)
	require.True(t, cfg.Observability.RequestLogging)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		expectedErr error
		contains    string
	}{
		{
			name:        "unknown key",
			content:     "[server]\nlisten = \":3000\"\n",
			expectedErr: ErrConfigLoadFailed,
			contains:    "listen",
		},
		{
			name:        "wrong type",
			content:     "[diagnostics]\nqueue_size = \"big\"\n",
			expectedErr: ErrInvalidValue,
			contains:    "queue_size",
		},
		{
			name:        "bad duration",
			content:     "[server]\nshutdown_timeout = \"soon\"\n",
			expectedErr: ErrInvalidValue,
			contains:    "shutdown_timeout",
		},
		{
			name:        "otlp without endpoint",
			content:     "[observability]\ntracing = \"otlp\"\n",
			expectedErr: ErrInvalidValue,
			contains:    "otlp_endpoint",
		},
		{
			name:        "address without port",
			content:     "[server]\naddr = \"localhost\"\n",
			expectedErr: ErrInvalidValue,
			contains:    "server.addr",
		},
		{
			name:        "malformed toml",
			content:     "[server\n",
			expectedErr: ErrConfigLoadFailed,
			contains:    "decode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := (&DefaultLoader{}).Load(writeConfig(t, tc.content))
			require.Error(t, err)
			require.ErrorIs(t, err, tc.expectedErr)
			require.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	_, err := (&DefaultLoader{}).Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrConfigNotFound)

	_, err = (&DefaultLoader{}).Load("  ")
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestInit_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".maskd.toml")
	loader := &DefaultLoader{}

	require.NoError(t, loader.Init(path))

	cfg, err := loader.Load(path)
	require.NoError(t, err)

	expected := Default()
	expected.configFilePath = path
	require.Equal(t, expected, cfg)

	err = loader.Init(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Server.ShutdownTimeout = 0
	cfg.Diagnostics.QueueSize = 0
	cfg.Observability.SampleRatio = 2

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidValue)
	require.Contains(t, err.Error(), "server.shutdown_timeout")
	require.Contains(t, err.Error(), "diagnostics.queue_size")
	require.Contains(t, err.Error(), "observability.sample_ratio")
}

func TestDuration_Text(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 1m30s ")))
	require.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "1m30s", string(text))

	require.Error(t, d.UnmarshalText([]byte("ninety")))
}
