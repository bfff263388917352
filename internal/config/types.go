package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the contents of the .maskd.toml configuration file.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Masking       MaskingConfig       `toml:"masking"`
	Diagnostics   DiagnosticsConfig   `toml:"diagnostics"`
	Observability ObservabilityConfig `toml:"observability"`

	// configFilePath is the path of the file this config was loaded from, if any.
	configFilePath string
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr            string     `toml:"addr"`
	ShutdownTimeout Duration   `toml:"shutdown_timeout"`
	CORS            CORSConfig `toml:"cors"`
}

// CORSConfig configures cross-origin access for the browser client.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	AllowOrigins     []string `toml:"allow_origins"`
	AllowCredentials bool     `toml:"allow_credentials"`
	AllowMethods     []string `toml:"allow_methods"`
	AllowHeaders     []string `toml:"allow_headers"`
	MaxAge           Duration `toml:"max_age"`
}

// MaskingConfig configures the error-masking stage.
type MaskingConfig struct {
	StripPassthroughDetails bool `toml:"strip_passthrough_details"`
}

// DiagnosticsConfig configures the diagnostic sink.
type DiagnosticsConfig struct {
	QueueSize    int      `toml:"queue_size"`
	Format       string   `toml:"format"`
	File         string   `toml:"file"`
	MaxAge       Duration `toml:"max_age"`
	RotationTime Duration `toml:"rotation_time"`
}

// ObservabilityConfig toggles the telemetry stages.
type ObservabilityConfig struct {
	RequestLogging  bool    `toml:"request_logging"`
	ResponseLogging bool    `toml:"response_logging"`
	Tracing         string  `toml:"tracing"`
	OTLPEndpoint    string  `toml:"otlp_endpoint"`
	OTLPInsecure    bool    `toml:"otlp_insecure"`
	SampleRatio     float64 `toml:"sample_ratio"`
}

// Duration is a time.Duration that reads and writes as a string such as "5s".
type Duration time.Duration

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration '%s': %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// Path returns the file this config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.configFilePath
}
