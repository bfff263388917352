package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mozilla-ai/maskd/internal/perms"
)

// Loader loads a Config from a file path.
type Loader interface {
	Load(path string) (*Config, error)
}

// Initializer creates a new configuration file.
type Initializer interface {
	Init(path string) error
}

// DefaultLoader reads and writes .maskd.toml files on the local file system.
type DefaultLoader struct{}

var (
	_ Loader      = (*DefaultLoader)(nil)
	_ Initializer = (*DefaultLoader)(nil)
)

// Init writes the default configuration to path, failing if the file already exists.
func (d *DefaultLoader) Init(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content, err := Default().Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes the file at path over the defaults, so missing keys keep their default values.
// The raw document is checked against the embedded JSON schema before it is decoded.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s, run: 'maskd init'", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to read config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if err := ValidateSchema(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigLoadFailed, path, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Track the file that loaded this config.
	cfg.configFilePath = path

	return cfg, nil
}

// Encode returns the TOML representation of the config.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Diagnostics.validate(),
		c.Observability.validate(),
	)
}

func (s ServerConfig) validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(strings.TrimSpace(s.Addr)); err != nil {
		errs = append(errs, NewErrInvalidValue("server.addr", s.Addr))
	}

	if s.ShutdownTimeout <= 0 {
		errs = append(errs, NewErrInvalidValue("server.shutdown_timeout", s.ShutdownTimeout.Duration().String()))
	}

	if s.CORS.Enabled && len(s.CORS.AllowOrigins) == 0 {
		errs = append(errs, fmt.Errorf("%w: 'server.cors.allow_origins' must not be empty when CORS is enabled", ErrInvalidValue))
	}

	return errors.Join(errs...)
}

func (d DiagnosticsConfig) validate() error {
	var errs []error

	if d.QueueSize <= 0 {
		errs = append(errs, NewErrInvalidValue("diagnostics.queue_size", fmt.Sprint(d.QueueSize)))
	}

	if !slices.Contains([]string{FormatJSON, FormatText}, d.Format) {
		errs = append(errs, NewErrInvalidValue("diagnostics.format", d.Format))
	}

	if strings.TrimSpace(d.File) != "" {
		if d.MaxAge <= 0 {
			errs = append(errs, NewErrInvalidValue("diagnostics.max_age", d.MaxAge.Duration().String()))
		}
		if d.RotationTime <= 0 {
			errs = append(errs, NewErrInvalidValue("diagnostics.rotation_time", d.RotationTime.Duration().String()))
		}
	}

	return errors.Join(errs...)
}

func (o ObservabilityConfig) validate() error {
	var errs []error

	if !slices.Contains([]string{TracingDisabled, TracingStdout, TracingOTLP}, o.Tracing) {
		errs = append(errs, NewErrInvalidValue("observability.tracing", o.Tracing))
	}

	if o.Tracing == TracingOTLP && strings.TrimSpace(o.OTLPEndpoint) == "" {
		errs = append(errs, fmt.Errorf("%w: 'observability.otlp_endpoint' is required when tracing is 'otlp'", ErrInvalidValue))
	}

	if o.SampleRatio < 0 || o.SampleRatio > 1 {
		errs = append(errs, NewErrInvalidValue("observability.sample_ratio", fmt.Sprint(o.SampleRatio)))
	}

	return errors.Join(errs...)
}
