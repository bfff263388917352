package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/flags"
	"github.com/mozilla-ai/maskd/internal/perms"
)

// version is set at build time via -ldflags.
var version = "dev"

// Version returns the application version.
func Version() string {
	return version
}

// BaseCmd holds state shared by every maskd command.
type BaseCmd struct {
	mu     sync.Mutex
	logger hclog.Logger
	closer io.Closer
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger = logger
}

// Logger returns the current logger for the command.
// When none has been set, one is built from the log flags (falling back to environment variables).
// Without a log path, logs are discarded.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.logger != nil {
		return c.logger, nil
	}

	logLevel := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	if logLevel == "" {
		logLevel = flags.DefaultLogLevel
	}
	level := hclog.LevelFromString(logLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level: %s", logLevel)
	}

	logFormat := strings.ToLower(strings.TrimSpace(flags.LogFormat))
	if logFormat == "" {
		logFormat = flags.DefaultLogFormat
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}

	var output io.Writer = io.Discard
	if logPath := strings.TrimSpace(flags.LogPath); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
		c.closer = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:       "maskd",
		Level:      level,
		Output:     output,
		JSONFormat: logFormat == "json",
	})

	return c.logger, nil
}

// Close releases the log file opened by Logger, if any.
func (c *BaseCmd) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closer == nil {
		return nil
	}

	err := c.closer.Close()
	c.closer = nil

	return err
}
