package diagnostics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/mozilla-ai/maskd/internal/perms"
)

// OutputConfig describes where diagnostic records are written.
type OutputConfig struct {
	// File is the rotating log file path, e.g. "logs/diagnostics.log". Empty disables file output.
	File string

	// MaxAge is how long rotated files are kept.
	MaxAge time.Duration

	// RotationTime is how often a new file is started.
	RotationTime time.Duration

	// JSON selects JSON formatted entries instead of text.
	JSON bool
}

// NewOutputLogger creates the hclog logger backing the process-wide sink.
// Records always go to stderr, and additionally to a rotating file when File is set.
// The returned io.Closer releases the file and must be called at shutdown.
func NewOutputLogger(cfg OutputConfig) (hclog.Logger, io.Closer, error) {
	var output io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if path := strings.TrimSpace(cfg.File); path != "" {
		rotating, err := newRotatingFile(path, cfg.MaxAge, cfg.RotationTime)
		if err != nil {
			return nil, nil, err
		}
		output = io.MultiWriter(os.Stderr, rotating)
		closer = rotating
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "diagnostics",
		Level:      hclog.Error,
		Output:     output,
		JSONFormat: cfg.JSON,
		TimeFormat: time.RFC3339Nano,
	})

	return logger, closer, nil
}

func newRotatingFile(path string, maxAge time.Duration, rotation time.Duration) (*rotatelogs.RotateLogs, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, perms.RegularDir); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics directory (%s): %w", dir, err)
	}

	ext := filepath.Ext(path)
	pattern := strings.TrimSuffix(path, ext) + ".%Y%m%d" + ext

	writer, err := rotatelogs.New(
		pattern,
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotation),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics file (%s): %w", path, err)
	}

	return writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
