package daemon

import (
	"context"
	"fmt"
	"time"
)

// ShutdownHook releases a resource once the daemon has stopped serving and the diagnostic sink has drained.
type ShutdownHook func(ctx context.Context) error

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// QueueSize is the number of diagnostic records that may be pending before new ones are dropped.
	QueueSize int

	// DrainTimeout bounds how long shutdown waits for pending diagnostic records to be written.
	DrainTimeout time.Duration

	// ShutdownHooks run, in order, after the sink has drained.
	ShutdownHooks []ShutdownHook
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithQueueSize configures the capacity of the diagnostic sink.
func WithQueueSize(size int) Option {
	return func(o *Options) error {
		if size <= 0 {
			return fmt.Errorf("queue size must be positive, got %d", size)
		}
		o.QueueSize = size
		return nil
	}
}

// WithDrainTimeout configures how long to wait for the diagnostic sink to drain on shutdown.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("drain timeout must be positive, got %v", timeout)
		}
		o.DrainTimeout = timeout
		return nil
	}
}

// WithShutdownHook appends a hook that runs when the daemon stops.
func WithShutdownHook(hook ShutdownHook) Option {
	return func(o *Options) error {
		if hook == nil {
			return fmt.Errorf("shutdown hook cannot be nil")
		}
		o.ShutdownHooks = append(o.ShutdownHooks, hook)
		return nil
	}
}

// DefaultQueueSize returns the default capacity of the diagnostic sink.
func DefaultQueueSize() int {
	return 1024
}

// DefaultDrainTimeout returns the default time allowed for the diagnostic sink to drain.
func DefaultDrainTimeout() time.Duration {
	return 5 * time.Second
}

func defaultOptions() Options {
	return Options{
		QueueSize:    DefaultQueueSize(),
		DrainTimeout: DefaultDrainTimeout(),
	}
}
