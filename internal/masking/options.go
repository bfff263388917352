package masking

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
)

// Options contains optional configuration for the Interceptor.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Logger receives operational (not diagnostic) messages about dispositions.
	Logger hclog.Logger

	// StripPassthroughDetails removes details from structured errors that pass through.
	// This protects against an upstream that attaches details to a 401/403/404 or a 5xx.
	StripPassthroughDetails bool
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with defaults, then applies opts in order.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		Logger:                  hclog.NewNullLogger(),
		StripPassthroughDetails: DefaultStripPassthroughDetails(),
	}

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

// WithLogger sets the operational logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Options) error {
		if logger == nil || reflect.ValueOf(logger).IsNil() {
			return fmt.Errorf("logger cannot be nil")
		}
		o.Logger = logger
		return nil
	}
}

// WithStripPassthroughDetails enables or disables removing details from passthrough errors.
func WithStripPassthroughDetails(strip bool) Option {
	return func(o *Options) error {
		o.StripPassthroughDetails = strip
		return nil
	}
}

// DefaultStripPassthroughDetails leaves passthrough errors untouched.
func DefaultStripPassthroughDetails() bool {
	return false
}
