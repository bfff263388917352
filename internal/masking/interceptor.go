// Package masking decides, per intercepted error, whether the client sees the original error
// or a generic replacement, and rewrites the response accordingly.
package masking

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
	"github.com/mozilla-ai/maskd/internal/observe"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

// Interceptor is the error-masking pipeline stage.
// NewInterceptor should be used to create instances of Interceptor.
type Interceptor struct {
	diagnostics  contracts.DiagnosticLogger
	logger       hclog.Logger
	stripDetails bool
}

// NewInterceptor creates an Interceptor that records every failure with diagnostics before classifying it.
func NewInterceptor(diagnostics contracts.DiagnosticLogger, opt ...Option) (*Interceptor, error) {
	if diagnostics == nil || reflect.ValueOf(diagnostics).IsNil() {
		return nil, fmt.Errorf("diagnostic logger cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid masking options: %w", err)
	}

	return &Interceptor{
		diagnostics:  diagnostics,
		logger:       opts.Logger.Named("masking"),
		stripDetails: opts.StripPassthroughDetails,
	}, nil
}

// Stage returns the pipeline stage. Successful results are returned untouched.
// For a failure the stage logs the original, classifies it, and returns either the original error
// or a fresh errors.MaskedError. Panics raised by the diagnostic logger or the classifier are not recovered.
func (i *Interceptor) Stage() pipeline.Stage {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(r *http.Request) (*pipeline.Response, error) {
			resp, err := invoke(next, r)
			if err == nil {
				return resp, nil
			}

			return nil, i.handle(requestMeta(r), err)
		}
	}
}

// handle runs the log, classify, emit sequence for a single failure.
func (i *Interceptor) handle(meta domain.RequestMeta, err error) error {
	failure := errors.AsFailure(err)

	i.diagnostics.Log(meta, failure)

	disposition := Classify(failure)

	switch disposition {
	case Passthrough:
		httpErr, ok := failure.(*errors.HTTPError)
		if !ok {
			panic(fmt.Sprintf("masking: passthrough disposition for %T", failure))
		}
		i.logger.Debug("Passing error through", "request_id", meta.RequestID, "status", httpErr.StatusCode())
		if i.stripDetails && len(httpErr.Details()) > 0 {
			return httpErr.WithoutDetails()
		}
		return err
	case OpaqueRethrow:
		i.logger.Debug("Forwarding unclassified error", "request_id", meta.RequestID)
		return err
	case Mask:
		i.logger.Debug("Masking error", "request_id", meta.RequestID, "status", failure.(*errors.HTTPError).StatusCode())
		return errors.NewMasked()
	default:
		panic(fmt.Sprintf("masking: unhandled disposition %s", disposition))
	}
}

// invoke runs the handler, converting a panic into an *errors.OpaqueFailure.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func invoke(next pipeline.Handler, r *http.Request) (resp *pipeline.Response, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		resp, err = nil, errors.FromPanic(rec)
	}()

	return next(r)
}

func requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		RequestID: observe.RequestIDFromContext(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
	}
}
