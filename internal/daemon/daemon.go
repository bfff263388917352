package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/maskd/internal/diagnostics"
)

// Daemon runs the API server together with the diagnostic sink that records its failures.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger        hclog.Logger
	apiServer     *APIServer
	sink          *diagnostics.QueueSink
	drainTimeout  time.Duration
	shutdownHooks []ShutdownHook
}

// NewDaemon creates a new Daemon instance with the provided dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	sink, err := diagnostics.NewQueueSink(logger, deps.RecordWriter, opts.QueueSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostic sink: %w", err)
	}

	diagLogger, err := diagnostics.NewLogger(logger, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostic logger: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, diagLogger, sink, deps.Tracer, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid API server dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	return &Daemon{
		logger:        logger,
		apiServer:     apiServer,
		sink:          sink,
		drainTimeout:  opts.DrainTimeout,
		shutdownHooks: opts.ShutdownHooks,
	}, nil
}

// StartAndManage serves the API until ctx is canceled or the server fails.
// The sink is closed only after the server has stopped accepting requests, so every failure
// that reached the pipeline is either written or counted as dropped.
// Draining is bounded by the drain timeout: records still queued when it passes are dropped,
// and shutdown waits only for the write already in progress.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.sink.Run()
		return nil
	})

	g.Go(func() error {
		serveErr := d.apiServer.Start(gctx)

		drainCtx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
		defer cancel()

		d.logger.Info("Draining diagnostic sink", "pending", d.sink.Pending())
		return stdErrors.Join(serveErr, d.sink.Close(drainCtx))
	})

	err := g.Wait()

	hookCtx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()
	for _, hook := range d.shutdownHooks {
		if hookErr := hook(hookCtx); hookErr != nil {
			d.logger.Warn("Shutdown hook failed", "error", hookErr)
		}
	}

	return err
}
