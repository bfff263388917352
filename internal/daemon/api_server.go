package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/trace"

	"github.com/mozilla-ai/maskd/internal/api"
	"github.com/mozilla-ai/maskd/internal/cmd"
	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/masking"
	"github.com/mozilla-ai/maskd/internal/observe"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

// APIServer manages the HTTP API for the daemon.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	// Logger for API server operations.
	logger hclog.Logger

	// Diagnostics records intercepted failures.
	diagnostics contracts.DiagnosticLogger

	// HealthMonitor reports the state of the diagnostic sink.
	healthMonitor contracts.HealthMonitor

	// Tracer starts request spans.
	tracer trace.Tracer

	// Addr specifies the network address to bind.
	addr string

	// CORS configuration for cross-origin requests.
	cors CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	shutdownTimeout time.Duration

	stripPassthroughDetails bool
	requestLogging          bool
	responseLogging         bool
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:                  deps.Logger.Named("api"),
		diagnostics:             deps.Diagnostics,
		healthMonitor:           deps.HealthMonitor,
		tracer:                  deps.Tracer,
		addr:                    deps.Addr,
		cors:                    apiOpts.CORS,
		shutdownTimeout:         apiOpts.ShutdownTimeout,
		stripPassthroughDetails: apiOpts.StripPassthroughDetails,
		requestLogging:          apiOpts.RequestLogging,
		responseLogging:         apiOpts.ResponseLogging,
	}, nil
}

// Handler builds the complete HTTP handler: router, observability middleware and the masking pipeline.
func (a *APIServer) Handler() (http.Handler, error) {
	interceptor, err := masking.NewInterceptor(
		a.diagnostics,
		masking.WithLogger(a.logger),
		masking.WithStripPassthroughDetails(a.stripPassthroughDetails),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create masking interceptor: %w", err)
	}

	// Create router.
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(observe.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(observe.Tracing(a.tracer))

	if a.requestLogging {
		mux.Use(observe.RequestLogger(a.logger.Named("request")))
	}
	if a.responseLogging {
		mux.Use(observe.ResponseLogger(a.logger.Named("response")))
	}

	// Add CORS middleware if enabled.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	config := huma.DefaultConfig("maskd docs", cmd.Version())
	router := humachi.New(mux, config)

	wrap := func(h pipeline.Handler) http.Handler {
		return pipeline.Serve(a.logger, pipeline.Chain(h, interceptor.Stage()))
	}

	if err := api.RegisterRoutes(mux, router, a.healthMonitor, wrap); err != nil {
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return mux, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *APIServer) Start(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	// Start the API.
	go func() {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", api.PathPrefix)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("API server did not shut down cleanly", "error", err)
		}
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins:   make([]string, 0, len(a.cors.AllowOrigins)),
		AllowedMethods:   a.cors.AllowMethods,
		AllowedHeaders:   a.cors.AllowedHeaders,
		ExposedHeaders:   a.cors.ExposedHeaders,
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	// Handle wildcard origins properly.
	for _, origin := range a.cors.AllowOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			corsOptions.AllowCredentials = false
			break
		}
		corsOptions.AllowedOrigins = append(corsOptions.AllowedOrigins, origin)
	}

	mux.Use(cors.Handler(corsOptions))
}
