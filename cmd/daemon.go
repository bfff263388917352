package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/maskd/internal/cmd"
	cmdopts "github.com/mozilla-ai/maskd/internal/cmd/options"
	"github.com/mozilla-ai/maskd/internal/config"
	"github.com/mozilla-ai/maskd/internal/daemon"
	"github.com/mozilla-ai/maskd/internal/diagnostics"
	"github.com/mozilla-ai/maskd/internal/flags"
	"github.com/mozilla-ai/maskd/internal/telemetry"
)

const (
	flagDev  = "dev"
	flagAddr = "addr"

	devAddr = "localhost:3000"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev       bool
	Addr      string
	cfgLoader config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches a `maskd` daemon instance",
		Long: "Launches a `maskd` daemon instance, which serves the HTTP API, masks sensitive client errors " +
			"and records every failure in the diagnostic log",
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagDev,
		false,
		"Run the daemon in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagAddr,
		config.Default().Server.Addr,
		"Address for the daemon to bind, overrides the config file (not applicable in --dev mode)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagDev, flagAddr)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig(logger)
	if err != nil {
		return err
	}

	addr, err := c.resolveAddr(cobraCmd, cfg, logger)
	if err != nil {
		return err
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	d, err := buildDaemon(daemonCtx, logger, addr, cfg)
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	// Print --dev mode banner if required.
	if c.Dev {
		logger.Info("Launching daemon in dev mode", "addr", addr)
		printDevBanner(cobraCmd.OutOrStdout(), addr, cfg)
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		if err != nil {
			logger.Error("daemon exited with error", "error", err)
		}
		return err // Propagate daemon failure.
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func (c *DaemonCmd) loadConfig(logger hclog.Logger) (*config.Config, error) {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Info("Config file not found, using defaults", "path", flags.ConfigFile)
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded config file", "path", cfg.Path())
	return cfg, nil
}

// resolveAddr decides the bind address: --dev wins, then an explicit --addr, then the config file.
func (c *DaemonCmd) resolveAddr(cobraCmd *cobra.Command, cfg *config.Config, logger hclog.Logger) (string, error) {
	addr := strings.TrimSpace(cfg.Server.Addr)
	if cobraCmd.Flags().Changed(flagAddr) {
		addr = strings.TrimSpace(c.Addr)
	}

	// Override address for dev mode.
	if c.Dev {
		logger.Info("Development-focused mode", "addr", addr, "override", devAddr)
		addr = devAddr
	}

	if err := daemon.IsValidAddr(addr); err != nil {
		return "", err
	}

	return addr, nil
}

// buildDaemon wires the diagnostic output, tracer and API options described by cfg into a daemon.
// Resources created here are released by the daemon's shutdown hooks.
func buildDaemon(ctx context.Context, logger hclog.Logger, addr string, cfg *config.Config) (*daemon.Daemon, error) {
	diagLogger, diagCloser, err := diagnostics.NewOutputLogger(diagnostics.OutputConfig{
		File:         cfg.Diagnostics.File,
		MaxAge:       cfg.Diagnostics.MaxAge.Duration(),
		RotationTime: cfg.Diagnostics.RotationTime.Duration(),
		JSON:         cfg.Diagnostics.Format == config.FormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("error configuring diagnostic output: %w", err)
	}

	tracer, shutdownTracer, err := telemetry.NewTracer(ctx, telemetry.Config{
		Exporter:       cfg.Observability.Tracing,
		ServiceName:    "maskd",
		ServiceVersion: cmd.Version(),
		Endpoint:       cfg.Observability.OTLPEndpoint,
		Insecure:       cfg.Observability.OTLPInsecure,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		_ = diagCloser.Close()
		return nil, fmt.Errorf("error configuring tracing: %w", err)
	}

	release := func() {
		_ = shutdownTracer(context.Background())
		_ = diagCloser.Close()
	}

	deps, err := daemon.NewDependencies(logger, addr, diagnostics.NewLogWriter(diagLogger), tracer)
	if err != nil {
		release()
		return nil, fmt.Errorf("error configuring maskd daemon dependencies: %w", err)
	}

	opts := append(
		buildDaemonOptions(cfg),
		daemon.WithShutdownHook(daemon.ShutdownHook(shutdownTracer)),
		daemon.WithShutdownHook(func(context.Context) error { return diagCloser.Close() }),
	)

	d, err := daemon.NewDaemon(deps, opts...)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create maskd daemon instance: %w", err)
	}

	return d, nil
}

// buildDaemonOptions maps the config file onto daemon options.
func buildDaemonOptions(cfg *config.Config) []daemon.Option {
	return []daemon.Option{
		daemon.WithQueueSize(cfg.Diagnostics.QueueSize),
		daemon.WithDrainTimeout(cfg.Server.ShutdownTimeout.Duration()),
		daemon.WithAPIOptions(buildAPIOptions(cfg)...),
	}
}

// buildAPIOptions maps the config file onto API server options.
func buildAPIOptions(cfg *config.Config) []daemon.APIOption {
	cors := cfg.Server.CORS

	return []daemon.APIOption{
		daemon.WithShutdownTimeout(cfg.Server.ShutdownTimeout.Duration()),
		daemon.WithCORSEnabled(cors.Enabled),
		daemon.WithCORSAllowOrigins(cors.AllowOrigins),
		daemon.WithCORSAllowMethods(cors.AllowMethods),
		daemon.WithCORSAllowHeaders(cors.AllowHeaders),
		daemon.WithCORSAllowCredentials(cors.AllowCredentials),
		daemon.WithCORSMaxAge(cors.MaxAge.Duration()),
		daemon.WithStripPassthroughDetails(cfg.Masking.StripPassthroughDetails),
		daemon.WithRequestLogging(cfg.Observability.RequestLogging),
		daemon.WithResponseLogging(cfg.Observability.ResponseLogging),
	}
}

func printDevBanner(w io.Writer, addr string, cfg *config.Config) {
	banner := fmt.Sprintf("maskd daemon running in 'dev' mode.\n\n"+
		"  Local API:\thttp://%s/api\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Config file:\t%s\n",
		addr, addr, flags.ConfigFile)

	if cfg.Diagnostics.File != "" {
		banner += fmt.Sprintf("  Diagnostics:\t%s\n", cfg.Diagnostics.File)
	}

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"
	_, _ = fmt.Fprint(w, banner)
}
