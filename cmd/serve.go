package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/logging"
	"github.com/teemow/schedule-mcp/internal/server"
)

// Transport names accepted by --transport.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// serveOptions holds the serve command flags.
type serveOptions struct {
	transport        string
	httpAddr         string
	metricsAddr      string
	disableStreaming bool
	readOnly         bool
	readOnlySet      bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Calendar
and Notion scheduling tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr

Read-Only Mode:
  --read-only (or SCHEDULE_READ_ONLY=true) registers only the tools that do not
  create, update or delete events, appointments or tasks.

Metrics:
  With the streamable-http transport a metrics server with /metrics, /healthz
  and /readyz listens on --metrics-addr. With stdio it only starts when
  --metrics-addr is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.readOnlySet = cmd.Flags().Changed("read-only")
			return runServe(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.transport, "transport", "t", TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Metrics server address (default: "+server.DefaultMetricsAddr+" for streamable-http, disabled for stdio)")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Answer every streamable-http request with a single JSON body")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Register only tools that do not modify calendars or Notion databases")

	return cmd
}

func (o serveOptions) validate() error {
	switch o.transport {
	case TransportStdio, TransportStreamableHTTP:
		return nil
	default:
		return fmt.Errorf("unsupported transport %q, must be %s or %s", o.transport, TransportStdio, TransportStreamableHTTP)
	}
}

// resolvedMetricsAddr returns where the metrics server listens, or "" when
// it is disabled.
func (o serveOptions) resolvedMetricsAddr() string {
	if o.metricsAddr != "" {
		return o.metricsAddr
	}
	if o.transport == TransportStreamableHTTP {
		return server.DefaultMetricsAddr
	}
	return ""
}

func runServe(opts serveOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.readOnlySet {
		cfg.ReadOnly = opts.readOnly
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up signal handling for graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	rt, err := newRuntime(shutdownCtx, cfg, logger, instrConfig)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		rt.Close(ctx)
	}()

	mcpSrv, err := newMCPServer(rt.sc, cfg.ReadOnly)
	if err != nil {
		return err
	}

	health := server.NewHealthChecker(rt.sc)

	if addr := opts.resolvedMetricsAddr(); addr != "" && rt.provider.PrometheusHandler() != nil {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    addr,
			InstrumentationProvider: rt.provider,
			Health:                  health,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	logger.Info("schedule-mcp starting",
		slog.String("version", version),
		slog.String(logging.KeyTransport, opts.transport),
		slog.Bool("read_only", cfg.ReadOnly),
		slog.String("timezone", cfg.Timezone))

	switch opts.transport {
	case TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, rt.sc, health, opts)
	default:
		return runStdioServer(shutdownCtx, mcpSrv, rt.sc, health)
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, health *server.HealthChecker) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(sc.Logger().Handler(), slog.LevelError))

	health.SetReady(true)
	sc.Logger().Info("starting MCP server", slog.String(logging.KeyTransport, TransportStdio))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	health.SetReady(false)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, health *server.HealthChecker, opts serveOptions) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerOptions{
		Addr:             opts.httpAddr,
		DisableStreaming: opts.disableStreaming,
		Health:           health,
	})

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- httpServer.Start()
	}()
	health.SetReady(true)

	select {
	case <-ctx.Done():
		sc.Logger().Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return <-serverDone
	case err := <-serverDone:
		health.SetReady(false)
		return err
	}
}
