package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/logging"
)

// DefaultHTTPAddr is the default listen address of the streamable-http transport.
const DefaultHTTPAddr = "127.0.0.1:8080"

// HTTPServerOptions configures the streamable-http transport.
type HTTPServerOptions struct {
	Addr string
	// DisableStreaming makes every response a single JSON body.
	DisableStreaming bool
	// Health, when set, is mounted next to /mcp.
	Health *HealthChecker
}

// HTTPServer serves the MCP server over streamable HTTP at /mcp.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	opts       HTTPServerOptions
	httpServer *http.Server
}

// NewHTTPServer creates a streamable-http transport for mcpSrv.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, opts HTTPServerOptions) *HTTPServer {
	if opts.Addr == "" {
		opts.Addr = DefaultHTTPAddr
	}
	return &HTTPServer{mcpServer: mcpSrv, sc: sc, opts: opts}
}

// Handler builds the HTTP handler tree.
func (s *HTTPServer) Handler() http.Handler {
	streamOpts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath("/mcp"),
		mcpserver.WithLogger(logging.NewSlogAdapter(s.sc.Logger())),
	}
	if s.opts.DisableStreaming {
		streamOpts = append(streamOpts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer, streamOpts...)

	mux := http.NewServeMux()
	mux.Handle("/mcp", MetricsMiddleware(s.sc.Metrics(), streamable))
	if s.opts.Health != nil {
		s.opts.Health.RegisterHealthEndpoints(mux)
	}
	return mux
}

// Start listens and serves until Shutdown. The server has no
// authentication, so binding a non-loopback address logs a warning.
func (s *HTTPServer) Start() error {
	if !isLoopbackAddr(s.opts.Addr) {
		s.sc.Logger().Warn("streamable-http transport is listening on a non-loopback address without authentication",
			slog.String(logging.KeyAddr, s.opts.Addr))
	}

	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.sc.Logger().Info("starting MCP server",
		slog.String(logging.KeyTransport, "streamable-http"),
		slog.String(logging.KeyAddr, s.opts.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve streamable-http: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// isLoopbackAddr reports whether a host:port address only accepts local
// connections. An empty host binds all interfaces.
func isLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent event streams working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware records http_requests_total and
// http_request_duration_seconds for every request. A nil recorder passes
// requests through unchanged.
func MetricsMiddleware(m *instrumentation.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
