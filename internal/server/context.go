package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/teemow/schedule-mcp/internal/config"
	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
)

// ServerContext holds the shared state of the MCP server: configuration,
// the schedule service and its providers, and instrumentation.
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cfg     *config.Config
	service *schedule.Service

	mu          sync.RWMutex
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	shutdown    bool
}

// NewServerContext creates a new server context. cfg and svc are required.
func NewServerContext(ctx context.Context, cfg *config.Config, svc *schedule.Service) (*ServerContext, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if svc == nil {
		return nil, errors.New("schedule service is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		cfg:     cfg,
		service: svc,
		logger:  slog.Default(),
	}, nil
}

// Context returns the server context. It is cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the effective configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Service returns the schedule service.
func (sc *ServerContext) Service() *schedule.Service {
	return sc.service
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.cfg.ReadOnly
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// SetLogger replaces the server logger. nil is ignored.
func (sc *ServerContext) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.logger = logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
