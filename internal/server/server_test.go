package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/config"
	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
)

func newTestServerContext(t *testing.T) *ServerContext {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.NotionToken = "secret_test"
	cfg.AppointmentsDBID = "appointments-db"

	svc := schedule.NewService(nil, nil, schedule.Options{Location: time.UTC})
	sc, err := NewServerContext(context.Background(), cfg, svc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newTestProvider(t *testing.T, enabled bool) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName:     "schedule-mcp-test",
		ServiceVersion:  "test",
		Enabled:         enabled,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}
