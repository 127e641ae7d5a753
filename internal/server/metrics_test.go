package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name        string
		config      MetricsServerConfig
		errContains string
	}{
		{
			name:   "valid config",
			config: MetricsServerConfig{Addr: "127.0.0.1:0", InstrumentationProvider: newTestProvider(t, true)},
		},
		{
			name:   "default addr",
			config: MetricsServerConfig{InstrumentationProvider: newTestProvider(t, true)},
		},
		{
			name:        "nil provider",
			config:      MetricsServerConfig{Addr: "127.0.0.1:0"},
			errContains: "instrumentation provider is required",
		},
		{
			name:        "disabled provider",
			config:      MetricsServerConfig{InstrumentationProvider: newTestProvider(t, false)},
			errContains: "instrumentation provider is not enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewMetricsServer(tt.config)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.config.Addr == "" {
				assert.Equal(t, DefaultMetricsAddr, srv.Addr())
			}
		})
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider := newTestProvider(t, true)
	provider.Metrics().RecordProviderOperation(context.Background(),
		instrumentation.ServiceNotion, instrumentation.OperationQuery, instrumentation.StatusSuccess, time.Millisecond)

	health := NewHealthChecker(nil)
	health.SetReady(true)
	srv, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: provider, Health: health})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "provider_api_operations_total")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsServer_ServeAndShutdown(t *testing.T) {
	srv, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: newTestProvider(t, true)})
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	url := "http://" + l.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "ok"
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-done)
}
