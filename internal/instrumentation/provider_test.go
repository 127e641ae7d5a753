package instrumentation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("Metrics() should never be nil")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("disabled provider should have no prometheus handler")
	}
	if provider.Tracer("test") == nil {
		t.Error("Tracer() should return a no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_PrometheusEndpoint(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "schedule-mcp-test",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	provider.Metrics().RecordToolInvocation(ctx, "get_week_overview", StatusSuccess, "", 10*time.Millisecond)

	handler := provider.PrometheusHandler()
	if handler == nil {
		t.Fatal("expected prometheus handler")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"mcp_tool_invocations_total", "get_week_overview", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewProvider_TwoPrometheusProviders(t *testing.T) {
	ctx := context.Background()
	cfg := Config{ServiceName: "a", Enabled: true, MetricsExporter: ExporterPrometheus}

	first, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("first NewProvider() error = %v", err)
	}
	defer func() { _ = first.Shutdown(ctx) }()

	second, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("second NewProvider() error = %v", err)
	}
	defer func() { _ = second.Shutdown(ctx) }()
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:         true,
		MetricsExporter: ExporterOTLP,
	})
	if err == nil {
		t.Fatal("expected error for OTLP exporter without endpoint")
	}
}
