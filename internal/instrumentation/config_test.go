package instrumentation

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("METRICS_EXPORTER", "")
	t.Setenv("TRACING_EXPORTER", "")
	t.Setenv("AUDIT_LOGGING_INCLUDE_ARGUMENTS", "")

	cfg := DefaultConfig()

	if cfg.ServiceName != "schedule-mcp" {
		t.Errorf("ServiceName = %q, want schedule-mcp", cfg.ServiceName)
	}
	if !cfg.Enabled {
		t.Error("Enabled should default to true")
	}
	if cfg.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", cfg.MetricsExporter, ExporterPrometheus)
	}
	if cfg.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", cfg.TracingExporter, ExporterNone)
	}
	if cfg.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %v, want 0.1", cfg.TraceSamplingRate)
	}
	if !cfg.AuditLogging.Enabled || cfg.AuditLogging.IncludeArguments {
		t.Errorf("AuditLogging = %+v, want enabled without arguments", cfg.AuditLogging)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "my-schedule")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("METRICS_DETAILED_LABELS", "true")
	t.Setenv("AUDIT_LOGGING_INCLUDE_ARGUMENTS", "not-a-bool")

	cfg := DefaultConfig()

	if cfg.ServiceName != "my-schedule" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Enabled {
		t.Error("Enabled should be false")
	}
	if cfg.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %v, want 0.5", cfg.TraceSamplingRate)
	}
	if !cfg.DetailedLabels {
		t.Error("DetailedLabels should be true")
	}
	if cfg.AuditLogging.IncludeArguments {
		t.Error("invalid bool should fall back to the default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1}, false},
		{"empty exporters", Config{}, false},
		{"sampling too high", Config{TraceSamplingRate: 1.5}, true},
		{"sampling negative", Config{TraceSamplingRate: -0.1}, true},
		{"unknown metrics exporter", Config{MetricsExporter: "statsd"}, true},
		{"unknown tracing exporter", Config{TracingExporter: "jaeger"}, true},
		{"otlp tracing without endpoint", Config{TracingExporter: ExporterOTLP}, true},
		{"otlp metrics without endpoint", Config{MetricsExporter: ExporterOTLP}, true},
		{"otlp with endpoint", Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
