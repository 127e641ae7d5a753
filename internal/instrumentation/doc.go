// Package instrumentation provides OpenTelemetry instrumentation for the
// schedule MCP server.
//
// # Metrics
//
// HTTP (streamable-http transport only):
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Providers:
//   - provider_api_operations_total: Counter of Google Calendar and Notion calls by service, operation, status
//   - provider_api_operation_duration_seconds: Histogram of provider call durations
//   - google_token_refresh_total: Counter of OAuth token refreshes by result
//
// Tools and schedule analysis:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//   - schedule_findings_total: Counter of overlaps, tight transitions, long events,
//     free slots and overdue tasks reported, by kind
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and for every
// provider call (calendar.<operation>, notion.<operation>). ObserveCalendar
// and ObserveRecords add both spans and provider metrics around a provider.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: schedule-mcp)
//   - METRICS_DETAILED_LABELS: add error_kind to tool metrics
//   - AUDIT_LOGGING_ENABLED / AUDIT_LOGGING_INCLUDE_ARGUMENTS
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	cal := instrumentation.ObserveCalendar(calendarClient, provider.Metrics())
//	provider.Metrics().RecordToolInvocation(ctx, "schedule_find_conflicts", "success", "", time.Since(start))
package instrumentation
