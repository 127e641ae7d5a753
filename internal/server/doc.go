// Package server provides the MCP server context, the streamable-http
// transport and the Prometheus metrics server for schedule-mcp.
//
// # Key Components
//
// ServerContext carries the configuration, the schedule.Service with its
// Google Calendar and Notion providers, and the instrumentation handles
// used by every tool handler.
//
// HTTPServer exposes the MCP server at /mcp over streamable HTTP. The
// server is single-user and unauthenticated; it should stay on a loopback
// address.
//
// MetricsServer serves /metrics and the HealthChecker endpoints
// (/healthz, /readyz, /healthz/detailed) on a dedicated port.
package server
