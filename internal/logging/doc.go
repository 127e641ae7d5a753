// Package logging provides structured logging utilities for schedule-mcp.
//
// All logging goes through log/slog. NewLogger builds the process logger; it
// always writes to the given writer (stderr when serving over stdio, since
// stdout carries the MCP protocol).
//
// # Usage Patterns
//
//	logger := logging.WithTool(slog.Default(), "schedule_week_overview")
//	logger.Info("week overview built",
//	    logging.Calendar(calendarID),
//	    logging.Status(logging.StatusSuccess))
//
// Tokens are never logged directly; use SanitizeToken.
package logging
