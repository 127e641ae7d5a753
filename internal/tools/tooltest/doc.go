// Package tooltest provides in-memory providers and helpers for testing
// registered MCP tools end to end.
package tooltest
