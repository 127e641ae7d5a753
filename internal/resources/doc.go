// Package resources provides MCP resources: read-only data that clients can
// fetch without calling a tool, such as the effective server configuration
// and the list of visible calendars.
package resources
