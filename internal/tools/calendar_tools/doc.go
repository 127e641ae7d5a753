// Package calendar_tools provides MCP tools for Google Calendar: listing
// calendars, reading and editing events, and finding free slots on a day.
//
// Every tool accepts an optional calendar_id that defaults to the
// configured default calendar. Timestamps without an offset and dates are
// interpreted in the configured time zone.
package calendar_tools
