// Package appointment_tools provides MCP tools for the Notion appointments
// database: querying, creating and updating appointments, and looking up
// the appointment linked to a Google Calendar event.
package appointment_tools
