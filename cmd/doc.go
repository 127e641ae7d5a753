// Package cmd implements the command-line interface for schedule-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (the default when no subcommand is given)
//   - auth: Authorize Google Calendar access and store the token
//   - config: Write or print the effective configuration
//   - week, conflicts, free-slots: Run a schedule query once and print JSON
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
