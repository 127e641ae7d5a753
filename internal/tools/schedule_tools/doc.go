// Package schedule_tools provides the cross-source MCP tools: the weekly
// overview, the conflict checker and task work blocks.
package schedule_tools
