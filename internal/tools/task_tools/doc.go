// Package task_tools provides MCP tools for the Notion tasks database,
// including the reconciled overdue list.
package task_tools
