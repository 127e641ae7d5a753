package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/common"
)

// RegisterCalendarListTools registers calendar list tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("gcal_list_calendars",
		mcp.WithDescription("List all Google Calendars the user has access to, with id, name, primary flag and access role"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithService(
		"gcal_list_calendars", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	calendars, err := sc.Service().Calendar().ListCalendars(ctx)
	if err != nil {
		return common.ErrorResult(ctx, "listing calendars", err)
	}
	return common.JSONResult(calendars)
}
