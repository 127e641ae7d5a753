package schedule_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/common"
)

// RegisterScheduleTools registers the schedule tools with the MCP server.
// schedule_task_block writes to the calendar and is skipped in read-only mode.
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	weekOverviewTool := mcp.NewTool("schedule_week_overview",
		mcp.WithDescription("Unified view of one Monday-Sunday week: calendar events, Notion appointments, "+
			"tasks due that week and all overdue tasks. This is the 'how does my week look?' tool."),
		mcp.WithString("date",
			mcp.Description("Any date in the target week (YYYY-MM-DD). Defaults to the current week."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(weekOverviewTool, common.InstrumentedToolHandlerWithService(
		"schedule_week_overview", instrumentation.ServiceSchedule, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWeekOverview(ctx, request, sc)
		}))

	findConflictsTool := mcp.NewTool("schedule_find_conflicts",
		mcp.WithDescription("Check a date range for overlapping events, back-to-back events with less than "+
			"10 minutes between them, and events longer than 4 hours. Each event is compared with the next one in start order."),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("First day to check (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("Last day to check, inclusive (YYYY-MM-DD)"),
		),
		mcp.WithString(common.ArgCalendarID,
			mcp.Description("Google Calendar ID. Defaults to the configured calendar."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(findConflictsTool, common.InstrumentedToolHandlerWithService(
		"schedule_find_conflicts", instrumentation.ServiceSchedule, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindConflicts(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	taskBlockTool := mcp.NewTool("schedule_task_block",
		mcp.WithDescription("Block time on Google Calendar to work on a Notion task. The event is titled "+
			"with the task name and links back to the task; the task itself is not modified. "+
			"Typical flow: notion_get_tasks, then gcal_find_free_slots, then this tool."),
		mcp.WithString("task_notion_id",
			mcp.Required(),
			mcp.Description("Notion page ID of the task"),
		),
		mcp.WithString("task_name",
			mcp.Required(),
			mcp.Description("Task name, used as the event title"),
		),
		mcp.WithString("task_url",
			mcp.Required(),
			mcp.Description("Notion URL of the task, embedded in the event description"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start datetime of the work block (ISO string)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End datetime of the work block (ISO string)"),
		),
		mcp.WithString(common.ArgCalendarID,
			mcp.Description("Calendar to create the block in. Defaults to the configured calendar."),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)

	s.AddTool(taskBlockTool, common.InstrumentedToolHandlerWithService(
		"schedule_task_block", instrumentation.ServiceSchedule, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTaskBlock(ctx, request, sc)
		}))

	return nil
}

func handleWeekOverview(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	anchor := svc.Today()
	if value := request.GetString("date", ""); value != "" {
		d, err := svc.ParseDate(value)
		if err != nil {
			return common.InvalidArgument(ctx, fmt.Errorf("date must be a date in YYYY-MM-DD format, got %q", value))
		}
		anchor = d
	}

	snapshot, err := svc.WeekOverview(ctx, anchor)
	if err != nil {
		return common.ErrorResult(ctx, "building week overview", err)
	}

	sc.Metrics().RecordScheduleFindings(ctx, instrumentation.FindingOverdueTask, "", len(snapshot.OverdueTasks))

	return common.JSONResult(snapshot)
}

func handleFindConflicts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	startDate, err := common.RequireDate(request, "start_date", svc.Location())
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	endDate, err := common.RequireDate(request, "end_date", svc.Location())
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if endDate.Before(startDate) {
		return common.InvalidArgument(ctx, fmt.Errorf("end_date must not be before start_date"))
	}

	calendarID := svc.CalendarID(request.GetString(common.ArgCalendarID, ""))
	result, err := svc.FindConflicts(ctx, calendarID, startDate, endDate)
	if err != nil {
		return common.ErrorResult(ctx, "checking for conflicts", err)
	}

	recordConflictFindings(ctx, sc, calendarID, result.ConflictReport)

	return common.JSONResult(result)
}

func recordConflictFindings(ctx context.Context, sc *server.ServerContext, calendarID string, report schedule.ConflictReport) {
	m := sc.Metrics()
	m.RecordScheduleFindings(ctx, instrumentation.FindingOverlap, calendarID, len(report.Overlaps))
	m.RecordScheduleFindings(ctx, instrumentation.FindingTightTransition, calendarID, len(report.TightTransitions))
	m.RecordScheduleFindings(ctx, instrumentation.FindingLongEvent, calendarID, len(report.LongEvents))
}

func handleTaskBlock(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	block := schedule.TaskBlock{
		CalendarID: request.GetString(common.ArgCalendarID, ""),
	}
	for _, arg := range []struct {
		name string
		dst  *string
	}{
		{"task_notion_id", &block.TaskID},
		{"task_name", &block.TaskName},
		{"task_url", &block.TaskURL},
	} {
		value, err := request.RequireString(arg.name)
		if err != nil {
			return common.InvalidArgument(ctx, err)
		}
		if value == "" {
			return common.InvalidArgument(ctx, fmt.Errorf("%s must not be empty", arg.name))
		}
		*arg.dst = value
	}

	var err error
	if block.Start, err = common.RequireInstant(request, "start", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if block.End, err = common.RequireInstant(request, "end", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if !block.End.After(block.Start) {
		return common.InvalidArgument(ctx, fmt.Errorf("end must be after start"))
	}

	result, err := svc.ScheduleTaskBlock(ctx, block)
	if err != nil {
		return common.ErrorResult(ctx, "scheduling task block", err)
	}
	return common.JSONResult(result)
}
