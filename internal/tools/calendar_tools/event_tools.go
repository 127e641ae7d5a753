package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/batch"
	"github.com/teemow/schedule-mcp/internal/tools/common"
)

// MaxEventResults caps max_results on gcal_get_events.
const MaxEventResults = 200

func calendarIDOption() mcp.ToolOption {
	return mcp.WithString(common.ArgCalendarID,
		mcp.Description("Google Calendar ID. Defaults to the configured calendar ('primary' unless changed)."),
	)
}

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getEventsTool := mcp.NewTool("gcal_get_events",
		mcp.WithDescription("Fetch Google Calendar events within an inclusive date range. "+
			"Recurring events are expanded into instances and ordered by start time. "+
			"Use the returned event IDs with the other gcal tools."),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("First day of the range (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("Last day of the range, inclusive (YYYY-MM-DD)"),
		),
		calendarIDOption(),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum events to return (1-%d, default %d)", MaxEventResults, schedule.DefaultMaxResults)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getEventsTool, common.InstrumentedToolHandlerWithService(
		"gcal_get_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvents(ctx, request, sc)
		}))

	getEventTool := mcp.NewTool("gcal_get_event",
		mcp.WithDescription("Get a single Google Calendar event by ID"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
		calendarIDOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithService(
		"gcal_get_event", instrumentation.ServiceCalendar, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("gcal_create_event",
		mcp.WithDescription("Create a new Google Calendar event. When blocking time for a Notion task, "+
			"include the task's Notion URL in the description."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start datetime as ISO string (e.g. '2025-06-12T14:00:00'). Without an offset the configured time zone is used."),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End datetime as ISO string (e.g. '2025-06-12T15:00:00')"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Location (address, place name, or 'Remote')"),
		),
		calendarIDOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
		"gcal_create_event", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool("gcal_update_event",
		mcp.WithDescription("Update fields on an existing Google Calendar event. Only the supplied fields change."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("start",
			mcp.Description("New start datetime (ISO string)"),
		),
		mcp.WithString("end",
			mcp.Description("New end datetime (ISO string)"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("location",
			mcp.Description("New location"),
		),
		calendarIDOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithService(
		"gcal_update_event", instrumentation.ServiceCalendar, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("gcal_delete_event",
		mcp.WithDescription("Permanently delete one or more Google Calendar events. This cannot be undone; "+
			"confirm the IDs with gcal_get_events first."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("Event ID, or a JSON array of event IDs to delete in one call"),
		),
		calendarIDOption(),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithService(
		"gcal_delete_event", instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

type eventsResponse struct {
	Count  int              `json:"count"`
	Events []schedule.Event `json:"events"`
}

func handleGetEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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
	maxResults, err := common.IntInRange(request, "max_results", schedule.DefaultMaxResults, 1, MaxEventResults)
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	events, err := svc.EventsBetween(ctx, request.GetString(common.ArgCalendarID, ""), startDate, endDate, maxResults)
	if err != nil {
		return common.ErrorResult(ctx, "fetching events", err)
	}
	if events == nil {
		events = []schedule.Event{}
	}

	return common.JSONResult(eventsResponse{Count: len(events), Events: events})
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := request.RequireString("event_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	svc := sc.Service()
	event, err := svc.Calendar().GetEvent(ctx, svc.CalendarID(request.GetString(common.ArgCalendarID, "")), eventID)
	if err != nil {
		return common.ErrorResult(ctx, "fetching event", err)
	}
	return common.JSONResult(event)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	title, err := request.RequireString("title")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if title == "" {
		return common.InvalidArgument(ctx, fmt.Errorf("title must not be empty"))
	}
	start, err := common.RequireInstant(request, "start", svc.Location())
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	end, err := common.RequireInstant(request, "end", svc.Location())
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if !end.After(start) {
		return common.InvalidArgument(ctx, fmt.Errorf("end must be after start"))
	}

	input := schedule.EventInput{
		Title:       title,
		Start:       start,
		End:         end,
		Description: request.GetString("description", ""),
		Location:    request.GetString("location", ""),
	}

	event, err := svc.Calendar().CreateEvent(ctx, svc.CalendarID(request.GetString(common.ArgCalendarID, "")), input)
	if err != nil {
		return common.ErrorResult(ctx, "creating event", err)
	}
	return common.JSONResult(event)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	eventID, err := request.RequireString("event_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	patch := schedule.EventPatch{
		Title:       common.OptionalString(request, "title"),
		Description: common.OptionalString(request, "description"),
		Location:    common.OptionalString(request, "location"),
	}
	if patch.Start, err = common.OptionalInstant(request, "start", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if patch.End, err = common.OptionalInstant(request, "end", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if patch.IsEmpty() {
		return common.InvalidArgument(ctx, fmt.Errorf("at least one of title, start, end, description or location is required"))
	}
	if patch.Start != nil && patch.End != nil && !patch.End.After(*patch.Start) {
		return common.InvalidArgument(ctx, fmt.Errorf("end must be after start"))
	}

	event, err := svc.Calendar().UpdateEvent(ctx, svc.CalendarID(request.GetString(common.ArgCalendarID, "")), eventID, patch)
	if err != nil {
		return common.ErrorResult(ctx, "updating event", err)
	}
	return common.JSONResult(event)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseStringOrArray(request.GetArguments()["event_id"], "event_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	svc := sc.Service()
	calendarID := svc.CalendarID(request.GetString(common.ArgCalendarID, ""))

	deleteOne := func(ctx context.Context, id string) (string, error) {
		if err := svc.Calendar().DeleteEvent(ctx, calendarID, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Event %s deleted successfully.", id), nil
	}

	if len(ids) == 1 {
		msg, err := deleteOne(ctx, ids[0])
		if err != nil {
			return common.ErrorResult(ctx, "deleting event", err)
		}
		return mcp.NewToolResultText(msg), nil
	}

	results := batch.ProcessBatch(ctx, ids, deleteOne)
	summary := batch.Summarize(results)
	if summary.Successful == 0 {
		return mcp.NewToolResultError(batch.FormatResults(results)), nil
	}
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
