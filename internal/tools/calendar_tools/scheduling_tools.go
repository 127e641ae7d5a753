package calendar_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/common"
)

// RegisterSchedulingTools registers the free-slot finder with the MCP server
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	cfg := sc.Config()

	findFreeSlotsTool := mcp.NewTool("gcal_find_free_slots",
		mcp.WithDescription("Find open time slots of a given duration on one day, inside a working-hours window. "+
			"Slots are returned in chronological order and never overlap an existing event."),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to search (YYYY-MM-DD)"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Slot length in minutes (1-%d)", int(schedule.MaxSlotDuration.Minutes()))),
		),
		mcp.WithNumber("earliest_hour",
			mcp.Description(fmt.Sprintf("Earliest hour a slot may start, 0-23 (default %d)", cfg.EarliestHour)),
		),
		mcp.WithNumber("latest_hour",
			mcp.Description(fmt.Sprintf("Hour by which a slot must end, 1-24 (default %d)", cfg.LatestHour)),
		),
		calendarIDOption(),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(findFreeSlotsTool, common.InstrumentedToolHandlerWithService(
		"gcal_find_free_slots", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindFreeSlots(ctx, request, sc)
		}))

	return nil
}

type freeSlotsResponse struct {
	Date            string              `json:"date"`
	DurationMinutes int                 `json:"duration_minutes"`
	Count           int                 `json:"count"`
	Slots           []schedule.FreeSlot `json:"slots"`
}

type noFreeSlotsResponse struct {
	Message string              `json:"message"`
	Slots   []schedule.FreeSlot `json:"slots"`
}

func handleFindFreeSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()
	cfg := sc.Config()

	date, err := common.RequireDate(request, "date", svc.Location())
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if _, ok := request.GetArguments()["duration_minutes"]; !ok {
		return common.InvalidArgument(ctx, fmt.Errorf("duration_minutes is required"))
	}
	duration, err := common.IntInRange(request, "duration_minutes", 0, 1, int(schedule.MaxSlotDuration.Minutes()))
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	earliest, err := common.IntInRange(request, "earliest_hour", cfg.EarliestHour, 0, 23)
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	latest, err := common.IntInRange(request, "latest_hour", cfg.LatestHour, 1, 24)
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	calendarID := svc.CalendarID(request.GetString(common.ArgCalendarID, ""))
	slots, err := svc.FindFreeSlots(ctx, calendarID, schedule.SlotRequest{
		Date:         date,
		Duration:     time.Duration(duration) * time.Minute,
		EarliestHour: earliest,
		LatestHour:   latest,
	})
	if err != nil {
		return common.ErrorResult(ctx, "finding free slots", err)
	}

	sc.Metrics().RecordScheduleFindings(ctx, instrumentation.FindingFreeSlot, calendarID, len(slots))

	if len(slots) == 0 {
		return common.JSONResult(noFreeSlotsResponse{
			Message: "No free slots found on this date.",
			Slots:   []schedule.FreeSlot{},
		})
	}

	return common.JSONResult(freeSlotsResponse{
		Date:            date.Format(schedule.DateLayout),
		DurationMinutes: duration,
		Count:           len(slots),
		Slots:           slots,
	})
}
