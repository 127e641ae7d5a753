package appointment_tools

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

var (
	appointmentTypes    = []string{schedule.AppointmentTypeMedical, schedule.AppointmentTypePersonal, schedule.AppointmentTypeWork, schedule.AppointmentTypeOther}
	appointmentStatuses = []string{schedule.AppointmentStatusScheduled, schedule.AppointmentStatusInProgress, schedule.AppointmentStatusCompleted}
	canceledValues      = []string{schedule.Canceled, schedule.NotCanceled}
	recurringValues     = []string{schedule.RecurringOneTime, schedule.RecurringLimited, schedule.RecurringAlways}
)

// MaxAppointmentResults caps limit on notion_get_appointments.
const MaxAppointmentResults = 100

// RegisterAppointmentTools registers the appointment tools with the MCP server.
// Tools that write to Notion are skipped in read-only mode.
func RegisterAppointmentTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getAppointmentsTool := mcp.NewTool("notion_get_appointments",
		mcp.WithDescription("Query the Notion appointments database. Filters are combined with AND; results are sorted by start."),
		mcp.WithString("start_date",
			mcp.Description("Only appointments starting on or after this date (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Only appointments starting on or before this date (YYYY-MM-DD)"),
		),
		mcp.WithString("appointment_type",
			mcp.Description("Filter by type: Medical, Personal, Work, or Other"),
			mcp.Enum(appointmentTypes...),
		),
		mcp.WithString("status",
			mcp.Description("Filter by status: Scheduled, In progress, or Completed"),
			mcp.Enum(appointmentStatuses...),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum appointments to return (1-%d, default %d)", MaxAppointmentResults, common.DefaultLimit)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getAppointmentsTool, common.InstrumentedToolHandlerWithService(
		"notion_get_appointments", instrumentation.ServiceNotion, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAppointments(ctx, request, sc)
		}))

	getByGCalIDTool := mcp.NewTool("notion_get_appointment_by_gcal_id",
		mcp.WithDescription("Find the Notion appointment linked to a Google Calendar event. "+
			"Use this to check whether an event has already been synced."),
		mcp.WithString("gcal_event_id",
			mcp.Required(),
			mcp.Description("Google Calendar event ID"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getByGCalIDTool, common.InstrumentedToolHandlerWithService(
		"notion_get_appointment_by_gcal_id", instrumentation.ServiceNotion, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAppointmentByGCalID(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createAppointmentTool := mcp.NewTool("notion_create_appointment",
		mcp.WithDescription("Create an appointment in Notion. New appointments are Scheduled and Not canceled. "+
			"Pass gcal_event_id to link it to a Google Calendar event."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Appointment title"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start datetime or date (ISO string, e.g. '2025-06-12T14:00:00')"),
		),
		mcp.WithString("end",
			mcp.Description("End datetime or date (ISO string)"),
		),
		mcp.WithString("appointment_type",
			mcp.Description("Medical, Personal, Work, or Other (default Personal)"),
			mcp.Enum(appointmentTypes...),
		),
		mcp.WithString("notes",
			mcp.Description("Additional notes"),
		),
		mcp.WithString("gcal_event_id",
			mcp.Description("Linked Google Calendar event ID"),
		),
		mcp.WithString("gcal_series_id",
			mcp.Description("Recurring series ID of the linked event"),
		),
		mcp.WithString("recurring",
			mcp.Description("One-Time, Limited Recurring, or Recurring"),
			mcp.Enum(recurringValues...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)

	s.AddTool(createAppointmentTool, common.InstrumentedToolHandlerWithService(
		"notion_create_appointment", instrumentation.ServiceNotion, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateAppointment(ctx, request, sc)
		}))

	updateAppointmentTool := mcp.NewTool("notion_update_appointment",
		mcp.WithDescription("Update fields on a Notion appointment. Only the supplied fields change."),
		mcp.WithString("notion_id",
			mcp.Required(),
			mcp.Description("Notion page ID of the appointment"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("start",
			mcp.Description("New start datetime or date (ISO string)"),
		),
		mcp.WithString("end",
			mcp.Description("New end datetime or date (ISO string)"),
		),
		mcp.WithString("appointment_type",
			mcp.Description("New type: Medical, Personal, Work, or Other"),
			mcp.Enum(appointmentTypes...),
		),
		mcp.WithString("status",
			mcp.Description("New status: Scheduled, In progress, or Completed"),
			mcp.Enum(appointmentStatuses...),
		),
		mcp.WithString("canceled",
			mcp.Description("Canceled or Not canceled"),
			mcp.Enum(canceledValues...),
		),
		mcp.WithString("notes",
			mcp.Description("New notes"),
		),
		mcp.WithString("gcal_event_id",
			mcp.Description("Linked Google Calendar event ID"),
		),
		mcp.WithString("gcal_series_id",
			mcp.Description("Recurring series ID of the linked event"),
		),
		mcp.WithString("recurring",
			mcp.Description("One-Time, Limited Recurring, or Recurring"),
			mcp.Enum(recurringValues...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(updateAppointmentTool, common.InstrumentedToolHandlerWithService(
		"notion_update_appointment", instrumentation.ServiceNotion, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateAppointment(ctx, request, sc)
		}))

	return nil
}

type notFoundResponse struct {
	Found       bool   `json:"found"`
	GCalEventID string `json:"gcal_event_id"`
}

func handleGetAppointments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	var (
		filter schedule.AppointmentFilter
		err    error
	)
	if filter.StartDate, err = common.OptionalDateString(request, "start_date", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.EndDate, err = common.OptionalDateString(request, "end_date", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.Type, err = common.OneOf(request, "appointment_type", appointmentTypes...); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.Status, err = common.OneOf(request, "status", appointmentStatuses...); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.Limit, err = common.IntInRange(request, common.ArgLimit, common.DefaultLimit, 1, MaxAppointmentResults); err != nil {
		return common.InvalidArgument(ctx, err)
	}

	appointments, err := svc.Records().QueryAppointments(ctx, filter)
	if err != nil {
		return common.ErrorResult(ctx, "fetching appointments", err)
	}
	if appointments == nil {
		appointments = []schedule.Appointment{}
	}
	return common.JSONResult(appointments)
}

func handleGetAppointmentByGCalID(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	gcalEventID, err := request.RequireString("gcal_event_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	appointment, err := sc.Service().Records().FindAppointmentByGCalID(ctx, gcalEventID)
	if err != nil {
		return common.ErrorResult(ctx, "looking up appointment", err)
	}
	if appointment == nil {
		return common.JSONResult(notFoundResponse{Found: false, GCalEventID: gcalEventID})
	}
	return common.JSONResult(appointment)
}

func handleCreateAppointment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	title, err := request.RequireString("title")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if title == "" {
		return common.InvalidArgument(ctx, fmt.Errorf("title must not be empty"))
	}
	start, err := request.RequireString("start")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if err := validateTimestamp("start", start, svc); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	end := request.GetString("end", "")
	if end != "" {
		if err := validateTimestamp("end", end, svc); err != nil {
			return common.InvalidArgument(ctx, err)
		}
	}

	input := schedule.AppointmentInput{
		Title:        title,
		Start:        start,
		End:          end,
		Notes:        request.GetString("notes", ""),
		GCalEventID:  request.GetString("gcal_event_id", ""),
		GCalSeriesID: request.GetString("gcal_series_id", ""),
	}
	if input.Type, err = common.OneOf(request, "appointment_type", appointmentTypes...); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if input.Recurring, err = common.OneOf(request, "recurring", recurringValues...); err != nil {
		return common.InvalidArgument(ctx, err)
	}

	appointment, err := svc.Records().CreateAppointment(ctx, input)
	if err != nil {
		return common.ErrorResult(ctx, "creating appointment", err)
	}
	return common.JSONResult(appointment)
}

func handleUpdateAppointment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	notionID, err := request.RequireString("notion_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	patch := schedule.AppointmentPatch{
		Title:        common.OptionalString(request, "title"),
		Start:        common.OptionalString(request, "start"),
		End:          common.OptionalString(request, "end"),
		Notes:        common.OptionalString(request, "notes"),
		GCalEventID:  common.OptionalString(request, "gcal_event_id"),
		GCalSeriesID: common.OptionalString(request, "gcal_series_id"),
	}
	if patch.Start != nil && *patch.Start != "" {
		if err := validateTimestamp("start", *patch.Start, svc); err != nil {
			return common.InvalidArgument(ctx, err)
		}
	}
	if patch.End != nil && *patch.End != "" {
		if err := validateTimestamp("end", *patch.End, svc); err != nil {
			return common.InvalidArgument(ctx, err)
		}
	}
	enums := []struct {
		name    string
		allowed []string
		dst     **string
	}{
		{"appointment_type", appointmentTypes, &patch.Type},
		{"status", appointmentStatuses, &patch.Status},
		{"canceled", canceledValues, &patch.Canceled},
		{"recurring", recurringValues, &patch.Recurring},
	}
	for _, e := range enums {
		value, err := common.OneOf(request, e.name, e.allowed...)
		if err != nil {
			return common.InvalidArgument(ctx, err)
		}
		if value != "" {
			*e.dst = schedule.StringPtr(value)
		}
	}
	if patch.IsEmpty() {
		return common.InvalidArgument(ctx, fmt.Errorf("at least one field to update is required"))
	}

	appointment, err := svc.Records().UpdateAppointment(ctx, notionID, patch)
	if err != nil {
		return common.ErrorResult(ctx, "updating appointment", err)
	}
	return common.JSONResult(appointment)
}

// validateTimestamp rejects values the Notion date property cannot hold.
// The original string is what gets stored.
func validateTimestamp(name, value string, svc *schedule.Service) error {
	if _, err := svc.ParseInstant(value); err != nil {
		return fmt.Errorf("%s must be an ISO 8601 date or datetime, got %q", name, value)
	}
	return nil
}
