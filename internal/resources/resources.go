package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/server"
)

// Resource URIs.
const (
	ConfigURI    = "schedule://config"
	CalendarsURI = "schedule://calendars"
)

// RegisterResources registers the schedule resources with the MCP server
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	configResource := mcp.NewResource(
		ConfigURI,
		"Server Configuration",
		mcp.WithResourceDescription("Effective schedule-mcp configuration with secrets redacted: time zone, default calendar, working hours and Notion database IDs"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(configResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleConfig(ctx, request, sc)
	})

	calendarsResource := mcp.NewResource(
		CalendarsURI,
		"Google Calendars",
		mcp.WithResourceDescription("Calendars visible to the authorized Google account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendars(ctx, request, sc)
	})

	return nil
}

type configView struct {
	TimeZone          string `json:"timezone"`
	DefaultCalendarID string `json:"default_calendar_id"`
	AppointmentsDBID  string `json:"appointments_db_id"`
	TasksDBID         string `json:"tasks_db_id"`
	NotionToken       string `json:"notion_token"`
	EarliestHour      int    `json:"earliest_hour"`
	LatestHour        int    `json:"latest_hour"`
	ReadOnly          bool   `json:"read_only"`
	Today             string `json:"today"`
}

func handleConfig(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cfg := sc.Config().Redacted()

	view := configView{
		TimeZone:          cfg.Timezone,
		DefaultCalendarID: cfg.DefaultCalendarID,
		AppointmentsDBID:  cfg.AppointmentsDBID,
		TasksDBID:         cfg.TasksDBID,
		NotionToken:       cfg.NotionToken,
		EarliestHour:      cfg.EarliestHour,
		LatestHour:        cfg.LatestHour,
		ReadOnly:          cfg.ReadOnly,
		Today:             sc.Service().Today().Format("2006-01-02"),
	}

	return jsonContents(request, view)
}

func handleCalendars(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	calendars, err := sc.Service().Calendar().ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return jsonContents(request, calendars)
}

func jsonContents(request mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
