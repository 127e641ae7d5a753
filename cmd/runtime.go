package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"google.golang.org/api/option"

	"github.com/teemow/schedule-mcp/internal/calendar"
	"github.com/teemow/schedule-mcp/internal/config"
	"github.com/teemow/schedule-mcp/internal/google"
	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/logging"
	"github.com/teemow/schedule-mcp/internal/notion"
	"github.com/teemow/schedule-mcp/internal/resources"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/appointment_tools"
	"github.com/teemow/schedule-mcp/internal/tools/calendar_tools"
	"github.com/teemow/schedule-mcp/internal/tools/schedule_tools"
	"github.com/teemow/schedule-mcp/internal/tools/task_tools"
)

const serverInstructions = `This server manages a schedule spread over Google Calendar (events), a Notion
Appointments database and a Notion Tasks database.

Dates use YYYY-MM-DD. Datetimes use ISO 8601; a datetime without an offset is
interpreted in the configured local time zone. Calendar tools default to the
configured calendar when calendar_id is omitted.

Start with schedule_week_overview for a summary of the current week, use
gcal_find_free_slots to find time for new work, and schedule_find_conflicts to
check for overlapping or back-to-back events.`

// loadConfig resolves the configuration from the --config file, .env and
// the environment. Command flags are applied by the caller.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr because stdout
// carries the stdio transport and the JSON output of query commands.
func newLogger() (*slog.Logger, error) {
	logger, err := logging.NewLogger(os.Stderr, debugMode, logFormat)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// runtime is everything a command needs to run schedule queries.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	sc       *server.ServerContext
}

// newRuntime connects the Google Calendar and Notion providers and builds
// the server context around them. cfg must already be validated.
func newRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, instrConfig instrumentation.Config) (*runtime, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	metrics := provider.Metrics()

	httpClient, err := google.GetHTTPClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile,
		google.WithRefreshHook(func(err error) {
			result := "success"
			if err != nil {
				result = "failure"
				logger.Warn("google token refresh failed", logging.Err(err))
			}
			metrics.RecordTokenRefresh(context.Background(), result)
		}))
	if err != nil {
		_ = provider.Shutdown(ctx)
		switch {
		case errors.Is(err, google.ErrCredentialsMissing):
			return nil, errors.New(google.CredentialsHelp(cfg.GoogleCredentialsFile))
		case errors.Is(err, google.ErrTokenMissing):
			return nil, errors.New(google.TokenHelp(cfg.GoogleTokenFile))
		}
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	gcal, err := calendar.NewClient(ctx, loc, option.WithHTTPClient(httpClient))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	records := notion.NewClient(notion.Config{
		Token:            cfg.NotionToken,
		AppointmentsDBID: cfg.AppointmentsDBID,
		TasksDBID:        cfg.TasksDBID,
		Location:         loc,
	})

	svc := schedule.NewService(
		instrumentation.ObserveCalendar(gcal, metrics),
		instrumentation.ObserveRecords(records, metrics),
		schedule.Options{
			Location:          loc,
			DefaultCalendarID: cfg.DefaultCalendarID,
		},
	)

	sc, err := server.NewServerContext(ctx, cfg, svc)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	sc.SetLogger(logger)
	sc.SetMetrics(metrics)
	sc.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))

	return &runtime{cfg: cfg, logger: logger, provider: provider, sc: sc}, nil
}

// Close shuts down the server context and flushes telemetry.
func (r *runtime) Close(ctx context.Context) {
	if err := r.sc.Shutdown(); err != nil {
		r.logger.Warn("error during server context shutdown", logging.Err(err))
	}
	if err := r.provider.Shutdown(ctx); err != nil {
		r.logger.Warn("error during instrumentation shutdown", logging.Err(err))
	}
}

// newMCPServer creates the MCP server with every tool group and resource
// registered. readOnly leaves out the tools that write to a provider.
func newMCPServer(sc *server.ServerContext, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("schedule-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithInstructions(serverInstructions),
	)

	if err := calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Calendar tools: %w", err)
	}

	if err := appointment_tools.RegisterAppointmentTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Appointment tools: %w", err)
	}

	if err := task_tools.RegisterTaskTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Task tools: %w", err)
	}

	if err := schedule_tools.RegisterScheduleTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Schedule tools: %w", err)
	}

	if err := resources.RegisterResources(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}

	return mcpSrv, nil
}
