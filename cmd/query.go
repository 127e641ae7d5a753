package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/server"
)

// The query commands run one read-only tool and print its JSON result, so
// the command line and the MCP server share output formats.

func newWeekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the overview of a week",
		Long: `Print today's events, this week's events, upcoming appointments and
overdue tasks as JSON. --date selects the week containing that date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{}
			if date != "" {
				toolArgs["date"] = date
			}
			return runQuery(cmd.OutOrStdout(), "schedule_week_overview", toolArgs)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week, YYYY-MM-DD (default: today)")
	return cmd
}

func newConflictsCmd() *cobra.Command {
	var (
		startDate  string
		endDate    string
		calendarID string
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Print overlapping, back-to-back and long events",
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"start_date": startDate,
				"end_date":   endDate,
			}
			if calendarID != "" {
				toolArgs["calendar_id"] = calendarID
			}
			return runQuery(cmd.OutOrStdout(), "schedule_find_conflicts", toolArgs)
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First date of the range, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end", "", "Last date of the range, YYYY-MM-DD")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "Calendar to check (default: configured calendar)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newFreeSlotsCmd() *cobra.Command {
	var (
		date         string
		duration     int
		earliestHour int
		latestHour   int
		calendarID   string
	)

	cmd := &cobra.Command{
		Use:   "free-slots",
		Short: "Print free time slots on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"date":             date,
				"duration_minutes": duration,
			}
			if cmd.Flags().Changed("earliest-hour") {
				toolArgs["earliest_hour"] = earliestHour
			}
			if cmd.Flags().Changed("latest-hour") {
				toolArgs["latest_hour"] = latestHour
			}
			if calendarID != "" {
				toolArgs["calendar_id"] = calendarID
			}
			return runQuery(cmd.OutOrStdout(), "gcal_find_free_slots", toolArgs)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to search, YYYY-MM-DD")
	cmd.Flags().IntVar(&duration, "duration", 60, "Slot length in minutes")
	cmd.Flags().IntVar(&earliestHour, "earliest-hour", 0, "Start of the search window (default: configured earliest_hour)")
	cmd.Flags().IntVar(&latestHour, "latest-hour", 0, "End of the search window (default: configured latest_hour)")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "Calendar to search (default: configured calendar)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func runQuery(out io.Writer, toolName string, args map[string]any) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// One-shot commands export no telemetry and write no audit log.
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.Enabled = false
	instrConfig.AuditLogging.Enabled = false

	rt, err := newRuntime(ctx, cfg, logger, instrConfig)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	return queryTool(ctx, out, rt.sc, toolName, args)
}

// queryTool calls a read-only tool in process and writes its text result to
// out. A tool error result becomes the returned error.
func queryTool(ctx context.Context, out io.Writer, sc *server.ServerContext, toolName string, args map[string]any) error {
	mcpSrv, err := newMCPServer(sc, true)
	if err != nil {
		return err
	}

	text, isError, err := callTool(ctx, mcpSrv, toolName, args)
	if err != nil {
		return err
	}
	if isError {
		return errors.New(text)
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

func callTool(ctx context.Context, mcpSrv *mcpserver.MCPServer, name string, args map[string]any) (string, bool, error) {
	tool, ok := mcpSrv.ListTools()[name]
	if !ok {
		return "", false, fmt.Errorf("tool %s is not registered", name)
	}

	result, err := tool.Handler(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	if err != nil {
		return "", false, err
	}

	var text string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return text, result.IsError, nil
}
