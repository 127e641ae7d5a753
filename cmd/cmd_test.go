package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/tooltest"
)

var writeTools = []string{
	"gcal_create_event",
	"gcal_delete_event",
	"gcal_update_event",
	"notion_create_appointment",
	"notion_create_task",
	"notion_update_appointment",
	"notion_update_task",
	"schedule_task_block",
}

var readTools = []string{
	"gcal_find_free_slots",
	"gcal_get_event",
	"gcal_get_events",
	"gcal_list_calendars",
	"notion_get_appointment_by_gcal_id",
	"notion_get_appointments",
	"notion_get_overdue_tasks",
	"notion_get_tasks",
	"schedule_find_conflicts",
	"schedule_week_overview",
}

func TestNewMCPServer(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{name: "read-only", readOnly: true, want: readTools},
		{name: "read-write", readOnly: false, want: append(append([]string{}, readTools...), writeTools...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), tt.readOnly)

			mcpSrv, err := newMCPServer(sc, tt.readOnly)
			require.NoError(t, err)

			got := tooltest.ToolNames(mcpSrv)
			want := append([]string{}, tt.want...)
			sort.Strings(got)
			sort.Strings(want)
			assert.Equal(t, want, got)
		})
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"gcal_get_events":                   "Google Calendar Tools",
		"notion_get_appointment_by_gcal_id": "Notion Appointment Tools",
		"notion_create_task":                "Notion Task Tools",
		"schedule_week_overview":            "Schedule Analysis Tools",
		"unknown":                           "Other",
	}

	for name, want := range tests {
		assert.Equal(t, want, getCategoryFromToolName(name), name)
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tools, err := registeredTools()
	require.NoError(t, err)
	assert.Len(t, tools, len(readTools)+len(writeTools))

	markdown := generateToolsMarkdown(tools)

	assert.True(t, strings.HasPrefix(markdown, "# MCP Tools Reference"))
	for _, heading := range []string{
		"## Google Calendar Tools",
		"## Notion Appointment Tools",
		"## Notion Task Tools",
		"## Schedule Analysis Tools",
	} {
		assert.Contains(t, markdown, heading)
	}
	assert.NotContains(t, markdown, "## Other")

	assert.Contains(t, markdown, "### gcal_delete_event (write)")
	assert.Contains(t, markdown, "### gcal_get_events\n")
	assert.Contains(t, markdown, "- `duration_minutes` (number, required): ")
	assert.Contains(t, markdown, "One of: `")
}

func TestServeOptions(t *testing.T) {
	tests := []struct {
		name        string
		opts        serveOptions
		wantErr     bool
		wantMetrics string
	}{
		{name: "stdio without metrics", opts: serveOptions{transport: TransportStdio}},
		{name: "stdio with metrics", opts: serveOptions{transport: TransportStdio, metricsAddr: ":9191"}, wantMetrics: ":9191"},
		{name: "http default metrics", opts: serveOptions{transport: TransportStreamableHTTP}, wantMetrics: server.DefaultMetricsAddr},
		{name: "unknown transport", opts: serveOptions{transport: "sse"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMetrics, tt.opts.resolvedMetricsAddr())
		})
	}
}

func TestQueryTool(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)

	var out bytes.Buffer
	err := queryTool(context.Background(), &out, sc, "schedule_week_overview", map[string]any{"date": "2025-06-11"})
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &snapshot))
	assert.Contains(t, snapshot, "week_range")
	assert.Contains(t, snapshot, "summary")
}

func TestQueryTool_ErrorResult(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)

	var out bytes.Buffer
	err := queryTool(context.Background(), &out, sc, "gcal_find_free_slots", map[string]any{
		"date":             "June 11",
		"duration_minutes": 30,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
	assert.Empty(t, out.String())
}

func TestQueryTool_WriteToolsUnavailable(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)

	err := queryTool(context.Background(), &bytes.Buffer{}, sc, "gcal_delete_event", map[string]any{"event_id": "evt1"})
	assert.ErrorContains(t, err, "not registered")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Europe/Berlin\nearliest_hour: 7\ntasks_db_id: tasks-from-file\n"), 0600))

	t.Setenv("NOTION_TOKEN", "secret_env")
	t.Setenv("NOTION_TASKS_DB_ID", "tasks-from-env")

	previous := configPath
	configPath = path
	t.Cleanup(func() { configPath = previous })

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 7, cfg.EarliestHour)
	assert.Equal(t, "secret_env", cfg.NotionToken)
	assert.Equal(t, "tasks-from-env", cfg.TasksDBID, "environment overrides the file")
	assert.NoError(t, cfg.Validate())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	t.Setenv("NOTION_TOKEN", "secret_env")
	t.Setenv("NOTION_TASKS_DB_ID", "tasks-from-env")
	t.Setenv("LOCAL_TIMEZONE", "Europe/Berlin")

	var out bytes.Buffer
	require.NoError(t, runConfigInit(&out, path, false))
	assert.Contains(t, out.String(), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "notion_token: secret_env")
	assert.Contains(t, string(data), "tasks_db_id: tasks-from-env")
	assert.Contains(t, string(data), "timezone: Europe/Berlin")

	err = runConfigInit(&out, path, false)
	assert.ErrorContains(t, err, "already exists")

	t.Setenv("NOTION_TASKS_DB_ID", "tasks-replaced")
	require.NoError(t, runConfigInit(&out, path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tasks_db_id: tasks-replaced")
}

func TestConfigInit_InvalidConfigNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("NOTION_TOKEN", "")

	err := runConfigInit(&bytes.Buffer{}, path, false)
	assert.ErrorContains(t, err, "NOTION_TOKEN is required")
	assert.NoFileExists(t, path)
}

func TestWriteRedactedConfig(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_env")

	previous := configPath
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configPath = previous })

	cfg, err := loadConfig()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeRedactedConfig(&out, cfg))
	assert.NotContains(t, out.String(), "secret_env")
	assert.Contains(t, out.String(), "notion_token: '[REDACTED]'")
}
