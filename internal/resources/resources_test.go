package resources

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/tools/tooltest"
)

func readRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: uri},
	}
}

func text(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok, "contents is %T", contents[0])
	assert.Equal(t, "application/json", tc.MIMEType)
	return tc.Text
}

func TestConfigResource(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), true)

	contents, err := handleConfig(context.Background(), readRequest(ConfigURI), sc)
	require.NoError(t, err)

	raw := text(t, contents)
	assert.NotContains(t, raw, "secret_test", "the Notion token must never be exposed")

	var view configView
	require.NoError(t, json.Unmarshal([]byte(raw), &view))
	assert.Equal(t, "[REDACTED]", view.NotionToken)
	assert.Equal(t, "UTC", view.TimeZone)
	assert.Equal(t, "primary", view.DefaultCalendarID)
	assert.Equal(t, "appointments-db", view.AppointmentsDBID)
	assert.Equal(t, 8, view.EarliestHour)
	assert.Equal(t, 20, view.LatestHour)
	assert.True(t, view.ReadOnly)
	assert.Equal(t, "2025-06-11", view.Today)
}

func TestCalendarsResource(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)

	contents, err := handleCalendars(context.Background(), readRequest(CalendarsURI), sc)
	require.NoError(t, err)

	var calendars []schedule.CalendarInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, contents)), &calendars))
	assert.Len(t, calendars, 2)
}

func TestCalendarsResource_Error(t *testing.T) {
	cal := tooltest.NewCalendar()
	cal.Err = errors.New("token expired")
	sc := tooltest.NewServerContext(t, cal, tooltest.NewRecords(nil, nil), false)

	_, err := handleCalendars(context.Background(), readRequest(CalendarsURI), sc)
	assert.ErrorContains(t, err, "failed to list calendars")
}

func TestRegisterResources(t *testing.T) {
	sc := tooltest.NewServerContext(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)
	s := tooltest.NewMCPServer()

	assert.NoError(t, RegisterResources(s, sc))
}
