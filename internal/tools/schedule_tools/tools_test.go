package schedule_tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/tools/tooltest"
)

// The test clock is Wednesday 2025-06-11, so the current week is
// 2025-06-09 through 2025-06-15.
func busyDay() []schedule.Event {
	return []schedule.Event{
		{ID: "a", Title: "Planning", Start: "2025-06-11T09:00:00Z", End: "2025-06-11T10:00:00Z"},
		{ID: "b", Title: "1:1", Start: "2025-06-11T09:30:00Z", End: "2025-06-11T10:30:00Z"},
		{ID: "c", Start: "2025-06-11T10:35:00Z", End: "2025-06-11T11:00:00Z"},
		{ID: "d", Title: "Offsite", Start: "2025-06-11T13:00:00Z", End: "2025-06-11T18:00:00Z"},
		{ID: "next-week", Title: "Later", Start: "2025-06-16T09:00:00Z", End: "2025-06-16T10:00:00Z"},
	}
}

func setup(t *testing.T, cal *tooltest.Calendar, records *tooltest.Records, readOnly bool) *tooltest.Server {
	t.Helper()
	return tooltest.NewServer(t, cal, records, readOnly, RegisterScheduleTools)
}

func TestRegisterScheduleTools(t *testing.T) {
	s := setup(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), false)
	assert.ElementsMatch(t, []string{
		"schedule_week_overview",
		"schedule_find_conflicts",
		"schedule_task_block",
	}, s.ToolNames())

	ro := setup(t, tooltest.NewCalendar(), tooltest.NewRecords(nil, nil), true)
	assert.ElementsMatch(t, []string{"schedule_week_overview", "schedule_find_conflicts"}, ro.ToolNames())
}

func TestWeekOverview(t *testing.T) {
	appointments := []schedule.Appointment{
		{ID: "appt", Title: "Dentist", Start: schedule.StringPtr("2025-06-13T14:00:00Z")},
	}
	tasks := []schedule.Task{
		{ID: "due", Name: "Report", Status: schedule.StringPtr(schedule.TaskStatusInProgress), DueDate: schedule.StringPtr("2025-06-14")},
		{ID: "late", Name: "Invoice", Status: schedule.StringPtr(schedule.TaskStatusNotStarted), DueDate: schedule.StringPtr("2025-06-02")},
	}
	records := tooltest.NewRecords(appointments, tasks)
	s := setup(t, tooltest.NewCalendar(busyDay()...), records, false)

	var snapshot schedule.WeekSnapshot
	tooltest.Decode(t, s.Call("schedule_week_overview", nil), &snapshot)

	assert.Equal(t, schedule.DateRange{Start: "2025-06-09", End: "2025-06-15"}, snapshot.WeekRange)
	assert.Len(t, snapshot.CalendarEvents, 4)
	require.Len(t, snapshot.Appointments, 1)
	require.Len(t, snapshot.TasksDue, 1)
	assert.Equal(t, "due", snapshot.TasksDue[0].ID)
	require.Len(t, snapshot.OverdueTasks, 1)
	assert.Equal(t, "late", snapshot.OverdueTasks[0].ID)
	assert.Equal(t, schedule.WeekSummary{
		EventCount:       4,
		AppointmentCount: 1,
		TasksDueCount:    1,
		OverdueCount:     1,
	}, snapshot.Summary)
}

func TestWeekOverview_DateArgument(t *testing.T) {
	s := setup(t, tooltest.NewCalendar(busyDay()...), tooltest.NewRecords(nil, nil), false)

	var snapshot schedule.WeekSnapshot
	tooltest.Decode(t, s.Call("schedule_week_overview", map[string]any{"date": "2025-06-22"}), &snapshot)

	assert.Equal(t, schedule.DateRange{Start: "2025-06-16", End: "2025-06-22"}, snapshot.WeekRange)
	require.Len(t, snapshot.CalendarEvents, 1)
	assert.Equal(t, "next-week", snapshot.CalendarEvents[0].ID)
	assert.NotNil(t, snapshot.Appointments)
	assert.NotNil(t, snapshot.TasksDue)
}

func TestWeekOverview_FailureDiscardsSnapshot(t *testing.T) {
	records := tooltest.NewRecords(nil, nil)
	records.Err = errors.New("notion unavailable")
	s := setup(t, tooltest.NewCalendar(busyDay()...), records, false)

	result := s.Call("schedule_week_overview", nil)

	assert.True(t, result.IsError)
	assert.Contains(t, tooltest.Text(t, result), "Error building week overview: ")
	assert.Contains(t, tooltest.Text(t, result), "notion unavailable")
}

func TestWeekOverview_InvalidDate(t *testing.T) {
	cal := tooltest.NewCalendar()
	s := setup(t, cal, tooltest.NewRecords(nil, nil), false)

	result := s.Call("schedule_week_overview", map[string]any{"date": "someday"})

	assert.True(t, result.IsError)
	assert.Empty(t, cal.Queries)
}

func TestFindConflicts(t *testing.T) {
	s := setup(t, tooltest.NewCalendar(busyDay()...), tooltest.NewRecords(nil, nil), false)
	reader := tooltest.InstallMetrics(t, s.Context, false)

	var result schedule.ConflictResult
	tooltest.Decode(t, s.Call("schedule_find_conflicts", map[string]any{
		"start_date": "2025-06-11",
		"end_date":   "2025-06-11",
	}), &result)

	assert.Equal(t, schedule.DateRange{Start: "2025-06-11", End: "2025-06-11"}, result.DateRange)
	assert.False(t, result.AllClear)

	require.Len(t, result.Overlaps, 1)
	assert.Equal(t, "Planning", result.Overlaps[0].Event1)
	assert.Equal(t, "1:1", result.Overlaps[0].Event2)

	require.Len(t, result.TightTransitions, 1)
	assert.Equal(t, "1:1", result.TightTransitions[0].Event1)
	assert.Equal(t, schedule.UntitledEvent, result.TightTransitions[0].Event2)
	assert.Equal(t, 5.0, result.TightTransitions[0].GapMinutes)

	require.Len(t, result.LongEvents, 1)
	assert.Equal(t, "Offsite", result.LongEvents[0].Event)
	assert.Equal(t, 5.0, result.LongEvents[0].DurationHours)

	findings := tooltest.CounterByAttr(t, reader, "schedule_findings_total", "kind")
	assert.Equal(t, map[string]int64{"overlap": 1, "tight_transition": 1, "long_event": 1}, findings)

	tools := tooltest.CounterByAttr(t, reader, "mcp_tool_invocations_total", "status")
	assert.Equal(t, map[string]int64{"success": 1}, tools)
}

func TestFindConflicts_AllClear(t *testing.T) {
	s := setup(t, tooltest.NewCalendar(busyDay()...), tooltest.NewRecords(nil, nil), false)

	var result schedule.ConflictResult
	tooltest.Decode(t, s.Call("schedule_find_conflicts", map[string]any{
		"start_date": "2025-06-12",
		"end_date":   "2025-06-15",
	}), &result)

	assert.True(t, result.AllClear)
	assert.NotNil(t, result.Overlaps)
	assert.Empty(t, result.Overlaps)
}

func TestFindConflicts_ReversedRange(t *testing.T) {
	cal := tooltest.NewCalendar()
	s := setup(t, cal, tooltest.NewRecords(nil, nil), false)
	reader := tooltest.InstallMetrics(t, s.Context, false)

	result := s.Call("schedule_find_conflicts", map[string]any{
		"start_date": "2025-06-12",
		"end_date":   "2025-06-11",
	})

	assert.True(t, result.IsError)
	assert.Empty(t, cal.Queries)
	tools := tooltest.CounterByAttr(t, reader, "mcp_tool_invocations_total", "status")
	assert.Equal(t, map[string]int64{"error": 1}, tools)
}

func TestTaskBlock(t *testing.T) {
	records := tooltest.NewRecords(nil, []schedule.Task{{ID: "t1", Name: "Write report"}})
	cal := tooltest.NewCalendar()
	s := setup(t, cal, records, false)

	var result schedule.TaskBlockResult
	tooltest.Decode(t, s.Call("schedule_task_block", map[string]any{
		"task_notion_id": "t1",
		"task_name":      "Write report",
		"task_url":       "https://www.notion.so/t1",
		"start":          "2025-06-12T09:00:00",
		"end":            "2025-06-12T11:00:00",
	}), &result)

	assert.Equal(t, "Work block created on Google Calendar.", result.Message)
	assert.Equal(t, "🔨 Write report", result.Event.Title)
	assert.Equal(t, "2025-06-12T09:00:00Z", result.Event.Start)
	assert.Equal(t, "https://www.notion.so/t1", result.NotionTaskURL)

	event, err := cal.GetEvent(s.Context.Context(), "primary", result.Event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work block for Notion task:\nhttps://www.notion.so/t1", event.Description)

	assert.Empty(t, records.TaskFilters, "the task record is not touched")
}

func TestTaskBlock_Validation(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{name: "missing url", args: map[string]any{"task_notion_id": "t1", "task_name": "x", "start": "2025-06-12T09:00:00", "end": "2025-06-12T10:00:00"}},
		{name: "end before start", args: map[string]any{"task_notion_id": "t1", "task_name": "x", "task_url": "u", "start": "2025-06-12T10:00:00", "end": "2025-06-12T09:00:00"}},
		{name: "bad start", args: map[string]any{"task_notion_id": "t1", "task_name": "x", "task_url": "u", "start": "9am", "end": "2025-06-12T09:00:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := tooltest.NewCalendar()
			s := setup(t, cal, tooltest.NewRecords(nil, nil), false)

			result := s.Call("schedule_task_block", tt.args)

			assert.True(t, result.IsError)
			events, err := cal.ListEvents(s.Context.Context(), schedule.DayRangeQuery("primary", tooltest.Now, tooltest.Now.AddDate(0, 0, 7), 0))
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}
