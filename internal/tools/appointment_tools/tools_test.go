package appointment_tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/tools/tooltest"
)

func sampleAppointments() []schedule.Appointment {
	return []schedule.Appointment{
		{
			ID:          "a1",
			Title:       "Dentist",
			Start:       schedule.StringPtr("2025-06-12T14:00:00.000-07:00"),
			Type:        schedule.StringPtr(schedule.AppointmentTypeMedical),
			Status:      schedule.StringPtr(schedule.AppointmentStatusScheduled),
			GCalEventID: "gcal-1",
		},
		{
			ID:     "a2",
			Title:  "Haircut",
			Start:  schedule.StringPtr("2025-06-20"),
			Type:   schedule.StringPtr(schedule.AppointmentTypePersonal),
			Status: schedule.StringPtr(schedule.AppointmentStatusScheduled),
		},
	}
}

func setup(t *testing.T, records *tooltest.Records, readOnly bool) *tooltest.Server {
	t.Helper()
	return tooltest.NewServer(t, tooltest.NewCalendar(), records, readOnly, RegisterAppointmentTools)
}

func TestRegisterAppointmentTools(t *testing.T) {
	s := setup(t, tooltest.NewRecords(nil, nil), false)
	assert.ElementsMatch(t, []string{
		"notion_get_appointments",
		"notion_get_appointment_by_gcal_id",
		"notion_create_appointment",
		"notion_update_appointment",
	}, s.ToolNames())

	ro := setup(t, tooltest.NewRecords(nil, nil), true)
	assert.ElementsMatch(t, []string{
		"notion_get_appointments",
		"notion_get_appointment_by_gcal_id",
	}, ro.ToolNames())
}

func TestGetAppointments(t *testing.T) {
	records := tooltest.NewRecords(sampleAppointments(), nil)
	s := setup(t, records, false)

	var appointments []schedule.Appointment
	tooltest.Decode(t, s.Call("notion_get_appointments", map[string]any{
		"start_date":       "2025-06-09",
		"end_date":         "2025-06-15",
		"appointment_type": "Medical",
	}), &appointments)

	require.Len(t, appointments, 1)
	assert.Equal(t, "a1", appointments[0].ID)

	require.Len(t, records.AppointmentFilters, 1)
	assert.Equal(t, schedule.AppointmentFilter{
		StartDate: "2025-06-09",
		EndDate:   "2025-06-15",
		Type:      "Medical",
		Limit:     50,
	}, records.AppointmentFilters[0])
}

func TestGetAppointments_EmptyIsArray(t *testing.T) {
	s := setup(t, tooltest.NewRecords(nil, nil), false)

	result := s.Call("notion_get_appointments", nil)

	assert.False(t, result.IsError)
	assert.Equal(t, "[]", tooltest.Text(t, result))
}

func TestGetAppointments_InvalidType(t *testing.T) {
	records := tooltest.NewRecords(nil, nil)
	s := setup(t, records, false)

	result := s.Call("notion_get_appointments", map[string]any{"appointment_type": "Fun"})

	assert.True(t, result.IsError)
	assert.Empty(t, records.AppointmentFilters)
}

func TestGetAppointments_NotConfigured(t *testing.T) {
	records := tooltest.NewRecords(nil, nil)
	records.Err = schedule.ErrNotConfigured
	s := setup(t, records, false)

	result := s.Call("notion_get_appointments", nil)

	assert.True(t, result.IsError)
	assert.Equal(t, "Error fetching appointments: record collection is not configured", tooltest.Text(t, result))
}

func TestGetAppointmentByGCalID(t *testing.T) {
	s := setup(t, tooltest.NewRecords(sampleAppointments(), nil), false)

	t.Run("found", func(t *testing.T) {
		var appointment schedule.Appointment
		tooltest.Decode(t, s.Call("notion_get_appointment_by_gcal_id", map[string]any{"gcal_event_id": "gcal-1"}), &appointment)
		assert.Equal(t, "a1", appointment.ID)
	})

	t.Run("not found", func(t *testing.T) {
		var resp notFoundResponse
		tooltest.Decode(t, s.Call("notion_get_appointment_by_gcal_id", map[string]any{"gcal_event_id": "gcal-404"}), &resp)
		assert.False(t, resp.Found)
		assert.Equal(t, "gcal-404", resp.GCalEventID)
	})
}

func TestCreateAppointment(t *testing.T) {
	s := setup(t, tooltest.NewRecords(nil, nil), false)

	var appointment schedule.Appointment
	tooltest.Decode(t, s.Call("notion_create_appointment", map[string]any{
		"title":         "Physio",
		"start":         "2025-06-13T09:00:00",
		"gcal_event_id": "gcal-9",
	}), &appointment)

	assert.Equal(t, "Physio", appointment.Title)
	assert.Equal(t, "2025-06-13T09:00:00", schedule.StringValue(appointment.Start))
	assert.Equal(t, schedule.AppointmentTypePersonal, schedule.StringValue(appointment.Type))
	assert.Equal(t, schedule.AppointmentStatusScheduled, schedule.StringValue(appointment.Status))
	assert.Equal(t, schedule.NotCanceled, schedule.StringValue(appointment.Canceled))
	assert.Equal(t, "gcal-9", appointment.GCalEventID)
}

func TestCreateAppointment_InvalidStart(t *testing.T) {
	s := setup(t, tooltest.NewRecords(nil, nil), false)

	result := s.Call("notion_create_appointment", map[string]any{"title": "Physio", "start": "tomorrow"})

	assert.True(t, result.IsError)
	assert.Contains(t, tooltest.Text(t, result), "start must be an ISO 8601")
}

func TestUpdateAppointment(t *testing.T) {
	s := setup(t, tooltest.NewRecords(sampleAppointments(), nil), false)

	var appointment schedule.Appointment
	tooltest.Decode(t, s.Call("notion_update_appointment", map[string]any{
		"notion_id": "a1",
		"canceled":  "Canceled",
		"notes":     "rescheduling",
	}), &appointment)

	assert.Equal(t, schedule.Canceled, schedule.StringValue(appointment.Canceled))
	assert.Equal(t, "rescheduling", appointment.Notes)
	assert.Equal(t, "Dentist", appointment.Title)
}

func TestUpdateAppointment_Errors(t *testing.T) {
	s := setup(t, tooltest.NewRecords(sampleAppointments(), nil), false)

	t.Run("no fields", func(t *testing.T) {
		result := s.Call("notion_update_appointment", map[string]any{"notion_id": "a1"})
		assert.True(t, result.IsError)
	})

	t.Run("unknown page", func(t *testing.T) {
		result := s.Call("notion_update_appointment", map[string]any{"notion_id": "zzz", "title": "x"})
		assert.True(t, result.IsError)
		assert.Equal(t, "Error: Notion page or database not found. Check that the integration has access.", tooltest.Text(t, result))
	})
}
