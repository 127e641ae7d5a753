package notion

import (
	"context"

	"github.com/jomei/notionapi"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// Appointment database property names.
const (
	propAppointment  = "Appointment"
	propStart        = "Start"
	propEnd          = "End"
	propType         = "Type"
	propStatus       = "Status"
	propCanceled     = "Canceled"
	propRecurring    = "Recurring"
	propNotes        = "Notes"
	propGCalEventID  = "GCal Event ID"
	propGCalSeriesID = "GCal Series ID"
)

// QueryAppointments returns appointments matching filter, sorted by Start.
func (c *Client) QueryAppointments(ctx context.Context, filter schedule.AppointmentFilter) ([]schedule.Appointment, error) {
	filters, err := c.dateBounds(propStart, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if filter.Type != "" {
		filters = append(filters, notionapi.PropertyFilter{
			Property: propType,
			Select:   &notionapi.SelectFilterCondition{Equals: filter.Type},
		})
	}
	if filter.Status != "" {
		filters = append(filters, notionapi.PropertyFilter{
			Property: propStatus,
			Status:   &notionapi.StatusFilterCondition{Equals: filter.Status},
		})
	}

	pages, err := c.query(ctx, c.appointmentsDB, combine(filters), ascending(propStart), filter.Limit)
	if err != nil {
		return nil, err
	}

	appointments := make([]schedule.Appointment, 0, len(pages))
	for i := range pages {
		appointments = append(appointments, toAppointment(&pages[i]))
	}
	return appointments, nil
}

// CreateAppointment creates a Scheduled, not canceled appointment.
func (c *Client) CreateAppointment(ctx context.Context, input schedule.AppointmentInput) (*schedule.Appointment, error) {
	apptType := input.Type
	if apptType == "" {
		apptType = schedule.AppointmentTypePersonal
	}

	props := notionapi.Properties{
		propAppointment: titleValue(input.Title),
		propStart:       dateValue(input.Start),
		propType:        selectValue(apptType),
		propStatus:      statusValue(schedule.AppointmentStatusScheduled),
		propCanceled:    selectValue(schedule.NotCanceled),
	}
	if input.End != "" {
		props[propEnd] = dateValue(input.End)
	}
	if input.Notes != "" {
		props[propNotes] = richTextValue(input.Notes)
	}
	if input.GCalEventID != "" {
		props[propGCalEventID] = richTextValue(input.GCalEventID)
	}
	if input.GCalSeriesID != "" {
		props[propGCalSeriesID] = richTextValue(input.GCalSeriesID)
	}
	if input.Recurring != "" {
		props[propRecurring] = selectValue(input.Recurring)
	}

	page, err := c.createPage(ctx, c.appointmentsDB, props)
	if err != nil {
		return nil, err
	}
	appt := toAppointment(page)
	return &appt, nil
}

// UpdateAppointment writes only the fields set in patch.
func (c *Client) UpdateAppointment(ctx context.Context, id string, patch schedule.AppointmentPatch) (*schedule.Appointment, error) {
	props := notionapi.Properties{}
	if patch.Title != nil {
		props[propAppointment] = titleValue(*patch.Title)
	}
	if patch.Start != nil {
		props[propStart] = dateValue(*patch.Start)
	}
	if patch.End != nil {
		props[propEnd] = dateValue(*patch.End)
	}
	if patch.Type != nil {
		props[propType] = selectValue(*patch.Type)
	}
	if patch.Status != nil {
		props[propStatus] = statusValue(*patch.Status)
	}
	if patch.Canceled != nil {
		props[propCanceled] = selectValue(*patch.Canceled)
	}
	if patch.Notes != nil {
		props[propNotes] = richTextValue(*patch.Notes)
	}
	if patch.GCalEventID != nil {
		props[propGCalEventID] = richTextValue(*patch.GCalEventID)
	}
	if patch.GCalSeriesID != nil {
		props[propGCalSeriesID] = richTextValue(*patch.GCalSeriesID)
	}
	if patch.Recurring != nil {
		props[propRecurring] = selectValue(*patch.Recurring)
	}

	page, err := c.updatePage(ctx, id, props)
	if err != nil {
		return nil, err
	}
	appt := toAppointment(page)
	return &appt, nil
}

// FindAppointmentByGCalID returns the first appointment linked to the
// calendar event, or nil.
func (c *Client) FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (*schedule.Appointment, error) {
	filter := notionapi.PropertyFilter{
		Property: propGCalEventID,
		RichText: &notionapi.TextFilterCondition{Equals: gcalEventID},
	}

	pages, err := c.query(ctx, c.appointmentsDB, filter, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	appt := toAppointment(&pages[0])
	return &appt, nil
}

func toAppointment(page *notionapi.Page) schedule.Appointment {
	props := page.Properties
	return schedule.Appointment{
		ID:           string(page.ID),
		URL:          page.URL,
		Title:        plainText(props[propAppointment]),
		Start:        dateStart(props[propStart]),
		End:          dateStart(props[propEnd]),
		Type:         selectName(props[propType]),
		Status:       statusName(props[propStatus]),
		Canceled:     selectName(props[propCanceled]),
		Recurring:    selectName(props[propRecurring]),
		Notes:        plainText(props[propNotes]),
		GCalEventID:  plainText(props[propGCalEventID]),
		GCalSeriesID: plainText(props[propGCalSeriesID]),
	}
}
