package tooltest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// Calendar is an in-memory schedule.CalendarProvider.
type Calendar struct {
	mu     sync.Mutex
	events map[string]schedule.Event
	nextID int

	// Err, when set, is returned by every call.
	Err error
	// Queries records every ListEvents call.
	Queries []schedule.EventQuery
	// Deleted records deleted event ids in order.
	Deleted []string
}

// NewCalendar returns a calendar holding events.
func NewCalendar(events ...schedule.Event) *Calendar {
	c := &Calendar{events: make(map[string]schedule.Event)}
	for _, ev := range events {
		c.events[ev.ID] = ev
	}
	return c
}

func notFound() error {
	return &schedule.ProviderError{Provider: schedule.ProviderCalendar, Kind: schedule.KindNotFound, Status: 404, Message: "Not Found"}
}

func (c *Calendar) ListCalendars(ctx context.Context) ([]schedule.CalendarInfo, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return []schedule.CalendarInfo{
		{ID: "primary", Name: "me@example.com", Primary: true, AccessRole: "owner"},
		{ID: "family@group.calendar.google.com", Name: "Family", AccessRole: "writer"},
	}, nil
}

// ListEvents returns events whose start falls in the query range, ordered
// by start.
func (c *Calendar) ListEvents(ctx context.Context, query schedule.EventQuery) ([]schedule.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Queries = append(c.Queries, query)
	if c.Err != nil {
		return nil, c.Err
	}

	loc := query.TimeMin.Location()
	out := []schedule.Event{}
	for _, ev := range c.events {
		start, err := schedule.ParseInstant(ev.Start, loc)
		if err != nil {
			continue
		}
		if start.Before(query.TimeMin) || !start.Before(query.TimeMax) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	if query.MaxResults > 0 && len(out) > query.MaxResults {
		out = out[:query.MaxResults]
	}
	return out, nil
}

func (c *Calendar) GetEvent(ctx context.Context, calendarID, eventID string) (*schedule.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	ev, ok := c.events[eventID]
	if !ok {
		return nil, notFound()
	}
	return &ev, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, calendarID string, input schedule.EventInput) (*schedule.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	c.nextID++
	ev := schedule.Event{
		ID:          fmt.Sprintf("evt%d", c.nextID),
		Title:       input.Title,
		Start:       input.Start.Format(time.RFC3339),
		End:         input.End.Format(time.RFC3339),
		Description: input.Description,
		Location:    input.Location,
		Status:      "confirmed",
		CalendarID:  calendarID,
	}
	c.events[ev.ID] = ev
	return &ev, nil
}

func (c *Calendar) UpdateEvent(ctx context.Context, calendarID, eventID string, patch schedule.EventPatch) (*schedule.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	ev, ok := c.events[eventID]
	if !ok {
		return nil, notFound()
	}
	if patch.Title != nil {
		ev.Title = *patch.Title
	}
	if patch.Start != nil {
		ev.Start = patch.Start.Format(time.RFC3339)
	}
	if patch.End != nil {
		ev.End = patch.End.Format(time.RFC3339)
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	c.events[eventID] = ev
	return &ev, nil
}

func (c *Calendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if _, ok := c.events[eventID]; !ok {
		return notFound()
	}
	delete(c.events, eventID)
	c.Deleted = append(c.Deleted, eventID)
	return nil
}

// Records is an in-memory schedule.RecordProvider. Task queries apply the
// same status and inclusive due-date filters the Notion provider sends.
type Records struct {
	mu           sync.Mutex
	appointments []schedule.Appointment
	tasks        []schedule.Task
	nextID       int

	// Err, when set, is returned by every call.
	Err error
	// TaskFilters records every QueryTasks call.
	TaskFilters []schedule.TaskFilter
	// AppointmentFilters records every QueryAppointments call.
	AppointmentFilters []schedule.AppointmentFilter
}

// NewRecords returns a record provider holding the given records.
func NewRecords(appointments []schedule.Appointment, tasks []schedule.Task) *Records {
	return &Records{appointments: appointments, tasks: tasks}
}

func (r *Records) QueryAppointments(ctx context.Context, filter schedule.AppointmentFilter) ([]schedule.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AppointmentFilters = append(r.AppointmentFilters, filter)
	if r.Err != nil {
		return nil, r.Err
	}
	out := []schedule.Appointment{}
	for _, a := range r.appointments {
		if filter.Type != "" && schedule.StringValue(a.Type) != filter.Type {
			continue
		}
		if filter.Status != "" && schedule.StringValue(a.Status) != filter.Status {
			continue
		}
		if !inRange(schedule.StringValue(a.Start), filter.StartDate, filter.EndDate) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *Records) CreateAppointment(ctx context.Context, input schedule.AppointmentInput) (*schedule.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	typ := input.Type
	if typ == "" {
		typ = schedule.AppointmentTypePersonal
	}
	a := schedule.Appointment{
		ID:           fmt.Sprintf("appt-%d", r.nextID),
		URL:          fmt.Sprintf("https://www.notion.so/appt-%d", r.nextID),
		Title:        input.Title,
		Start:        optional(input.Start),
		End:          optional(input.End),
		Type:         &typ,
		Status:       schedule.StringPtr(schedule.AppointmentStatusScheduled),
		Canceled:     schedule.StringPtr(schedule.NotCanceled),
		Recurring:    optional(input.Recurring),
		Notes:        input.Notes,
		GCalEventID:  input.GCalEventID,
		GCalSeriesID: input.GCalSeriesID,
	}
	r.appointments = append(r.appointments, a)
	return &a, nil
}

func (r *Records) UpdateAppointment(ctx context.Context, id string, patch schedule.AppointmentPatch) (*schedule.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.appointments {
		a := &r.appointments[i]
		if a.ID != id {
			continue
		}
		if patch.Title != nil {
			a.Title = *patch.Title
		}
		if patch.Start != nil {
			a.Start = patch.Start
		}
		if patch.End != nil {
			a.End = patch.End
		}
		if patch.Type != nil {
			a.Type = patch.Type
		}
		if patch.Status != nil {
			a.Status = patch.Status
		}
		if patch.Canceled != nil {
			a.Canceled = patch.Canceled
		}
		if patch.Notes != nil {
			a.Notes = *patch.Notes
		}
		if patch.GCalEventID != nil {
			a.GCalEventID = *patch.GCalEventID
		}
		if patch.GCalSeriesID != nil {
			a.GCalSeriesID = *patch.GCalSeriesID
		}
		if patch.Recurring != nil {
			a.Recurring = patch.Recurring
		}
		out := *a
		return &out, nil
	}
	return nil, &schedule.ProviderError{Provider: schedule.ProviderNotion, Kind: schedule.KindNotFound, Status: 404, Code: "object_not_found"}
}

func (r *Records) FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (*schedule.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, a := range r.appointments {
		if a.GCalEventID == gcalEventID {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *Records) QueryTasks(ctx context.Context, filter schedule.TaskFilter) ([]schedule.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TaskFilters = append(r.TaskFilters, filter)
	if r.Err != nil {
		return nil, r.Err
	}
	out := []schedule.Task{}
	for _, t := range r.tasks {
		if filter.Status != "" && schedule.StringValue(t.Status) != filter.Status {
			continue
		}
		if slices.Contains(filter.ExcludeStatuses, schedule.StringValue(t.Status)) {
			continue
		}
		if (filter.DueAfter != "" || filter.DueBefore != "") && t.DueDate == nil {
			continue
		}
		if !inRange(schedule.StringValue(t.DueDate), filter.DueAfter, filter.DueBefore) {
			continue
		}
		out = append(out, t)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *Records) CreateTask(ctx context.Context, input schedule.TaskInput) (*schedule.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.nextID++
	status := input.Status
	if status == "" {
		status = schedule.TaskStatusNotStarted
	}
	t := schedule.Task{
		ID:      fmt.Sprintf("task-%d", r.nextID),
		URL:     fmt.Sprintf("https://www.notion.so/task-%d", r.nextID),
		Name:    input.Name,
		Status:  &status,
		DueDate: optional(input.DueDate),
	}
	r.tasks = append(r.tasks, t)
	return &t, nil
}

func (r *Records) UpdateTask(ctx context.Context, id string, patch schedule.TaskPatch) (*schedule.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.tasks {
		t := &r.tasks[i]
		if t.ID != id {
			continue
		}
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Status != nil {
			t.Status = patch.Status
		}
		if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		out := *t
		return &out, nil
	}
	return nil, &schedule.ProviderError{Provider: schedule.ProviderNotion, Kind: schedule.KindNotFound, Status: 404, Code: "object_not_found"}
}

// inRange compares the date part of value against inclusive YYYY-MM-DD
// bounds. Empty bounds are open.
func inRange(value, after, before string) bool {
	if after == "" && before == "" {
		return true
	}
	if len(value) < len(schedule.DateLayout) {
		return false
	}
	day := value[:len(schedule.DateLayout)]
	if after != "" && day < after {
		return false
	}
	if before != "" && day > before {
		return false
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
