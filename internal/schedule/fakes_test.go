package schedule

import (
	"context"
	"sync"
)

type fakeCalendar struct {
	mu      sync.Mutex
	events  []Event
	err     error
	queries []EventQuery
	created []EventInput
}

func (f *fakeCalendar) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	return []CalendarInfo{{ID: "primary", Name: "Me", Primary: true, AccessRole: "owner"}}, f.err
}

func (f *fakeCalendar) ListEvents(ctx context.Context, query EventQuery) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error) {
	for _, ev := range f.events {
		if ev.ID == eventID {
			ev := ev
			return &ev, nil
		}
	}
	return nil, &ProviderError{Provider: ProviderCalendar, Kind: KindNotFound, Status: 404}
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, input)
	return &Event{
		ID:          "created-1",
		Title:       input.Title,
		Start:       input.Start.Format("2006-01-02T15:04:05Z07:00"),
		End:         input.End.Format("2006-01-02T15:04:05Z07:00"),
		Description: input.Description,
		CalendarID:  calendarID,
	}, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, patch EventPatch) (*Event, error) {
	return nil, f.err
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return f.err
}

type fakeRecords struct {
	mu           sync.Mutex
	appointments []Appointment
	// tasksByFilter returns tasks for a filter; nil means no tasks.
	tasksByFilter func(TaskFilter) []Task
	err           error
	taskFilters   []TaskFilter
	apptFilters   []AppointmentFilter
}

func (f *fakeRecords) QueryAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apptFilters = append(f.apptFilters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

func (f *fakeRecords) CreateAppointment(ctx context.Context, input AppointmentInput) (*Appointment, error) {
	return nil, f.err
}

func (f *fakeRecords) UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error) {
	return nil, f.err
}

func (f *fakeRecords) FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (*Appointment, error) {
	return nil, f.err
}

func (f *fakeRecords) QueryTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskFilters = append(f.taskFilters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if f.tasksByFilter == nil {
		return nil, nil
	}
	return f.tasksByFilter(filter), nil
}

func (f *fakeRecords) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	return nil, f.err
}

func (f *fakeRecords) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error) {
	return nil, f.err
}
