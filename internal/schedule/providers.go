package schedule

import "context"

// CalendarProvider is the calendar system of record.
type CalendarProvider interface {
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)
	ListEvents(ctx context.Context, query EventQuery) ([]Event, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error)
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// AppointmentStore queries and mutates appointment records.
type AppointmentStore interface {
	QueryAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	CreateAppointment(ctx context.Context, input AppointmentInput) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error)
	// FindAppointmentByGCalID returns nil without error when no appointment
	// is linked to the event.
	FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (*Appointment, error)
}

// TaskStore queries and mutates task records.
type TaskStore interface {
	QueryTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	CreateTask(ctx context.Context, input TaskInput) (*Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error)
}

// RecordProvider is the structured-record system holding appointments and tasks.
type RecordProvider interface {
	AppointmentStore
	TaskStore
}
