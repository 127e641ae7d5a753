package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// observe wraps one provider call in a client span and records its outcome.
func observe(ctx context.Context, m *Metrics, service, operation string, attrs []attribute.KeyValue, call func(context.Context) (int, error)) error {
	ctx, span := StartProviderSpan(ctx, service, operation, attrs...)
	defer span.End()

	start := time.Now()
	n, err := call(ctx)
	status := StatusSuccess
	if err != nil {
		status = StatusError
		SetSpanError(span, err)
	} else {
		span.SetAttributes(attribute.Int(SpanAttrResultSize, n))
		SetSpanSuccess(span)
	}
	m.RecordProviderOperation(ctx, service, operation, status, time.Since(start))
	return err
}

func calendarAttrs(calendarID string) []attribute.KeyValue {
	return NewSpanAttributeBuilder().WithCalendar(calendarID).Build()
}

type observedCalendar struct {
	next    schedule.CalendarProvider
	metrics *Metrics
}

// ObserveCalendar decorates a CalendarProvider with spans and provider metrics.
func ObserveCalendar(next schedule.CalendarProvider, m *Metrics) schedule.CalendarProvider {
	return &observedCalendar{next: next, metrics: m}
}

func (o *observedCalendar) ListCalendars(ctx context.Context) (out []schedule.CalendarInfo, err error) {
	err = observe(ctx, o.metrics, ServiceCalendar, OperationList, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.ListCalendars(ctx)
		return len(out), err
	})
	return out, err
}

func (o *observedCalendar) ListEvents(ctx context.Context, query schedule.EventQuery) (out []schedule.Event, err error) {
	err = observe(ctx, o.metrics, ServiceCalendar, OperationQuery, calendarAttrs(query.CalendarID), func(ctx context.Context) (int, error) {
		out, err = o.next.ListEvents(ctx, query)
		return len(out), err
	})
	return out, err
}

func (o *observedCalendar) GetEvent(ctx context.Context, calendarID, eventID string) (out *schedule.Event, err error) {
	err = observe(ctx, o.metrics, ServiceCalendar, OperationGet, calendarAttrs(calendarID), func(ctx context.Context) (int, error) {
		out, err = o.next.GetEvent(ctx, calendarID, eventID)
		return 1, err
	})
	return out, err
}

func (o *observedCalendar) CreateEvent(ctx context.Context, calendarID string, input schedule.EventInput) (out *schedule.Event, err error) {
	err = observe(ctx, o.metrics, ServiceCalendar, OperationCreate, calendarAttrs(calendarID), func(ctx context.Context) (int, error) {
		out, err = o.next.CreateEvent(ctx, calendarID, input)
		return 1, err
	})
	return out, err
}

func (o *observedCalendar) UpdateEvent(ctx context.Context, calendarID, eventID string, patch schedule.EventPatch) (out *schedule.Event, err error) {
	err = observe(ctx, o.metrics, ServiceCalendar, OperationUpdate, calendarAttrs(calendarID), func(ctx context.Context) (int, error) {
		out, err = o.next.UpdateEvent(ctx, calendarID, eventID, patch)
		return 1, err
	})
	return out, err
}

func (o *observedCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return observe(ctx, o.metrics, ServiceCalendar, OperationDelete, calendarAttrs(calendarID), func(ctx context.Context) (int, error) {
		return 1, o.next.DeleteEvent(ctx, calendarID, eventID)
	})
}

type observedRecords struct {
	next    schedule.RecordProvider
	metrics *Metrics
}

// ObserveRecords decorates a RecordProvider with spans and provider metrics.
func ObserveRecords(next schedule.RecordProvider, m *Metrics) schedule.RecordProvider {
	return &observedRecords{next: next, metrics: m}
}

func (o *observedRecords) QueryAppointments(ctx context.Context, filter schedule.AppointmentFilter) (out []schedule.Appointment, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationQuery, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.QueryAppointments(ctx, filter)
		return len(out), err
	})
	return out, err
}

func (o *observedRecords) CreateAppointment(ctx context.Context, input schedule.AppointmentInput) (out *schedule.Appointment, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationCreate, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.CreateAppointment(ctx, input)
		return 1, err
	})
	return out, err
}

func (o *observedRecords) UpdateAppointment(ctx context.Context, id string, patch schedule.AppointmentPatch) (out *schedule.Appointment, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationUpdate, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.UpdateAppointment(ctx, id, patch)
		return 1, err
	})
	return out, err
}

func (o *observedRecords) FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (out *schedule.Appointment, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationGet, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.FindAppointmentByGCalID(ctx, gcalEventID)
		if out == nil {
			return 0, err
		}
		return 1, err
	})
	return out, err
}

func (o *observedRecords) QueryTasks(ctx context.Context, filter schedule.TaskFilter) (out []schedule.Task, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationQuery, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.QueryTasks(ctx, filter)
		return len(out), err
	})
	return out, err
}

func (o *observedRecords) CreateTask(ctx context.Context, input schedule.TaskInput) (out *schedule.Task, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationCreate, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.CreateTask(ctx, input)
		return 1, err
	})
	return out, err
}

func (o *observedRecords) UpdateTask(ctx context.Context, id string, patch schedule.TaskPatch) (out *schedule.Task, err error) {
	err = observe(ctx, o.metrics, ServiceNotion, OperationUpdate, nil, func(ctx context.Context) (int, error) {
		out, err = o.next.UpdateTask(ctx, id, patch)
		return 1, err
	})
	return out, err
}
