package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

type stubCalendar struct {
	schedule.CalendarProvider
	events []schedule.Event
	err    error
}

func (s *stubCalendar) ListEvents(ctx context.Context, query schedule.EventQuery) ([]schedule.Event, error) {
	return s.events, s.err
}

func (s *stubCalendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return s.err
}

type stubRecords struct {
	schedule.RecordProvider
	tasks []schedule.Task
	err   error
}

func (s *stubRecords) QueryTasks(ctx context.Context, filter schedule.TaskFilter) ([]schedule.Task, error) {
	return s.tasks, s.err
}

func (s *stubRecords) FindAppointmentByGCalID(ctx context.Context, gcalEventID string) (*schedule.Appointment, error) {
	return nil, s.err
}

func TestObserveCalendar_ListEvents(t *testing.T) {
	recorder := withSpanRecorder(t)
	m, reader := newTestMetrics(t, false)

	cal := ObserveCalendar(&stubCalendar{events: []schedule.Event{{ID: "a"}, {ID: "b"}}}, m)
	events, err := cal.ListEvents(context.Background(), schedule.EventQuery{CalendarID: "team@group.calendar.google.com"})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "calendar.query" {
		t.Fatalf("spans = %v, want one calendar.query span", spans)
	}
	if v, _ := spanAttr(spans[0], SpanAttrResultSize); v.AsInt64() != 2 {
		t.Errorf("result size = %d, want 2", v.AsInt64())
	}
	if v, _ := spanAttr(spans[0], SpanAttrCalendar); v.AsString() != "group" {
		t.Errorf("calendar class = %q, want group", v.AsString())
	}

	points := sumPoints(t, reader, "provider_api_operations_total")
	if len(points) != 1 || attr(points[0], attrStatus) != StatusSuccess || attr(points[0], attrService) != ServiceCalendar {
		t.Errorf("provider metrics = %+v", points)
	}
}

func TestObserveCalendar_PropagatesError(t *testing.T) {
	recorder := withSpanRecorder(t)
	m, reader := newTestMetrics(t, false)
	want := &schedule.ProviderError{Provider: schedule.ProviderCalendar, Kind: schedule.KindNotFound, Status: 410}

	err := ObserveCalendar(&stubCalendar{err: want}, m).DeleteEvent(context.Background(), "primary", "gone")
	if !errors.Is(err, want) {
		t.Fatalf("DeleteEvent() error = %v, want %v", err, want)
	}

	if got := recorder.Ended()[0].Status().Code; got != codes.Error {
		t.Errorf("span status = %v, want Error", got)
	}
	points := sumPoints(t, reader, "provider_api_operations_total")
	if len(points) != 1 || attr(points[0], attrStatus) != StatusError || attr(points[0], attrOperation) != OperationDelete {
		t.Errorf("provider metrics = %+v", points)
	}
}

func TestObserveRecords(t *testing.T) {
	recorder := withSpanRecorder(t)
	m, reader := newTestMetrics(t, false)
	records := ObserveRecords(&stubRecords{tasks: []schedule.Task{{ID: "t1"}}}, m)

	tasks, err := records.QueryTasks(context.Background(), schedule.TaskFilter{})
	if err != nil || len(tasks) != 1 {
		t.Fatalf("QueryTasks() = %v, %v", tasks, err)
	}
	appt, err := records.FindAppointmentByGCalID(context.Background(), "evt")
	if err != nil || appt != nil {
		t.Fatalf("FindAppointmentByGCalID() = %v, %v, want nil, nil", appt, err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "notion.query" || spans[1].Name() != "notion.get" {
		t.Errorf("span names = %q, %q", spans[0].Name(), spans[1].Name())
	}
	if v, _ := spanAttr(spans[1], SpanAttrResultSize); v.AsInt64() != 0 {
		t.Errorf("missing appointment result size = %d, want 0", v.AsInt64())
	}

	var total int64
	for _, dp := range sumPoints(t, reader, "provider_api_operations_total") {
		if attr(dp, attrService) != ServiceNotion {
			t.Errorf("service = %q, want notion", attr(dp, attrService))
		}
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("recorded %d operations, want 2", total)
	}
}
