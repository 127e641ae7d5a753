package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// withSpanRecorder installs a recording tracer provider for the test.
func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartToolSpan(t *testing.T) {
	recorder := withSpanRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "find_free_slots",
		NewSpanAttributeBuilder().WithCalendar("primary").WithReadOnly(true).Build()...)
	if GetTraceID(ctx) == "" {
		t.Error("expected a trace id in context")
	}
	SetSpanSuccess(span)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name() != "tool.find_free_slots" {
		t.Errorf("Name = %q", got.Name())
	}
	if got.SpanKind() != trace.SpanKindServer {
		t.Errorf("SpanKind = %v, want server", got.SpanKind())
	}
	if v, ok := spanAttr(got, SpanAttrCalendar); !ok || v.AsString() != "primary" {
		t.Errorf("%s = %v", SpanAttrCalendar, v)
	}
	if v, ok := spanAttr(got, SpanAttrReadOnly); !ok || !v.AsBool() {
		t.Errorf("%s = %v", SpanAttrReadOnly, v)
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("Status = %v, want Ok", got.Status().Code)
	}
}

func TestStartProviderSpan_Error(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartProviderSpan(context.Background(), ServiceNotion, OperationQuery)
	SetSpanError(span, errors.New("rate limited"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name() != "notion.query" {
		t.Errorf("Name = %q, want notion.query", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("SpanKind = %v, want client", got.SpanKind())
	}
	if got.Status().Code != codes.Error || got.Status().Description != "rate limited" {
		t.Errorf("Status = %+v", got.Status())
	}
	if len(got.Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID() = %q, want empty", id)
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartSpan(context.Background(), "noop")
	SetSpanError(span, nil)
	span.End()

	if code := recorder.Ended()[0].Status().Code; code != codes.Unset {
		t.Errorf("Status = %v, want Unset", code)
	}
}
