package common

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/logging"
	"github.com/teemow/schedule-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// failure carries the error behind an error result from ErrorResult back to
// the instrumented wrapper.
type failure struct {
	mu  sync.Mutex
	err error
}

type failureKey struct{}

func recordFailure(ctx context.Context, err error) {
	if f, ok := ctx.Value(failureKey{}).(*failure); ok && err != nil {
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
	}
}

func (f *failure) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// InstrumentedToolHandler wraps a tool handler with a span, metrics and
// audit logging.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("gcal_get_events", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return InstrumentedToolHandlerWithService(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// records the backend service and operation type on the audit entry.
// Provider call metrics are recorded separately by the observed providers.
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		args := request.GetArguments()
		calendarID := ""
		if _, ok := args[ArgCalendarID]; ok || serviceName == instrumentation.ServiceCalendar {
			calendarID = sc.Service().CalendarID(request.GetString(ArgCalendarID, ""))
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithCalendar(calendarID).
				WithReadOnly(sc.ReadOnly()).
				Build()...)
		defer span.End()

		f := &failure{}
		ctx = context.WithValue(ctx, failureKey{}, f)

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation).
			WithCalendar(calendarID).
			WithArguments(args)

		sc.Logger().Debug("tool invoked",
			logging.Tool(toolName),
			logging.InvocationID(invocation.InvocationID))

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, f.get())
		default:
			invocation.CompleteSuccess()
		}

		if status == instrumentation.StatusError {
			instrumentation.SetSpanError(span, firstErr(err, f.get()))
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocation(ctx, toolName, status, invocation.ErrorKind, duration)
		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
