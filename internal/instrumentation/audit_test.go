package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

const testTool = "create_event"

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testTool)

	if ti.Tool != testTool {
		t.Errorf("Tool = %q, want %q", ti.Tool, testTool)
	}
	if ti.InvocationID == "" {
		t.Error("InvocationID should be set")
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success || ti.Status() != StatusSuccess {
		t.Error("invocation should be successful")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" || ti.ErrorKind != "" {
		t.Errorf("Error = %q, ErrorKind = %q, want empty", ti.Error, ti.ErrorKind)
	}
}

func TestToolInvocation_UniqueIDs(t *testing.T) {
	a := NewToolInvocation(testTool)
	b := NewToolInvocation(testTool)
	if a.InvocationID == b.InvocationID {
		t.Error("invocation IDs should differ")
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testTool)
	err := &schedule.ProviderError{Provider: schedule.ProviderCalendar, Kind: schedule.KindPermission, Status: 403, Message: "forbidden"}

	ti.CompleteWithError(err)

	if ti.Success || ti.Status() != StatusError {
		t.Error("invocation should have failed")
	}
	if ti.ErrorKind != "permission" {
		t.Errorf("ErrorKind = %q, want permission", ti.ErrorKind)
	}
	if ti.Error != err.Error() {
		t.Errorf("Error = %q, want %q", ti.Error, err.Error())
	}
}

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
	}
	return entry
}

func TestAuditLogger_OmitsArgumentsByDefault(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ti := NewToolInvocation(testTool).
		WithCalendar("jane@example.com").
		WithService(ServiceCalendar, OperationCreate).
		WithArguments(map[string]any{"title": "Dentist"})
	ti.CompleteSuccess()
	al.LogToolInvocation(ti)

	entry := logEntry(t, &buf)
	if entry["msg"] != "tool_executed" {
		t.Errorf("msg = %v, want tool_executed", entry["msg"])
	}
	if _, ok := entry["arguments"]; ok {
		t.Error("arguments should not be logged by default")
	}
	if _, ok := entry["calendar_id"]; ok {
		t.Error("raw calendar id should not be logged by default")
	}
	if entry["calendar_class"] != "user" {
		t.Errorf("calendar_class = %v, want user", entry["calendar_class"])
	}
	if entry["invocation_id"] != ti.InvocationID {
		t.Errorf("invocation_id = %v, want %s", entry["invocation_id"], ti.InvocationID)
	}
}

func TestAuditLogger_IncludeArguments(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewJSONHandler(&buf, nil)), AuditLoggingConfig{
		Enabled:          true,
		IncludeArguments: true,
	})

	ti := NewToolInvocation(testTool).
		WithCalendar("primary").
		WithArguments(map[string]any{"title": "Dentist"})
	ti.CompleteWithError(errors.New("boom"))
	al.LogToolInvocation(ti)

	entry := logEntry(t, &buf)
	if entry["msg"] != "tool_failed" {
		t.Errorf("msg = %v, want tool_failed", entry["msg"])
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	args, ok := entry["arguments"].(map[string]any)
	if !ok || args["title"] != "Dentist" {
		t.Errorf("arguments = %v, want title Dentist", entry["arguments"])
	}
	if entry["calendar_id"] != "primary" {
		t.Errorf("calendar_id = %v, want primary", entry["calendar_id"])
	}
	if entry["error_kind"] != "internal" {
		t.Errorf("error_kind = %v, want internal", entry["error_kind"])
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	al.SetEnabled(false)

	al.LogToolInvocation(NewToolInvocation(testTool).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testTool))
}
