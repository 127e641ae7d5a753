package instrumentation

import (
	"errors"
	"strings"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// Cardinality helpers reduce free-form values to a small label set.

// CalendarClass buckets a calendar ID for use as a metric label.
//
//	CalendarClass("primary")                               // "primary"
//	CalendarClass("abc@group.calendar.google.com")         // "group"
//	CalendarClass("en.usa#holiday@group.v.calendar.google.com") // "subscribed"
//	CalendarClass("jane@example.com")                      // "user"
func CalendarClass(calendarID string) string {
	switch {
	case calendarID == "" || calendarID == "primary":
		return "primary"
	case strings.HasSuffix(calendarID, "@group.calendar.google.com"):
		return "group"
	case strings.HasSuffix(calendarID, ".calendar.google.com"):
		return "subscribed"
	case strings.Contains(calendarID, "@"):
		return "user"
	default:
		return "other"
	}
}

// ErrorKind returns the provider error kind of err, "none" for nil and
// "internal" for errors that did not come from a provider or argument
// validation.
func ErrorKind(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, schedule.ErrNotConfigured) {
		return "not_configured"
	}
	if errors.Is(err, schedule.ErrInvalidArgument) {
		return "invalid_argument"
	}
	var pe *schedule.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind.String()
	}
	return "internal"
}

// Operation types for provider metrics.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationQuery  = "query"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Finding kinds for schedule_findings_total.
const (
	FindingOverlap         = "overlap"
	FindingTightTransition = "tight_transition"
	FindingLongEvent       = "long_event"
	FindingFreeSlot        = "free_slot"
	FindingOverdueTask     = "overdue_task"
)
