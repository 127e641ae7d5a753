package schedule

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindPermission
	KindConflict
	KindRateLimit
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindConflict:
		return "conflict"
	case KindRateLimit:
		return "rate_limit"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Provider names used in ProviderError.
const (
	ProviderCalendar = "calendar"
	ProviderNotion   = "notion"
)

// ProviderError is a classified failure returned by a provider call.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	// Status is the HTTP status reported by the provider, if any.
	Status int
	// Code is the provider's own error code (for Notion, e.g. "object_not_found").
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error (%s): %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.Status, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrNotConfigured is returned when a record collection has no database id.
var ErrNotConfigured = errors.New("record collection is not configured")

// ErrInvalidArgument marks a request rejected before any provider call.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrorMessage renders err as the text returned to the invoking agent.
// Classified provider failures get a fixed, actionable message; anything
// else yields "" so the caller can describe it in context.
func ErrorMessage(err error) string {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return ""
	}

	switch pe.Provider {
	case ProviderCalendar:
		return calendarMessage(pe)
	case ProviderNotion:
		return notionMessage(pe)
	default:
		return fmt.Sprintf("Error: %s", pe.Error())
	}
}

func calendarMessage(pe *ProviderError) string {
	switch pe.Kind {
	case KindNotFound:
		return "Error: Calendar event not found. Check the event ID."
	case KindPermission:
		return "Error: Permission denied. Ensure the Calendar API is enabled and OAuth scopes include calendar write."
	case KindConflict:
		return "Error: Conflict - this event may already exist."
	case KindRateLimit:
		return "Error: Google Calendar API rate limit hit. Wait a moment and retry."
	default:
		return fmt.Sprintf("Error: Google Calendar API error %d: %s", pe.Status, pe.Message)
	}
}

func notionMessage(pe *ProviderError) string {
	switch pe.Kind {
	case KindNotFound:
		return "Error: Notion page or database not found. Check that the integration has access."
	case KindPermission:
		return "Error: Notion token is invalid or expired."
	case KindValidation:
		return fmt.Sprintf("Error: Invalid data sent to Notion - %s", pe.Message)
	case KindRateLimit:
		return "Error: Notion rate limit hit. Wait a moment and retry."
	default:
		return fmt.Sprintf("Error: Notion API error (%s): %s", pe.Code, pe.Message)
	}
}
