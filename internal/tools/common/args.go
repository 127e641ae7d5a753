package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// Argument names shared across tools.
const (
	ArgCalendarID = "calendar_id"
	ArgLimit      = "limit"
)

// DefaultLimit is the page size used by query tools.
const DefaultLimit = 50

// OptionalString returns a pointer to the argument's value, or nil when the
// argument is absent. An empty string is a value: it clears the field.
func OptionalString(request mcp.CallToolRequest, name string) *string {
	v, ok := request.GetArguments()[name]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return &s
}

// RequireDate parses a required YYYY-MM-DD argument in loc.
func RequireDate(request mcp.CallToolRequest, name string, loc *time.Location) (time.Time, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := schedule.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format, got %q", name, value)
	}
	return t, nil
}

// RequireInstant parses a required ISO timestamp argument. Values without
// an offset are read in loc.
func RequireInstant(request mcp.CallToolRequest, name string, loc *time.Location) (time.Time, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return time.Time{}, err
	}
	return parseInstantArg(name, value, loc)
}

// OptionalInstant parses an optional ISO timestamp argument.
func OptionalInstant(request mcp.CallToolRequest, name string, loc *time.Location) (*time.Time, error) {
	value := OptionalString(request, name)
	if value == nil {
		return nil, nil
	}
	t, err := parseInstantArg(name, *value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInstantArg(name, value string, loc *time.Location) (time.Time, error) {
	t, err := schedule.ParseInstant(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an ISO 8601 datetime, got %q", name, value)
	}
	return t, nil
}

// OptionalDateString validates an optional YYYY-MM-DD argument and returns
// it unchanged, or "" when absent.
func OptionalDateString(request mcp.CallToolRequest, name string, loc *time.Location) (string, error) {
	value := request.GetString(name, "")
	if value == "" {
		return "", nil
	}
	if _, err := schedule.ParseDate(value, loc); err != nil {
		return "", fmt.Errorf("%s must be a date in YYYY-MM-DD format, got %q", name, value)
	}
	return value, nil
}

// IntInRange returns an integer argument, def when absent, and an error
// when the value is not a whole number or is outside [lo, hi].
func IntInRange(request mcp.CallToolRequest, name string, def, lo, hi int) (int, error) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return def, nil
	}
	v, err := wholeNumber(name, raw)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", name, lo, hi, v)
	}
	return v, nil
}

func wholeNumber(name string, raw any) (int, error) {
	var f float64
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number, got %q", name, v.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number, got %q", name, v)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%s must be a whole number, got %v", name, raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a whole number, got %v", name, f)
	}
	return int(f), nil
}

// OneOf validates an optional enumerated argument.
func OneOf(request mcp.CallToolRequest, name string, allowed ...string) (string, error) {
	value := request.GetString(name, "")
	if value == "" {
		return "", nil
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}
