package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the layout used for date-only values (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

// localDateTimeLayouts are accepted for values without a zone offset.
// They are interpreted in the configured location.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999",
}

// Interval is a half-open time span [Start, End).
// Start <= End is not enforced; see Degenerate.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Degenerate reports whether the interval is empty or inverted.
func (i Interval) Degenerate() bool {
	return !i.End.After(i.Start)
}

// Overlaps reports whether two intervals share any instant.
// Touching intervals ([a, b) and [b, c)) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t lies inside [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// ParseInstant parses a provider timestamp. Full RFC 3339 values keep their
// offset and are converted to loc; values without an offset and date-only
// values are interpreted in loc (date-only values at midnight).
func ParseInstant(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ParseDate parses a date-only value (or the date part of a timestamp) and
// returns midnight of that day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := ParseInstant(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseInterval builds an Interval from raw start and end strings.
func ParseInterval(start, end string, loc *time.Location) (Interval, error) {
	s, err := ParseInstant(start, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start: %w", err)
	}
	e, err := ParseInstant(end, loc)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end: %w", err)
	}
	return Interval{Start: s, End: e}, nil
}

// BusyWindow is an Interval occupied by a calendar event.
type BusyWindow struct {
	Interval
	EventID string
	Title   string
}

// UntitledEvent is used when an event carries no title.
const UntitledEvent = "(no title)"

// BusyWindows converts events into busy windows sorted by start time.
// Events whose start or end cannot be parsed are dropped. Ties are broken
// by end time and then title so that the order is deterministic.
func BusyWindows(events []Event, loc *time.Location) []BusyWindow {
	windows := make([]BusyWindow, 0, len(events))
	for _, ev := range events {
		iv, err := ParseInterval(ev.Start, ev.End, loc)
		if err != nil {
			continue
		}
		title := ev.Title
		if title == "" {
			title = UntitledEvent
		}
		windows = append(windows, BusyWindow{Interval: iv, EventID: ev.ID, Title: title})
	}
	sortWindows(windows)
	return windows
}

func sortWindows(windows []BusyWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.Title < b.Title
	})
}
