package calendar

import (
	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// toEvent converts an API event. All-day events keep their YYYY-MM-DD dates.
func toEvent(item *calendar.Event) schedule.Event {
	if item == nil {
		return schedule.Event{}
	}

	title := item.Summary
	if title == "" {
		title = schedule.UntitledEvent
	}

	event := schedule.Event{
		ID:               item.Id,
		Title:            title,
		Start:            timeString(item.Start),
		End:              timeString(item.End),
		Description:      item.Description,
		Location:         item.Location,
		HTMLLink:         item.HtmlLink,
		Status:           item.Status,
		RecurringEventID: item.RecurringEventId,
	}
	if item.Organizer != nil {
		event.CalendarID = item.Organizer.Email
	}
	return event
}

func timeString(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}

func toCalendarInfo(entry *calendar.CalendarListEntry) schedule.CalendarInfo {
	if entry == nil {
		return schedule.CalendarInfo{}
	}
	return schedule.CalendarInfo{
		ID:         entry.Id,
		Name:       entry.Summary,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}
