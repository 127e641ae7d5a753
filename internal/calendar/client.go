package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// maxPageSize is the largest page the Events.list endpoint returns.
const maxPageSize = 250

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
	loc *time.Location
}

var _ schedule.CalendarProvider = (*Client)(nil)

// NewClient creates a Calendar client. Timed events are created in loc.
func NewClient(ctx context.Context, loc *time.Location, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Client{svc: svc, loc: loc}, nil
}

// ListCalendars lists all calendars in the user's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]schedule.CalendarInfo, error) {
	calendars := []schedule.CalendarInfo{}
	call := c.svc.CalendarList.List().Context(ctx)
	err := call.Pages(ctx, func(list *calendar.CalendarList) error {
		for _, entry := range list.Items {
			calendars = append(calendars, toCalendarInfo(entry))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", classifyError(err))
	}
	return calendars, nil
}

// ListEvents lists events overlapping [TimeMin, TimeMax) with recurring
// events expanded into instances, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, query schedule.EventQuery) ([]schedule.Event, error) {
	limit := query.MaxResults
	if limit <= 0 {
		limit = schedule.DefaultMaxResults
	}

	events := []schedule.Event{}
	pageToken := ""
	for {
		pageSize := limit - len(events)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		call := c.svc.Events.List(query.CalendarID).
			TimeMin(query.TimeMin.Format(time.RFC3339)).
			TimeMax(query.TimeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(int64(pageSize)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", classifyError(err))
		}

		for _, item := range resp.Items {
			events = append(events, toEvent(item))
			if len(events) >= limit {
				return events, nil
			}
		}

		if resp.NextPageToken == "" {
			return events, nil
		}
		pageToken = resp.NextPageToken
	}
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*schedule.Event, error) {
	item, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", classifyError(err))
	}
	event := toEvent(item)
	return &event, nil
}

// CreateEvent creates a timed event in the client's time zone.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input schedule.EventInput) (*schedule.Event, error) {
	item := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Location:    input.Location,
		Start:       c.dateTime(input.Start),
		End:         c.dateTime(input.End),
	}

	created, err := c.svc.Events.Insert(calendarID, item).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", classifyError(err))
	}
	event := toEvent(created)
	return &event, nil
}

// UpdateEvent fetches the event, applies the patch and writes it back.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, patch schedule.EventPatch) (*schedule.Event, error) {
	existing, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", classifyError(err))
	}

	c.applyPatch(existing, patch)

	updated, err := c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", classifyError(err))
	}
	event := toEvent(updated)
	return &event, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", classifyError(err))
	}
	return nil
}

func (c *Client) applyPatch(event *calendar.Event, patch schedule.EventPatch) {
	if patch.Title != nil {
		event.Summary = *patch.Title
	}
	if patch.Start != nil {
		event.Start = c.dateTime(*patch.Start)
	}
	if patch.End != nil {
		event.End = c.dateTime(*patch.End)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
}

func (c *Client) dateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{
		DateTime: t.In(c.loc).Format(time.RFC3339),
		TimeZone: c.loc.String(),
	}
}
