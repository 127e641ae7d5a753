package schedule

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// TaskBlockTitlePrefix marks calendar events created as work blocks.
const TaskBlockTitlePrefix = "🔨 "

// Options configures a Service.
type Options struct {
	Location          *time.Location
	DefaultCalendarID string
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// Service composes the interval logic with the calendar and record providers.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	calendar          CalendarProvider
	records           RecordProvider
	loc               *time.Location
	defaultCalendarID string
	now               func() time.Time
}

// NewService creates a Service.
func NewService(calendar CalendarProvider, records RecordProvider, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	calendarID := opts.DefaultCalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		calendar:          calendar,
		records:           records,
		loc:               loc,
		defaultCalendarID: calendarID,
		now:               now,
	}
}

// Calendar returns the calendar provider.
func (s *Service) Calendar() CalendarProvider {
	return s.calendar
}

// Records returns the record provider.
func (s *Service) Records() RecordProvider {
	return s.records
}

// Location returns the configured time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CalendarID returns id, or the default calendar when id is empty.
func (s *Service) CalendarID(id string) string {
	if id == "" {
		return s.defaultCalendarID
	}
	return id
}

// Today returns midnight of the current day in the configured zone.
func (s *Service) Today() time.Time {
	return StartOfDay(s.now().In(s.loc))
}

// ParseDate parses a date in the configured zone.
func (s *Service) ParseDate(value string) (time.Time, error) {
	return ParseDate(value, s.loc)
}

// ParseInstant parses a timestamp in the configured zone.
func (s *Service) ParseInstant(value string) (time.Time, error) {
	return ParseInstant(value, s.loc)
}

// EventsBetween lists events on the calendar days startDate through endDate.
func (s *Service) EventsBetween(ctx context.Context, calendarID string, startDate, endDate time.Time, maxResults int) ([]Event, error) {
	query := DayRangeQuery(s.CalendarID(calendarID), startDate.In(s.loc), endDate.In(s.loc), maxResults)
	return s.calendar.ListEvents(ctx, query)
}

// FindFreeSlots looks up busy time on req.Date only and returns the free
// slots inside the working-hours window. Every slot ends by latest_hour.
func (s *Service) FindFreeSlots(ctx context.Context, calendarID string, req SlotRequest) ([]FreeSlot, error) {
	if req.Location == nil {
		req.Location = s.loc
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.LatestHour <= req.EarliestHour {
		return []FreeSlot{}, nil
	}

	day := req.Date.In(req.Location)
	events, err := s.EventsBetween(ctx, calendarID, day, day, DefaultMaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return FindFreeSlots(req, BusyWindows(events, req.Location)), nil
}

// ConflictResult is a ConflictReport for an inclusive date range.
type ConflictResult struct {
	DateRange DateRange `json:"date_range"`
	ConflictReport
}

// FindConflicts checks the events between startDate and endDate.
func (s *Service) FindConflicts(ctx context.Context, calendarID string, startDate, endDate time.Time) (*ConflictResult, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	events, err := s.EventsBetween(ctx, calendarID, startDate, endDate, DefaultMaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &ConflictResult{
		DateRange: DateRange{
			Start: startDate.In(s.loc).Format(DateLayout),
			End:   endDate.In(s.loc).Format(DateLayout),
		},
		ConflictReport: DetectConflicts(BusyWindows(events, s.loc)),
	}, nil
}

// OverdueTasks returns the reconciled overdue set as of today. Both
// queries read every matching record; settled tasks are excluded by the
// provider before any paging happens.
func (s *Service) OverdueTasks(ctx context.Context) ([]Task, error) {
	today := s.Today()
	yesterday := today.AddDate(0, 0, -1).Format(DateLayout)

	var byStatus, byDate []Task
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.records.QueryTasks(gctx, TaskFilter{Status: TaskStatusOverdue, Limit: Unlimited})
		return err
	})
	g.Go(func() error {
		var err error
		byDate, err = s.records.QueryTasks(gctx, TaskFilter{
			DueBefore:       yesterday,
			ExcludeStatuses: []string{TaskStatusDone, TaskStatusArchived, TaskStatusOverdue},
			Limit:           Unlimited,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	return ReconcileOverdue(byStatus, byDate, today), nil
}

// WeekOverview builds the snapshot for the week containing anchor. The four
// sources are fetched concurrently; any failure or cancellation discards the
// whole snapshot.
func (s *Service) WeekOverview(ctx context.Context, anchor time.Time) (*WeekSnapshot, error) {
	monday, sunday := WeekBounds(anchor.In(s.loc))
	startStr := monday.Format(DateLayout)
	endStr := sunday.Format(DateLayout)

	var (
		events       []Event
		appointments []Appointment
		due          []Task
		overdue      []Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.EventsBetween(gctx, "", monday, sunday, DefaultMaxResults)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appointments, err = s.records.QueryAppointments(gctx, AppointmentFilter{StartDate: startStr, EndDate: endStr, Limit: Unlimited})
		if err != nil {
			return fmt.Errorf("failed to query appointments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		due, err = s.records.QueryTasks(gctx, TaskFilter{DueAfter: startStr, DueBefore: endStr, Limit: Unlimited})
		if err != nil {
			return fmt.Errorf("failed to query tasks due: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		overdue, err = s.OverdueTasks(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := NewWeekSnapshot(monday, sunday, events, appointments, due, overdue)
	return &snapshot, nil
}

// TaskBlock requests a calendar work block for a task.
type TaskBlock struct {
	TaskID     string
	TaskName   string
	TaskURL    string
	CalendarID string
	Start      time.Time
	End        time.Time
}

// TaskBlockResult is returned by ScheduleTaskBlock.
type TaskBlockResult struct {
	Message       string       `json:"message"`
	Event         EventSummary `json:"event"`
	NotionTaskURL string       `json:"notion_task_url"`
}

// ScheduleTaskBlock creates a calendar event pointing at the task. The task
// record itself is left untouched.
func (s *Service) ScheduleTaskBlock(ctx context.Context, block TaskBlock) (*TaskBlockResult, error) {
	if !block.End.After(block.Start) {
		return nil, fmt.Errorf("end must be after start")
	}

	event, err := s.calendar.CreateEvent(ctx, s.CalendarID(block.CalendarID), EventInput{
		Title:       TaskBlockTitlePrefix + block.TaskName,
		Start:       block.Start,
		End:         block.End,
		Description: "Work block for Notion task:\n" + block.TaskURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create work block: %w", err)
	}

	return &TaskBlockResult{
		Message:       "Work block created on Google Calendar.",
		Event:         event.Summary(),
		NotionTaskURL: block.TaskURL,
	}, nil
}
