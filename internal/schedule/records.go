package schedule

import "time"

// Event is a calendar event as seen by the core. Start and End hold either an
// RFC 3339 timestamp or a YYYY-MM-DD date for all-day events.
type Event struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	HTMLLink         string `json:"html_link"`
	Status           string `json:"status"`
	CalendarID       string `json:"calendar_id"`
	RecurringEventID string `json:"recurring_event_id"`
}

// EventSummary is the compact event shape used in overviews.
type EventSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location"`
}

// Summary returns the compact form of the event.
func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:       e.ID,
		Title:    e.Title,
		Start:    e.Start,
		End:      e.End,
		Location: e.Location,
	}
}

// CalendarInfo describes a calendar visible to the authenticated user.
type CalendarInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"access_role"`
}

// EventQuery selects events in [TimeMin, TimeMax).
type EventQuery struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int
}

// DefaultMaxResults is the page size used when a query does not set one.
const DefaultMaxResults = 50

// Unlimited as a record query Limit returns every matching record.
const Unlimited = -1

// DayRangeQuery covers the calendar days from startDate through endDate
// inclusive: TimeMin is startDate at midnight, TimeMax is the midnight after
// endDate.
func DayRangeQuery(calendarID string, startDate, endDate time.Time, maxResults int) EventQuery {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return EventQuery{
		CalendarID: calendarID,
		TimeMin:    StartOfDay(startDate),
		TimeMax:    StartOfDay(endDate).AddDate(0, 0, 1),
		MaxResults: maxResults,
	}
}

// EventInput is the payload for creating a timed event.
type EventInput struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
}

// EventPatch changes only the fields that are set.
type EventPatch struct {
	Title       *string
	Start       *time.Time
	End         *time.Time
	Description *string
	Location    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Start == nil && p.End == nil && p.Description == nil && p.Location == nil
}

// Appointment types, statuses and flags as configured in the Notion database.
const (
	AppointmentTypeMedical  = "Medical"
	AppointmentTypePersonal = "Personal"
	AppointmentTypeWork     = "Work"
	AppointmentTypeOther    = "Other"

	AppointmentStatusScheduled  = "Scheduled"
	AppointmentStatusInProgress = "In progress"
	AppointmentStatusCompleted  = "Completed"

	Canceled    = "Canceled"
	NotCanceled = "Not canceled"

	RecurringOneTime = "One-Time"
	RecurringLimited = "Limited Recurring"
	RecurringAlways  = "Recurring"
)

// Appointment is a record from the appointments database. Pointer fields
// are nil when the property is empty in Notion.
type Appointment struct {
	ID           string  `json:"notion_id"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Start        *string `json:"start"`
	End          *string `json:"end"`
	Type         *string `json:"type"`
	Status       *string `json:"status"`
	Canceled     *string `json:"canceled"`
	Recurring    *string `json:"recurring"`
	Notes        string  `json:"notes"`
	GCalEventID  string  `json:"gcal_event_id"`
	GCalSeriesID string  `json:"gcal_series_id"`
}

// AppointmentFilter narrows an appointment query. Empty fields are ignored.
// StartDate and EndDate bound the appointment's Start property inclusively.
type AppointmentFilter struct {
	StartDate string
	EndDate   string
	Type      string
	Status    string
	Limit     int
}

// AppointmentInput creates an appointment. Type defaults to Personal.
type AppointmentInput struct {
	Title        string
	Start        string
	End          string
	Type         string
	Notes        string
	GCalEventID  string
	GCalSeriesID string
	Recurring    string
}

// AppointmentPatch changes only the fields that are set.
type AppointmentPatch struct {
	Title        *string
	Start        *string
	End          *string
	Type         *string
	Status       *string
	Canceled     *string
	Notes        *string
	GCalEventID  *string
	GCalSeriesID *string
	Recurring    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p AppointmentPatch) IsEmpty() bool {
	return p.Title == nil && p.Start == nil && p.End == nil && p.Type == nil &&
		p.Status == nil && p.Canceled == nil && p.Notes == nil &&
		p.GCalEventID == nil && p.GCalSeriesID == nil && p.Recurring == nil
}

// Task statuses as configured in the Notion tasks database.
const (
	TaskStatusNotStarted = "Not started"
	TaskStatusInProgress = "In progress"
	TaskStatusDone       = "Done"
	TaskStatusArchived   = "Archived"
	TaskStatusOverdue    = "Overdue"
)

// Task is a record from the tasks database.
type Task struct {
	ID      string  `json:"notion_id"`
	URL     string  `json:"url"`
	Name    string  `json:"name"`
	Status  *string `json:"status"`
	DueDate *string `json:"due_date"`
}

// TaskFilter narrows a task query. DueBefore and DueAfter are inclusive
// date bounds. Tasks whose status is in ExcludeStatuses are left out.
type TaskFilter struct {
	Status          string
	ExcludeStatuses []string
	DueBefore       string
	DueAfter        string
	Limit           int
}

// TaskInput creates a task. Status defaults to Not started.
type TaskInput struct {
	Name    string
	DueDate string
	Status  string
}

// TaskPatch changes only the fields that are set.
type TaskPatch struct {
	Name    *string
	Status  *string
	DueDate *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && p.DueDate == nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
