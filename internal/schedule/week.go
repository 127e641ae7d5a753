package schedule

import "time"

// WeekBounds returns Monday and Sunday (midnight, anchor's location) of the
// ISO week containing anchor.
func WeekBounds(anchor time.Time) (monday, sunday time.Time) {
	day := StartOfDay(anchor)
	offset := (int(day.Weekday()) + 6) % 7
	monday = day.AddDate(0, 0, -offset)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// DateRange is an inclusive pair of ISO dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekSummary holds per-category counts of a WeekSnapshot.
type WeekSummary struct {
	EventCount       int `json:"event_count"`
	AppointmentCount int `json:"appointment_count"`
	TasksDueCount    int `json:"tasks_due_count"`
	OverdueCount     int `json:"overdue_count"`
}

// WeekSnapshot aggregates every source for one week. Records present in both
// the calendar and the appointments database appear in both lists.
type WeekSnapshot struct {
	WeekRange      DateRange      `json:"week_range"`
	CalendarEvents []EventSummary `json:"calendar_events"`
	Appointments   []Appointment  `json:"appointments"`
	TasksDue       []Task         `json:"tasks_due_this_week"`
	OverdueTasks   []Task         `json:"overdue_tasks"`
	Summary        WeekSummary    `json:"summary"`
}

// NewWeekSnapshot assembles a snapshot and fills in the counts.
func NewWeekSnapshot(monday, sunday time.Time, events []Event, appointments []Appointment, due, overdue []Task) WeekSnapshot {
	summaries := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		summaries = append(summaries, ev.Summary())
	}
	if appointments == nil {
		appointments = []Appointment{}
	}
	if due == nil {
		due = []Task{}
	}
	if overdue == nil {
		overdue = []Task{}
	}

	return WeekSnapshot{
		WeekRange: DateRange{
			Start: monday.Format(DateLayout),
			End:   sunday.Format(DateLayout),
		},
		CalendarEvents: summaries,
		Appointments:   appointments,
		TasksDue:       due,
		OverdueTasks:   overdue,
		Summary: WeekSummary{
			EventCount:       len(summaries),
			AppointmentCount: len(appointments),
			TasksDueCount:    len(due),
			OverdueCount:     len(overdue),
		},
	}
}
