package schedule

import "time"

// settledStatuses exclude a task from date-based overdue detection.
var settledStatuses = map[string]bool{
	TaskStatusDone:     true,
	TaskStatusArchived: true,
	TaskStatusOverdue:  true,
}

// ReconcileOverdue merges the two overdue detection strategies.
//
// byStatus contributes every task whose status is exactly "Overdue".
// byDate contributes tasks due strictly before today that are not Done,
// Archived or already Overdue. The result is de-duplicated by id, keeping
// the first occurrence, with the status-based tasks first. Over-reporting
// is preferred when the two strategies disagree.
func ReconcileOverdue(byStatus, byDate []Task, today time.Time) []Task {
	todayStr := today.Format(DateLayout)
	seen := make(map[string]bool, len(byStatus)+len(byDate))
	result := []Task{}

	add := func(t Task) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		result = append(result, t)
	}

	for _, t := range byStatus {
		if StringValue(t.Status) == TaskStatusOverdue {
			add(t)
		}
	}

	for _, t := range byDate {
		if settledStatuses[StringValue(t.Status)] {
			continue
		}
		due, ok := dueDate(t.DueDate)
		if !ok || due >= todayStr {
			continue
		}
		add(t)
	}

	return result
}

// dueDate extracts the calendar date of a due value, which may be a plain
// date or a timestamp.
func dueDate(value *string) (string, bool) {
	if value == nil || len(*value) < len(DateLayout) {
		return "", false
	}
	prefix := (*value)[:len(DateLayout)]
	if _, err := time.Parse(DateLayout, prefix); err != nil {
		return "", false
	}
	return prefix, true
}
