// Package schedule holds the interval logic that reconciles calendar busy time
// with structured records from Notion.
//
// The package is provider-agnostic. Calendar events and Notion records arrive
// through the CalendarProvider and RecordProvider interfaces and are converted
// into Intervals before any arithmetic happens.
//
// # Components
//
//   - Interval / BusyWindow: half-open [start, end) spans in a configured zone
//   - FindFreeSlots: cursor walk over a single day's busy windows
//   - DetectConflicts: adjacent-pair scan for overlaps and tight transitions,
//     plus a per-event check for long sessions
//   - WeekBounds / Service.WeekOverview: Monday-to-Sunday snapshot across all sources
//   - ReconcileOverdue: union of status-based and date-based overdue detection
//
// Malformed items coming from a provider are dropped rather than failing the
// whole computation. Provider failures are surfaced as *ProviderError values
// and rendered to text by ErrorMessage.
package schedule
