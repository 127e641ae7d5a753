package schedule

import (
	"math"
	"time"
)

const (
	// TightTransitionThreshold is the smallest comfortable gap between two
	// consecutive events.
	TightTransitionThreshold = 10 * time.Minute

	// LongEventThreshold flags single events longer than this.
	LongEventThreshold = 4 * time.Hour
)

// Overlap reports two consecutive events that intersect.
type Overlap struct {
	Event1       string    `json:"event_1"`
	Event2       string    `json:"event_2"`
	OverlapStart time.Time `json:"overlap_start"`
	OverlapEnd   time.Time `json:"overlap_end"`
}

// TightTransition reports two consecutive events separated by less than
// TightTransitionThreshold.
type TightTransition struct {
	Event1      string    `json:"event_1"`
	Event1End   time.Time `json:"event_1_end"`
	Event2      string    `json:"event_2"`
	Event2Start time.Time `json:"event_2_start"`
	GapMinutes  float64   `json:"gap_minutes"`
}

// LongEvent reports an event longer than LongEventThreshold.
type LongEvent struct {
	Event         string    `json:"event"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

// ConflictReport is the result of DetectConflicts.
type ConflictReport struct {
	Overlaps         []Overlap         `json:"overlaps"`
	TightTransitions []TightTransition `json:"tight_transitions"`
	LongEvents       []LongEvent       `json:"long_events"`
	AllClear         bool              `json:"all_clear"`
}

// DetectConflicts scans busy windows in start order and compares each event
// with its immediate successor only. An event that overlaps a later event
// beyond the next one is not reported; the single pass is intentional.
//
// Long events are checked independently and do not affect AllClear.
func DetectConflicts(busy []BusyWindow) ConflictReport {
	report := ConflictReport{
		Overlaps:         []Overlap{},
		TightTransitions: []TightTransition{},
		LongEvents:       []LongEvent{},
	}

	sorted := make([]BusyWindow, 0, len(busy))
	for _, b := range busy {
		if b.Degenerate() {
			continue
		}
		sorted = append(sorted, b)
	}
	sortWindows(sorted)

	for i, cur := range sorted {
		if cur.Duration() > LongEventThreshold {
			report.LongEvents = append(report.LongEvents, LongEvent{
				Event:         cur.Title,
				Start:         cur.Start,
				End:           cur.End,
				DurationHours: roundTenth(cur.Duration().Hours()),
			})
		}

		if i+1 >= len(sorted) {
			continue
		}
		next := sorted[i+1]

		switch {
		case next.Start.Before(cur.End):
			report.Overlaps = append(report.Overlaps, Overlap{
				Event1:       cur.Title,
				Event2:       next.Title,
				OverlapStart: next.Start,
				OverlapEnd:   minTime(cur.End, next.End),
			})
		case next.Start.Sub(cur.End) < TightTransitionThreshold:
			report.TightTransitions = append(report.TightTransitions, TightTransition{
				Event1:      cur.Title,
				Event1End:   cur.End,
				Event2:      next.Title,
				Event2Start: next.Start,
				GapMinutes:  roundTenth(next.Start.Sub(cur.End).Minutes()),
			})
		}
	}

	report.AllClear = len(report.Overlaps) == 0 && len(report.TightTransitions) == 0
	return report
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
