package schedule

import (
	"fmt"
	"time"
)

// Working-hours defaults for free-slot search.
const (
	DefaultEarliestHour = 8
	DefaultLatestHour   = 20

	// MaxSlotDuration bounds the requested slot length accepted from callers.
	MaxSlotDuration = 8 * time.Hour
)

// FreeSlot is a candidate opening of exactly the requested duration.
type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotRequest describes a free-slot search on a single day.
type SlotRequest struct {
	// Date is any instant on the target day; only its calendar date in
	// Location is used.
	Date         time.Time
	Duration     time.Duration
	EarliestHour int
	LatestHour   int
	Location     *time.Location
}

// Validate rejects out-of-range inputs. A window where LatestHour does not
// exceed EarliestHour is valid and simply yields no slots.
func (r SlotRequest) Validate() error {
	if r.Duration < time.Minute {
		return fmt.Errorf("duration must be at least 1 minute")
	}
	if r.Duration > MaxSlotDuration {
		return fmt.Errorf("duration must be at most %d minutes", int(MaxSlotDuration.Minutes()))
	}
	if r.EarliestHour < 0 || r.EarliestHour > 23 {
		return fmt.Errorf("earliest_hour must be between 0 and 23")
	}
	if r.LatestHour < 1 || r.LatestHour > 24 {
		return fmt.Errorf("latest_hour must be between 1 and 24")
	}
	return nil
}

// Window returns the working-hours interval for the request's day.
// Hour 24 resolves to midnight of the following day.
func (r SlotRequest) Window() Interval {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := r.Date.In(loc).Date()
	return Interval{
		Start: time.Date(y, m, d, r.EarliestHour, 0, 0, 0, loc),
		End:   time.Date(y, m, d, r.LatestHour, 0, 0, 0, loc),
	}
}

// FindFreeSlots walks busy windows in start order and reports one
// duration-sized slot at the beginning of each gap that can hold it.
// A long gap yields a single slot, not every position it could fit.
//
// busy need not be sorted or disjoint. Degenerate windows are ignored.
// Slots never extend past the end of the working-hours window, so a gap
// starting shortly before latest_hour yields no slot even if a plain walk
// over the busy windows would report one.
func FindFreeSlots(req SlotRequest, busy []BusyWindow) []FreeSlot {
	slots := []FreeSlot{}
	if req.LatestHour <= req.EarliestHour || req.Duration <= 0 {
		return slots
	}

	window := req.Window()
	sorted := make([]BusyWindow, 0, len(busy))
	for _, b := range busy {
		if b.Degenerate() {
			continue
		}
		sorted = append(sorted, b)
	}
	sortWindows(sorted)

	cursor := window.Start
	for _, b := range sorted {
		slotEnd := cursor.Add(req.Duration)
		if !slotEnd.After(b.Start) && !slotEnd.After(window.End) {
			slots = append(slots, FreeSlot{Start: cursor, End: slotEnd})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	if slotEnd := cursor.Add(req.Duration); !slotEnd.After(window.End) {
		slots = append(slots, FreeSlot{Start: cursor, End: slotEnd})
	}

	return slots
}
