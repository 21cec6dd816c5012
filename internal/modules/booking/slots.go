package booking

import (
	"sort"
	"time"

	"dormwash/internal/domain"
)

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// slotStep is the bucket size used for availability and pricing.
const slotStep = domain.SlotMinutes * time.Minute

// operatingWindow returns the bookable window for a calendar day.
func operatingWindow(day time.Time) (time.Time, time.Time) {
	open := time.Date(day.Year(), day.Month(), day.Day(), domain.OpeningHour, 0, 0, 0, day.Location())
	close := time.Date(day.Year(), day.Month(), day.Day(), domain.ClosingHour, 0, 0, 0, day.Location())
	return open, close
}

// GenerateDaySlots enumerates every 30-minute bucket between opening and
// closing on the given day and keeps the ones that start in the future and do
// not overlap an active booking.
func GenerateDaySlots(day time.Time, busy []domain.Booking, now time.Time) []TimeSlot {
	open, close := operatingWindow(day)

	sorted := make([]domain.Booking, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })

	out := make([]TimeSlot, 0, int(close.Sub(open)/slotStep))
	for start := open; start.Before(close); start = start.Add(slotStep) {
		end := start.Add(slotStep)
		if !start.After(now) {
			continue
		}
		if overlapsAny(sorted, start, end) {
			continue
		}
		out = append(out, TimeSlot{Start: start, End: end})
	}
	return out
}

// PairAdjacent forms the 60-minute options: two chronologically adjacent free
// buckets where the end of one equals the start of the next.
func PairAdjacent(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for i := 0; i+1 < len(slots); i++ {
		if slots[i].End.Equal(slots[i+1].Start) {
			out = append(out, TimeSlot{Start: slots[i].Start, End: slots[i+1].End})
		}
	}
	return out
}

func overlapsAny(sorted []domain.Booking, start, end time.Time) bool {
	for i := range sorted {
		b := &sorted[i]
		if !b.StartTime.Before(end) {
			break
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// validWindow checks grid alignment and operating hours for a proposed
// booking window.
func validWindow(start, end time.Time) bool {
	if start.Minute()%domain.SlotMinutes != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		return false
	}
	open, close := operatingWindow(start)
	if start.Before(open) || end.After(close) {
		return false
	}
	return true
}
