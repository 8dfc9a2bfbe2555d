package availability

import (
	"sort"
	"time"

	"stadiumbook/internal/api"
)

// Resolve computes the bookable and booked windows of a venue for one day.
//
// date is interpreted in loc. Recurring slots match on weekday, specific slots
// on exact date; both sets are kept as-is (no merging) and ordered by start.
// Only bookings lying entirely within the day are reported as booked.
func Resolve(date time.Time, slots []Slot, booked []BookedRange, loc *time.Location) DayAvailability {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)
	dateStr := dayStart.Format(api.DateLayout)
	weekday := int(dayStart.Weekday())

	var recurring, specific []Candidate
	for _, s := range slots {
		w := Candidate{Window: Window{StartTime: s.StartTime, EndTime: s.EndTime}}
		switch {
		case s.IsRecurring && s.DayOfWeek != nil && *s.DayOfWeek == weekday:
			recurring = append(recurring, w)
		case !s.IsRecurring && s.SpecificDate != nil && *s.SpecificDate == dateStr:
			specific = append(specific, w)
		}
	}

	available := append(recurring, specific...)
	if available == nil {
		available = []Candidate{}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].StartTime < available[j].StartTime
	})

	bookedSlots := []Window{}
	for _, b := range booked {
		if b.StartTime.Before(dayStart) || b.EndTime.After(dayEnd) {
			continue
		}
		bookedSlots = append(bookedSlots, Window{
			StartTime: b.StartTime.In(loc).Format(api.ClockLayout),
			EndTime:   b.EndTime.In(loc).Format(api.ClockLayout),
		})
	}
	sort.SliceStable(bookedSlots, func(i, j int) bool {
		return bookedSlots[i].StartTime < bookedSlots[j].StartTime
	})

	for i := range available {
		for _, b := range bookedSlots {
			if windowsOverlap(available[i].Window, b) {
				available[i].IsBooked = true
				break
			}
		}
	}

	return DayAvailability{
		Date:           dateStr,
		AvailableSlots: available,
		BookedSlots:    bookedSlots,
	}
}

// windowsOverlap compares zero-padded HH:mm strings as half-open ranges.
func windowsOverlap(a, b Window) bool {
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}
