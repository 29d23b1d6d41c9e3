package schedule

import (
	"fmt"

	"pitchbook/internal/models"
	"pitchbook/internal/timeutil"
)

// OperatingWindow bounds the hours a date can be booked, [OpenHour, CloseHour).
type OperatingWindow struct {
	OpenHour  int
	CloseHour int
}

// Validate checks the window invariant 0 <= open < close <= 24.
func (w OperatingWindow) Validate() error {
	if w.OpenHour < 0 || w.CloseHour > 24 || w.OpenHour >= w.CloseHour {
		return fmt.Errorf("invalid operating window %d..%d", w.OpenHour, w.CloseHour)
	}
	return nil
}

// Contains reports whether the interval lies fully inside the window.
func (w OperatingWindow) Contains(iv timeutil.Interval) bool {
	return iv.Start >= timeutil.Minutes(w.OpenHour*timeutil.MinutesPerHour) &&
		iv.End <= timeutil.Minutes(w.CloseHour*timeutil.MinutesPerHour)
}

// Slots returns every hourly candidate interval in the window, ascending.
func (w OperatingWindow) Slots() []timeutil.Interval {
	slots := make([]timeutil.Interval, 0, w.CloseHour-w.OpenHour)
	for h := w.OpenHour; h < w.CloseHour; h++ {
		slots = append(slots, timeutil.Interval{
			Start: timeutil.Minutes(h * timeutil.MinutesPerHour),
			End:   timeutil.Minutes((h + 1) * timeutil.MinutesPerHour),
		})
	}
	return slots
}

// AvailableSlots filters the window's hourly candidates down to those that do
// not overlap any existing reservation. Pure function: the caller supplies the
// reservations already narrowed to the date in question.
func AvailableSlots(win OperatingWindow, reservations []models.Reservation) []timeutil.Interval {
	free := make([]timeutil.Interval, 0, win.CloseHour-win.OpenHour)
	for _, slot := range win.Slots() {
		if !overlapsAny(slot, reservations) {
			free = append(free, slot)
		}
	}
	return free
}

func overlapsAny(iv timeutil.Interval, reservations []models.Reservation) bool {
	for _, r := range reservations {
		if timeutil.Overlaps(iv, r.Interval) {
			return true
		}
	}
	return false
}
