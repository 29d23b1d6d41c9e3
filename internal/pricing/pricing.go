package pricing

import (
	"pitchbook/internal/timeutil"
)

// RateSchedule holds the per-hour rates around a single day/night boundary.
// Fixed at process start, read-only afterwards.
type RateSchedule struct {
	Boundary  timeutil.Minutes
	DayRate   int64 // per hour before the boundary
	NightRate int64 // per hour from the boundary on
}

// Quote prices an interval by splitting it at the boundary and weighting each
// portion by its per-hour rate. The result is rounded half up to the nearest
// whole currency unit; the arithmetic stays in integers so there is no float
// drift. Zero-length intervals quote to zero.
func (r RateSchedule) Quote(iv timeutil.Interval) int64 {
	before := min64(int64(iv.End), int64(r.Boundary)) - int64(iv.Start)
	if before < 0 {
		before = 0
	}
	after := int64(iv.End) - max64(int64(iv.Start), int64(r.Boundary))
	if after < 0 {
		after = 0
	}

	// Sum of minute-rates, then one division with half-up rounding.
	total := before*r.DayRate + after*r.NightRate
	return (total + timeutil.MinutesPerHour/2) / timeutil.MinutesPerHour
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
