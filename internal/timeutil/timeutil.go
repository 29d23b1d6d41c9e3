package timeutil

import (
	"errors"
	"fmt"
)

// ErrMalformedTime is returned when a string cannot be parsed as "HH:MM".
var ErrMalformedTime = errors.New("malformed time, expected HH:MM")

// Minutes is a time of day expressed as minutes since midnight, 0..1440.
// 1440 stands for the end-of-day boundary 24:00.
type Minutes int

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// ParseTimeOfDay parses "HH:MM" into minutes since midnight.
// "24:00" is accepted as the end-of-day boundary; anything past it is rejected.
func ParseTimeOfDay(s string) (Minutes, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
	}

	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 24 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	total := Minutes(hours*MinutesPerHour + mins)
	if total > MinutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return total, nil
}

// String formats the value back to "HH:MM". 1440 renders as "24:00".
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/MinutesPerHour, int(m)%MinutesPerHour)
}

// Interval is a half-open [Start, End) span within a single day.
type Interval struct {
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// NewInterval builds an interval from two "HH:MM" strings.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start < i.End
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() Minutes {
	return i.End - i.Start
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Overlaps reports whether two half-open intervals share a sub-interval of
// positive length. Touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
