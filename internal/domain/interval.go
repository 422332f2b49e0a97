package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeInterval is a half-open interval [Start, End). The end instant is
// excluded, so back-to-back intervals do not overlap.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

var ErrInvalidInterval = errors.New("interval start must be before end")

// NewTimeInterval builds a UTC-normalized interval, rejecting degenerate or
// inverted bounds.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals share any instant.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Minutes returns the interval length in whole minutes.
func (i TimeInterval) Minutes() int {
	return int(i.Duration() / time.Minute)
}

// SameCalendarDay reports whether start and end fall on the same UTC date.
// Intervals spanning midnight are never contained by a day-of-week window.
func (i TimeInterval) SameCalendarDay() bool {
	sy, sm, sd := i.Start.UTC().Date()
	ey, em, ed := i.End.UTC().Date()
	return sy == ey && sm == em && sd == ed
}

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses an "HH:MM" clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: must be HH:MM", s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// TimeOfDayOf extracts the UTC clock time of an instant, truncated to the
// minute.
func TimeOfDayOf(ts time.Time) TimeOfDay {
	ts = ts.UTC()
	return TimeOfDay(ts.Hour()*60 + ts.Minute())
}

// TimeOfDayCeil extracts the UTC clock time of an instant, rounded up to the
// next minute when the instant has a sub-minute component. An interval end of
// 12:00:59 must be held against 12:01, not 12:00, or it slips past a window
// ending at noon. The result may be 1440 for instants past 23:59:00; no valid
// window end reaches that high, so such ends are contained by nothing.
func TimeOfDayCeil(ts time.Time) TimeOfDay {
	ts = ts.UTC()
	m := TimeOfDay(ts.Hour()*60 + ts.Minute())
	if ts.Second() > 0 || ts.Nanosecond() > 0 {
		m++
	}
	return m
}
