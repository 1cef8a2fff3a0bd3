package birthday

import "time"

// Clock abstracts time.Now() so "today" can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard time package.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the pinned instant.
func (f FixedClock) Now() time.Time {
	return time.Time(f)
}

// Today returns the calendar date of clock's current instant as seen in loc.
// A nil loc means UTC.
func Today(clock Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(clock.Now().In(loc))
}
