package internal

import "time"

// Clock provides the current instant. Every date-window computation goes through one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns a Clock reading the wall clock in loc. A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}

	return ClockFunc(func() time.Time {
		return time.Now().In(loc)
	})
}
