package resolver

import (
	"time"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Window returns the date window of a default bucket kind relative to now. Custom buckets have no window.
// Boundaries are local midnights, so a window spanning a DST change is 23 or 25 hours long per day.
func (r *Resolver) Window(kind internal.BucketKind, now time.Time) (Window, bool) {
	now = r.in(now)

	switch kind {
	case internal.BucketKindToday:
		return Window{Start: midnight(now, 0), End: midnight(now, 1)}, true
	case internal.BucketKindTomorrow:
		return Window{Start: midnight(now, 1), End: midnight(now, 2)}, true
	case internal.BucketKindThisWeek:
		offset := (int(now.Weekday()) - int(r.weekStart) + 7) % 7
		return Window{Start: midnight(now, -offset), End: midnight(now, 7-offset)}, true
	}

	return Window{}, false
}

// StartOfDay returns the local midnight that opens now's calendar day.
func (r *Resolver) StartOfDay(now time.Time) time.Time {
	return midnight(r.in(now), 0)
}

// NextDay returns the local midnight that closes now's calendar day.
func (r *Resolver) NextDay(now time.Time) time.Time {
	return midnight(r.in(now), 1)
}

func (r *Resolver) in(t time.Time) time.Time {
	if r.loc == nil {
		return t
	}

	return t.In(r.loc)
}

func midnight(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, t.Location())
}
