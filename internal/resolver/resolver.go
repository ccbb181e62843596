// Package resolver decides which tasks belong to which bucket at a given instant.
//
// Everything here is pure: callers pass the tasks, the manual assignment table and the reference instant,
// and persist whatever comes back.
package resolver

import (
	"sort"
	"strings"
	"time"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Policy decides how manual assignments combine with date-derived membership.
type Policy uint8

const (
	// PolicyUnion shows a task in its manually assigned bucket and in every default bucket whose
	// window contains its due date.
	PolicyUnion Policy = iota

	// PolicyManualExclusive shows a manually assigned task only in its assigned bucket.
	PolicyManualExclusive
)

// String ...
func (p Policy) String() string {
	if p == PolicyManualExclusive {
		return "manual-exclusive"
	}

	return "union"
}

// ParsePolicy converts the textual form returned by String back into a Policy. Empty means PolicyUnion.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "union":
		return PolicyUnion, nil
	case "manual-exclusive", "exclusive":
		return PolicyManualExclusive, nil
	}

	return PolicyUnion, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown membership policy %q", s)
}

// ParseWeekday converts an English weekday name, in any case, into a week start. Empty means Monday.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Monday, nil
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}

	return time.Monday, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown weekday %q", s)
}

// Resolver computes bucket membership.
type Resolver struct {
	weekStart time.Weekday
	loc       *time.Location
	policy    Policy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWeekStart sets the first day of the "This Week" window. Defaults to Monday.
func WithWeekStart(d time.Weekday) Option {
	return func(r *Resolver) {
		r.weekStart = d
	}
}

// WithLocation converts every instant into loc before computing calendar days. By default the
// location of the reference instant is used.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		r.loc = loc
	}
}

// WithPolicy sets the membership policy. Defaults to PolicyUnion.
func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// New instantiates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		weekStart: time.Monday,
		policy:    PolicyUnion,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Policy returns the configured membership policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// TasksForBucket returns the tasks displayed in bucket at now.
//
// Closed tasks never match and archived buckets are always empty. Under PolicyManualExclusive the
// assignments are expected to reference active buckets only, see ActiveAssignments.
func (r *Resolver) TasksForBucket(bucket internal.Bucket, tasks []internal.Task, assignments []internal.Assignment, now time.Time) []internal.Task {
	res := []internal.Task{}

	if bucket.Archived {
		return res
	}

	pinned := indexAssignments(assignments)
	window, dated := r.Window(bucket.Kind, now)

	for _, task := range tasks {
		if task.Status.IsClosed() {
			continue
		}

		a, assigned := pinned[task.ID]
		if assigned && a.BucketID == bucket.ID {
			res = append(res, task)
			continue
		}

		if !dated || !task.HasDueDate() {
			continue
		}

		if assigned && r.policy == PolicyManualExclusive {
			continue
		}

		if window.Contains(task.DueDate) {
			res = append(res, task)
		}
	}

	sortTasks(res)

	return res
}

// Column is one bucket of a board with its resolved tasks.
type Column struct {
	Bucket internal.Bucket
	Tasks  []internal.Task
}

// Board resolves every active bucket at once, ordered by display order.
func (r *Resolver) Board(buckets []internal.Bucket, tasks []internal.Task, assignments []internal.Assignment, now time.Time) []Column {
	active := make([]internal.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if !b.Archived {
			active = append(active, b)
		}
	}

	SortBuckets(active)

	live := ActiveAssignments(buckets, assignments)

	res := make([]Column, len(active))
	for i, b := range active {
		res[i] = Column{
			Bucket: b,
			Tasks:  r.TasksForBucket(b, tasks, live, now),
		}
	}

	return res
}

// Rollover is the outcome of ReconcileDailyRollover.
type Rollover struct {
	// Assignments is the complete table after the rollover, ordered by task id.
	Assignments []internal.Assignment
	// Changed lists the assignments that were created or overwritten.
	Changed []internal.Assignment
}

// ReconcileDailyRollover pins every overdue, not completed task into the Today bucket. Tasks already
// pinned to Today keep their assignment untouched, which makes the operation idempotent. Without a Today
// bucket in buckets the table is returned unchanged.
func (r *Resolver) ReconcileDailyRollover(buckets []internal.Bucket, tasks []internal.Task, assignments []internal.Assignment, now time.Time) Rollover {
	pinned := indexAssignments(assignments)

	today, ok := findKind(buckets, internal.BucketKindToday)
	if !ok {
		return Rollover{Assignments: sortedAssignments(pinned)}
	}

	startOfDay := r.StartOfDay(now)

	var changed []internal.Assignment

	for _, task := range tasks {
		if task.Status == internal.TaskStatusCompleted {
			continue
		}

		if today.OrganizationID != "" && task.OrganizationID != "" && task.OrganizationID != today.OrganizationID {
			continue
		}

		current, assigned := pinned[task.ID]
		if assigned && current.BucketID == today.ID {
			continue
		}

		if !task.HasDueDate() || !task.DueDate.Before(startOfDay) {
			continue
		}

		a := internal.Assignment{
			OrganizationID: today.OrganizationID,
			TaskID:         task.ID,
			BucketID:       today.ID,
			AssignedAt:     now,
		}

		if assigned {
			a.MovedFrom = current.BucketID
		}

		pinned[task.ID] = a
		changed = append(changed, a)
	}

	sort.Slice(changed, func(i, j int) bool {
		return changed[i].TaskID < changed[j].TaskID
	})

	return Rollover{
		Assignments: sortedAssignments(pinned),
		Changed:     changed,
	}
}

// ActiveAssignments drops assignments pointing at archived or unknown buckets.
func ActiveAssignments(buckets []internal.Bucket, assignments []internal.Assignment) []internal.Assignment {
	active := make(map[string]struct{}, len(buckets))
	for _, b := range buckets {
		if !b.Archived {
			active[b.ID] = struct{}{}
		}
	}

	res := make([]internal.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := active[a.BucketID]; ok {
			res = append(res, a)
		}
	}

	return res
}

// SortBuckets orders buckets by display order, then name.
func SortBuckets(buckets []internal.Bucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Order != buckets[j].Order {
			return buckets[i].Order < buckets[j].Order
		}

		return buckets[i].Name < buckets[j].Name
	})
}

func findKind(buckets []internal.Bucket, kind internal.BucketKind) (internal.Bucket, bool) {
	for _, b := range buckets {
		if b.Kind == kind {
			return b, true
		}
	}

	return internal.Bucket{}, false
}

func indexAssignments(assignments []internal.Assignment) map[string]internal.Assignment {
	res := make(map[string]internal.Assignment, len(assignments))
	for _, a := range assignments {
		res[a.TaskID] = a
	}

	return res
}

func sortedAssignments(m map[string]internal.Assignment) []internal.Assignment {
	res := make([]internal.Assignment, 0, len(m))
	for _, a := range m {
		res = append(res, a)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].TaskID < res[j].TaskID
	})

	return res
}

// sortTasks orders by due date (undated last), then title, then id.
func sortTasks(tasks []internal.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		switch {
		case a.HasDueDate() && !b.HasDueDate():
			return true
		case !a.HasDueDate() && b.HasDueDate():
			return false
		case !a.DueDate.Equal(b.DueDate):
			return a.DueDate.Before(b.DueDate)
		case a.Title != b.Title:
			return a.Title < b.Title
		}

		return a.ID < b.ID
	})
}
