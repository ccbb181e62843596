package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
)

// BucketStore defines the datastore persisting buckets and manual assignments.
type BucketStore interface {
	Bucket(ctx context.Context, organizationID, id string) (internal.Bucket, error)
	Buckets(ctx context.Context, organizationID string) ([]internal.Bucket, error)
	PutBucket(ctx context.Context, bucket internal.Bucket) error
	// DeleteBucket removes the bucket and every assignment referencing it.
	DeleteBucket(ctx context.Context, organizationID, id string) error
	Assignments(ctx context.Context, organizationID string) ([]internal.Assignment, error)
	PutAssignments(ctx context.Context, organizationID string, assignments ...internal.Assignment) error
	DeleteAssignment(ctx context.Context, organizationID, taskID string) error
	Organizations(ctx context.Context) ([]string, error)
}

// AssignmentMessageBrokerRepository defines the message broker publishing assignment events.
type AssignmentMessageBrokerRepository interface {
	Assigned(ctx context.Context, assignment internal.Assignment) error
	Unassigned(ctx context.Context, assignment internal.Assignment) error
}

// Bucket defines the application service in charge of buckets and task placement.
type Bucket struct {
	logger    *zap.Logger
	store     BucketStore
	tasks     TaskRepository
	msgBroker AssignmentMessageBrokerRepository
	resolver  *resolver.Resolver
	clock     internal.Clock
}

// NewBucket instantiates the Bucket service. A nil msgBroker disables event publishing.
func NewBucket(logger *zap.Logger, store BucketStore, tasks TaskRepository, msgBroker AssignmentMessageBrokerRepository, r *resolver.Resolver, clock internal.Clock) *Bucket {
	if msgBroker == nil {
		msgBroker = nopBroker{}
	}

	return &Bucket{
		logger:    logger,
		store:     store,
		tasks:     tasks,
		msgBroker: msgBroker,
		resolver:  r,
		clock:     clock,
	}
}

// SeedDefaults makes sure the organization has its Today, Tomorrow and This Week buckets and returns all
// its buckets.
func (b *Bucket) SeedDefaults(ctx context.Context, organizationID string) ([]internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.SeedDefaults")
	defer span.End()

	return seedDefaults(ctx, b.logger, b.store, organizationID, b.clock.Now())
}

// seedDefaults writes the default buckets missing from the store. A default bucket written concurrently by
// another process is reported by the store as a conflict, in which case the stored one is kept.
func seedDefaults(ctx context.Context, logger *zap.Logger, store BucketStore, organizationID string, now time.Time) ([]internal.Bucket, error) {
	if organizationID == "" {
		return nil, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "organization is required")
	}

	buckets, err := store.Buckets(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("store buckets: %w", err)
	}

	existing := make(map[internal.BucketKind]bool, len(buckets))
	for _, bucket := range buckets {
		existing[bucket.Kind] = true
	}

	raced := false

	for _, def := range internal.DefaultBuckets(organizationID) {
		if existing[def.Kind] {
			continue
		}

		def.ID = uuid.NewString()
		def.CreatedAt = now

		if err := store.PutBucket(ctx, def); err != nil {
			if isConflict(err) {
				raced = true
				continue
			}

			return nil, fmt.Errorf("store put bucket: %w", err)
		}

		logger.Info("seeded default bucket",
			zap.String("organization", organizationID),
			zap.String("kind", def.Kind.String()))

		buckets = append(buckets, def)
	}

	if raced {
		if buckets, err = store.Buckets(ctx, organizationID); err != nil {
			return nil, fmt.Errorf("store buckets: %w", err)
		}
	}

	resolver.SortBuckets(buckets)

	return buckets, nil
}

// Create adds a custom bucket at the end of the display order.
func (b *Bucket) Create(ctx context.Context, organizationID, name string) (internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Create")
	defer span.End()

	buckets, err := b.store.Buckets(ctx, organizationID)
	if err != nil {
		return internal.Bucket{}, fmt.Errorf("store buckets: %w", err)
	}

	order := 0
	for _, existing := range buckets {
		if existing.Order >= order {
			order = existing.Order + 1
		}
	}

	bucket := internal.Bucket{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(name),
		Kind:           internal.BucketKindCustom,
		Color:          internal.BucketColor(len(buckets)),
		Order:          order,
		CreatedAt:      b.clock.Now(),
	}

	if err := bucket.Validate(); err != nil {
		return internal.Bucket{}, fmt.Errorf("bucket.Validate: %w", err)
	}

	if err := b.store.PutBucket(ctx, bucket); err != nil {
		return internal.Bucket{}, fmt.Errorf("store put bucket: %w", err)
	}

	return bucket, nil
}

// Bucket returns one bucket.
func (b *Bucket) Bucket(ctx context.Context, organizationID, id string) (internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Bucket")
	defer span.End()

	bucket, err := b.store.Bucket(ctx, organizationID, id)
	if err != nil {
		return internal.Bucket{}, fmt.Errorf("store bucket: %w", err)
	}

	return bucket, nil
}

// List returns the organization buckets ordered for display.
func (b *Bucket) List(ctx context.Context, organizationID string, includeArchived bool) ([]internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.List")
	defer span.End()

	buckets, err := b.store.Buckets(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("store buckets: %w", err)
	}

	res := make([]internal.Bucket, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Archived && !includeArchived {
			continue
		}

		res = append(res, bucket)
	}

	resolver.SortBuckets(res)

	return res, nil
}

// Archive hides a custom bucket. Its assignments are kept but ignored until the bucket is restored.
func (b *Bucket) Archive(ctx context.Context, organizationID, id string) (internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Archive")
	defer span.End()

	bucket, err := b.store.Bucket(ctx, organizationID, id)
	if err != nil {
		return internal.Bucket{}, fmt.Errorf("store bucket: %w", err)
	}

	if bucket.IsDefault() {
		return internal.Bucket{}, internal.NewErrorf(internal.ErrorCodeConflict, "default bucket %q cannot be archived", bucket.Name)
	}

	if bucket.Archived {
		return bucket, nil
	}

	bucket.Archived = true
	bucket.ArchivedAt = b.clock.Now()

	if err := b.store.PutBucket(ctx, bucket); err != nil {
		return internal.Bucket{}, fmt.Errorf("store put bucket: %w", err)
	}

	b.logger.Info("archived bucket", zap.String("organization", organizationID), zap.String("bucket", id))

	return bucket, nil
}

// Restore brings an archived bucket back.
func (b *Bucket) Restore(ctx context.Context, organizationID, id string) (internal.Bucket, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Restore")
	defer span.End()

	bucket, err := b.store.Bucket(ctx, organizationID, id)
	if err != nil {
		return internal.Bucket{}, fmt.Errorf("store bucket: %w", err)
	}

	if !bucket.Archived {
		return bucket, nil
	}

	bucket.Archived = false
	bucket.ArchivedAt = time.Time{}

	if err := b.store.PutBucket(ctx, bucket); err != nil {
		return internal.Bucket{}, fmt.Errorf("store put bucket: %w", err)
	}

	b.logger.Info("restored bucket", zap.String("organization", organizationID), zap.String("bucket", id))

	return bucket, nil
}

// Delete permanently removes an archived bucket and its assignments.
func (b *Bucket) Delete(ctx context.Context, organizationID, id string) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Delete")
	defer span.End()

	bucket, err := b.store.Bucket(ctx, organizationID, id)
	if err != nil {
		return fmt.Errorf("store bucket: %w", err)
	}

	if bucket.IsDefault() {
		return internal.NewErrorf(internal.ErrorCodeConflict, "default bucket %q cannot be deleted", bucket.Name)
	}

	if !bucket.Archived {
		return internal.NewErrorf(internal.ErrorCodeConflict, "bucket %q must be archived before deleting", bucket.Name)
	}

	if err := b.store.DeleteBucket(ctx, organizationID, id); err != nil {
		return fmt.Errorf("store delete bucket: %w", err)
	}

	b.logger.Info("deleted bucket", zap.String("organization", organizationID), zap.String("bucket", id))

	return nil
}

// Assign pins a task into a bucket, replacing any previous assignment.
func (b *Bucket) Assign(ctx context.Context, organizationID, taskID, bucketID string) (internal.Assignment, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Assign")
	defer span.End()

	if _, err := b.tasks.Find(ctx, organizationID, taskID); err != nil {
		return internal.Assignment{}, fmt.Errorf("tasks find: %w", err)
	}

	bucket, err := b.store.Bucket(ctx, organizationID, bucketID)
	if err != nil {
		return internal.Assignment{}, fmt.Errorf("store bucket: %w", err)
	}

	if bucket.Archived {
		return internal.Assignment{}, internal.NewErrorf(internal.ErrorCodeConflict, "bucket %q is archived", bucket.Name)
	}

	current, found, err := b.assignment(ctx, organizationID, taskID)
	if err != nil {
		return internal.Assignment{}, err
	}

	if found && current.BucketID == bucketID {
		return current, nil
	}

	assignment := internal.Assignment{
		OrganizationID: organizationID,
		TaskID:         taskID,
		BucketID:       bucketID,
		AssignedAt:     b.clock.Now(),
	}

	if found {
		assignment.MovedFrom = current.BucketID
	}

	if err := b.store.PutAssignments(ctx, organizationID, assignment); err != nil {
		return internal.Assignment{}, fmt.Errorf("store put assignments: %w", err)
	}

	if err := b.msgBroker.Assigned(ctx, assignment); err != nil {
		b.logger.Warn("publishing assignment", zap.String("task", taskID), zap.Error(err))
	}

	return assignment, nil
}

// Unassign drops the manual assignment of a task, if any.
func (b *Bucket) Unassign(ctx context.Context, organizationID, taskID string) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Unassign")
	defer span.End()

	current, found, err := b.assignment(ctx, organizationID, taskID)
	if err != nil {
		return err
	}

	if !found {
		return nil
	}

	if err := b.store.DeleteAssignment(ctx, organizationID, taskID); err != nil {
		return fmt.Errorf("store delete assignment: %w", err)
	}

	if err := b.msgBroker.Unassigned(ctx, current); err != nil {
		b.logger.Warn("publishing unassignment", zap.String("task", taskID), zap.Error(err))
	}

	return nil
}

// Tasks returns the tasks currently displayed in the bucket. An unknown bucket holds no tasks.
func (b *Bucket) Tasks(ctx context.Context, organizationID, bucketID string) ([]internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Tasks")
	defer span.End()

	span.SetAttributes(attribute.String("bucket.id", bucketID))

	bucket, err := b.store.Bucket(ctx, organizationID, bucketID)
	if err != nil {
		if isNotFound(err) {
			return []internal.Task{}, nil
		}

		return nil, fmt.Errorf("store bucket: %w", err)
	}

	snap, err := b.snapshot(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	live := resolver.ActiveAssignments(snap.buckets, snap.assignments)

	return b.resolver.TasksForBucket(bucket, snap.tasks, live, b.clock.Now()), nil
}

// Summary counts the tasks of an organization.
type Summary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Cancelled  int
	// Overdue counts open tasks due before today.
	Overdue int
}

// Board is the dashboard of an organization.
type Board struct {
	Columns []resolver.Column
	Summary Summary
}

// Board resolves every active bucket of the organization, seeding the default buckets first if needed.
func (b *Bucket) Board(ctx context.Context, organizationID string) (Board, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Board")
	defer span.End()

	if _, err := b.SeedDefaults(ctx, organizationID); err != nil {
		return Board{}, err
	}

	snap, err := b.snapshot(ctx, organizationID)
	if err != nil {
		return Board{}, err
	}

	now := b.clock.Now()
	startOfDay := b.resolver.StartOfDay(now)

	var summary Summary

	for _, task := range snap.tasks {
		summary.Total++

		switch task.Status {
		case internal.TaskStatusPending:
			summary.Pending++
		case internal.TaskStatusInProgress:
			summary.InProgress++
		case internal.TaskStatusCompleted:
			summary.Completed++
		case internal.TaskStatusCancelled:
			summary.Cancelled++
		}

		if !task.Status.IsClosed() && task.HasDueDate() && task.DueDate.Before(startOfDay) {
			summary.Overdue++
		}
	}

	return Board{
		Columns: b.resolver.Board(snap.buckets, snap.tasks, snap.assignments, now),
		Summary: summary,
	}, nil
}

// Rollover surfaces overdue tasks into the Today bucket, seeding the default buckets first if needed.
func (b *Bucket) Rollover(ctx context.Context, organizationID string) (resolver.Rollover, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Rollover")
	defer span.End()

	if _, err := b.SeedDefaults(ctx, organizationID); err != nil {
		return resolver.Rollover{}, err
	}

	snap, err := b.snapshot(ctx, organizationID)
	if err != nil {
		return resolver.Rollover{}, err
	}

	res := b.resolver.ReconcileDailyRollover(snap.buckets, snap.tasks, snap.assignments, b.clock.Now())

	span.SetAttributes(attribute.Int("rollover.changed", len(res.Changed)))

	if len(res.Changed) == 0 {
		return res, nil
	}

	if err := b.store.PutAssignments(ctx, organizationID, res.Changed...); err != nil {
		return resolver.Rollover{}, fmt.Errorf("store put assignments: %w", err)
	}

	for _, a := range res.Changed {
		if err := b.msgBroker.Assigned(ctx, a); err != nil {
			b.logger.Warn("publishing rollover assignment", zap.String("task", a.TaskID), zap.Error(err))
		}
	}

	b.logger.Info("rolled over tasks",
		zap.String("organization", organizationID),
		zap.Int("changed", len(res.Changed)))

	return res, nil
}

// Organizations lists the organizations known to the bucket store.
func (b *Bucket) Organizations(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Bucket.Organizations")
	defer span.End()

	orgs, err := b.store.Organizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("store organizations: %w", err)
	}

	return orgs, nil
}

type snapshot struct {
	buckets     []internal.Bucket
	tasks       []internal.Task
	assignments []internal.Assignment
}

func (b *Bucket) snapshot(ctx context.Context, organizationID string) (snapshot, error) {
	buckets, err := b.store.Buckets(ctx, organizationID)
	if err != nil {
		return snapshot{}, fmt.Errorf("store buckets: %w", err)
	}

	assignments, err := b.store.Assignments(ctx, organizationID)
	if err != nil {
		return snapshot{}, fmt.Errorf("store assignments: %w", err)
	}

	tasks, err := b.tasks.List(ctx, organizationID)
	if err != nil {
		return snapshot{}, fmt.Errorf("tasks list: %w", err)
	}

	return snapshot{
		buckets:     buckets,
		tasks:       tasks,
		assignments: assignments,
	}, nil
}

func (b *Bucket) assignment(ctx context.Context, organizationID, taskID string) (internal.Assignment, bool, error) {
	assignments, err := b.store.Assignments(ctx, organizationID)
	if err != nil {
		return internal.Assignment{}, false, fmt.Errorf("store assignments: %w", err)
	}

	for _, a := range assignments {
		if a.TaskID == taskID {
			return a, true, nil
		}
	}

	return internal.Assignment{}, false, nil
}
