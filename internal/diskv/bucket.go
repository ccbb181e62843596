package diskv

import (
	"context"
	"sort"
	"time"

	"github.com/sanLimbu/easy-tasks/internal"
)

type bucketRecord struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	Name           string              `json:"name"`
	Kind           internal.BucketKind `json:"kind"`
	Color          string              `json:"color"`
	Order          int                 `json:"order"`
	Archived       bool                `json:"archived"`
	ArchivedAt     time.Time           `json:"archived_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

type assignmentRecord struct {
	OrganizationID string    `json:"organization_id"`
	TaskID         string    `json:"task_id"`
	BucketID       string    `json:"bucket_id"`
	AssignedAt     time.Time `json:"assigned_at"`
	MovedFrom      string    `json:"moved_from,omitempty"`
}

// Bucket represents the repository used for interacting with buckets and task assignments.
type Bucket struct {
	db *DB
}

// NewBucket instantiates the Bucket repository.
func NewBucket(db *DB) *Bucket {
	return &Bucket{
		db: db,
	}
}

// Bucket returns one bucket of the organization.
func (b *Bucket) Bucket(_ context.Context, organizationID, id string) (internal.Bucket, error) {
	var rec bucketRecord

	if err := b.db.read(toKey(collectionBuckets, organizationID, id), &rec); err != nil {
		return internal.Bucket{}, err
	}

	return internal.Bucket(rec), nil
}

// Buckets returns every bucket of the organization, archived ones included.
func (b *Bucket) Buckets(ctx context.Context, organizationID string) ([]internal.Bucket, error) {
	keys := b.db.keys(ctx, collectionBuckets, organizationID)
	res := make([]internal.Bucket, 0, len(keys))

	for _, key := range keys {
		var rec bucketRecord

		if err := b.db.read(key, &rec); err != nil {
			return nil, err
		}

		res = append(res, internal.Bucket(rec))
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Order != res[j].Order {
			return res[i].Order < res[j].Order
		}

		return res[i].ID < res[j].ID
	})

	return res, nil
}

// PutBucket inserts or updates a bucket. Writing a second default bucket of the same kind fails with a conflict.
// The check holds within one process only.
func (b *Bucket) PutBucket(ctx context.Context, bucket internal.Bucket) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	if bucket.IsDefault() {
		for _, key := range b.db.keys(ctx, collectionBuckets, bucket.OrganizationID) {
			var rec bucketRecord

			if err := b.db.read(key, &rec); err != nil {
				return err
			}

			if rec.Kind == bucket.Kind && rec.ID != bucket.ID {
				return internal.NewErrorf(internal.ErrorCodeConflict, "default bucket %s already exists", bucket.Kind)
			}
		}
	}

	return b.db.write(toKey(collectionBuckets, bucket.OrganizationID, bucket.ID), bucketRecord(bucket))
}

// DeleteBucket removes the bucket and every assignment referencing it.
func (b *Bucket) DeleteBucket(ctx context.Context, organizationID, id string) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	if err := b.db.erase(toKey(collectionBuckets, organizationID, id)); err != nil {
		return err
	}

	assignments, err := b.assignments(ctx, organizationID)
	if err != nil {
		return err
	}

	for _, assignment := range assignments {
		if assignment.BucketID != id {
			continue
		}

		if err := b.db.erase(toKey(collectionAssignments, organizationID, assignment.TaskID)); err != nil {
			return err
		}
	}

	return nil
}

// Assignments returns the manual assignments of the organization ordered by task.
func (b *Bucket) Assignments(ctx context.Context, organizationID string) ([]internal.Assignment, error) {
	return b.assignments(ctx, organizationID)
}

func (b *Bucket) assignments(ctx context.Context, organizationID string) ([]internal.Assignment, error) {
	keys := b.db.keys(ctx, collectionAssignments, organizationID)
	res := make([]internal.Assignment, 0, len(keys))

	for _, key := range keys {
		var rec assignmentRecord

		if err := b.db.read(key, &rec); err != nil {
			return nil, err
		}

		res = append(res, internal.Assignment(rec))
	}

	sort.Slice(res, func(i, j int) bool { return res[i].TaskID < res[j].TaskID })

	return res, nil
}

// PutAssignments writes the assignments, replacing the current ones of those tasks.
func (b *Bucket) PutAssignments(_ context.Context, organizationID string, assignments ...internal.Assignment) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, assignment := range assignments {
		assignment.OrganizationID = organizationID

		if err := b.db.write(toKey(collectionAssignments, organizationID, assignment.TaskID), assignmentRecord(assignment)); err != nil {
			return err
		}
	}

	return nil
}

// DeleteAssignment removes the manual assignment of a task.
func (b *Bucket) DeleteAssignment(_ context.Context, organizationID, taskID string) error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	return b.db.erase(toKey(collectionAssignments, organizationID, taskID))
}

// Organizations returns the organizations owning at least one bucket or task.
func (b *Bucket) Organizations(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}

	for _, collection := range []string{collectionBuckets, collectionTasks} {
		for key := range b.db.d.KeysPrefix(collection+"/", ctx.Done()) {
			org, _, ok := fromKey(key)
			if !ok {
				continue
			}

			seen[org] = true
		}
	}

	res := make([]string, 0, len(seen))
	for org := range seen {
		res = append(res, org)
	}

	sort.Strings(res)

	return res, nil
}
