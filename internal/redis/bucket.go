package redis

import (
	"context"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Bucket represents the repository used for interacting with buckets and task assignments.
type Bucket struct {
	client *redis.Client
}

// NewBucket instantiates the Bucket repository.
func NewBucket(client *redis.Client) *Bucket {
	return &Bucket{
		client: client,
	}
}

// Bucket returns one bucket of the organization.
func (b *Bucket) Bucket(ctx context.Context, organizationID, id string) (internal.Bucket, error) {
	defer newOTELSpan(ctx, "Bucket.Bucket").End()

	val, err := b.client.HGet(ctx, bucketsKey(organizationID), id).Result()
	if err != nil {
		if isNil(err) {
			return internal.Bucket{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "bucket not found")
		}

		return internal.Bucket{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HGet")
	}

	var rec bucketRecord
	if err := decode(val, &rec); err != nil {
		return internal.Bucket{}, err
	}

	return rec.bucket(), nil
}

// Buckets returns every bucket of the organization, archived ones included.
func (b *Bucket) Buckets(ctx context.Context, organizationID string) ([]internal.Bucket, error) {
	defer newOTELSpan(ctx, "Bucket.Buckets").End()

	vals, err := b.client.HGetAll(ctx, bucketsKey(organizationID)).Result()
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HGetAll")
	}

	res := make([]internal.Bucket, 0, len(vals))

	for _, val := range vals {
		var rec bucketRecord
		if err := decode(val, &rec); err != nil {
			return nil, err
		}

		res = append(res, rec.bucket())
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
func (b *Bucket) PutBucket(ctx context.Context, bucket internal.Bucket) error {
	defer newOTELSpan(ctx, "Bucket.PutBucket").End()

	val, err := encode(newBucketRecord(bucket))
	if err != nil {
		return err
	}

	if bucket.IsDefault() {
		if err := b.claimDefault(ctx, bucket); err != nil {
			return err
		}
	}

	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, bucketsKey(bucket.OrganizationID), bucket.ID, val)
		pipe.SAdd(ctx, organizationsKey, bucket.OrganizationID)

		return nil
	})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "TxPipelined")
	}

	return nil
}

func (b *Bucket) claimDefault(ctx context.Context, bucket internal.Bucket) error {
	key := defaultsKey(bucket.OrganizationID)
	kind := bucket.Kind.String()

	ok, err := b.client.HSetNX(ctx, key, kind, bucket.ID).Result()
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HSetNX")
	}

	if ok {
		return nil
	}

	owner, err := b.client.HGet(ctx, key, kind).Result()
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HGet")
	}

	if owner != bucket.ID {
		return internal.NewErrorf(internal.ErrorCodeConflict, "default bucket %s already exists", bucket.Kind)
	}

	return nil
}

// DeleteBucket removes the bucket and every assignment referencing it.
func (b *Bucket) DeleteBucket(ctx context.Context, organizationID, id string) error {
	defer newOTELSpan(ctx, "Bucket.DeleteBucket").End()

	bKey := bucketsKey(organizationID)
	aKey := assignmentsKey(organizationID)

	// The watch aborts the transaction when an assignment is written between the read and the delete.
	err := b.client.Watch(ctx, func(tx *redis.Tx) error {
		found, err := tx.HExists(ctx, bKey, id).Result()
		if err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HExists")
		}

		if !found {
			return internal.NewErrorf(internal.ErrorCodeNotFound, "bucket not found")
		}

		vals, err := tx.HGetAll(ctx, aKey).Result()
		if err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HGetAll")
		}

		var tasks []string

		for taskID, val := range vals {
			var rec assignmentRecord
			if err := decode(val, &rec); err != nil {
				return err
			}

			if rec.BucketID == id {
				tasks = append(tasks, taskID)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, bKey, id)

			if len(tasks) > 0 {
				pipe.HDel(ctx, aKey, tasks...)
			}

			return nil
		})
		if err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "TxPipelined")
		}

		return nil
	}, aKey)
	if err != nil {
		if err == redis.TxFailedErr {
			return internal.WrapErrorf(err, internal.ErrorCodeConflict, "assignments changed while deleting bucket")
		}

		return err
	}

	return nil
}

// Assignments returns the manual assignments of the organization ordered by task.
func (b *Bucket) Assignments(ctx context.Context, organizationID string) ([]internal.Assignment, error) {
	defer newOTELSpan(ctx, "Bucket.Assignments").End()

	vals, err := b.client.HGetAll(ctx, assignmentsKey(organizationID)).Result()
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HGetAll")
	}

	res := make([]internal.Assignment, 0, len(vals))

	for _, val := range vals {
		var rec assignmentRecord
		if err := decode(val, &rec); err != nil {
			return nil, err
		}

		res = append(res, rec.assignment(organizationID))
	}

	sort.Slice(res, func(i, j int) bool { return res[i].TaskID < res[j].TaskID })

	return res, nil
}

// PutAssignments writes all the assignments atomically.
func (b *Bucket) PutAssignments(ctx context.Context, organizationID string, assignments ...internal.Assignment) error {
	defer newOTELSpan(ctx, "Bucket.PutAssignments").End()

	if len(assignments) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(assignments)*2)

	for _, assignment := range assignments {
		val, err := encode(newAssignmentRecord(assignment))
		if err != nil {
			return err
		}

		values = append(values, assignment.TaskID, val)
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, assignmentsKey(organizationID), values...)
		pipe.SAdd(ctx, organizationsKey, organizationID)

		return nil
	})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "TxPipelined")
	}

	return nil
}

// DeleteAssignment removes the manual assignment of a task.
func (b *Bucket) DeleteAssignment(ctx context.Context, organizationID, taskID string) error {
	defer newOTELSpan(ctx, "Bucket.DeleteAssignment").End()

	count, err := b.client.HDel(ctx, assignmentsKey(organizationID), taskID).Result()
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "HDel")
	}

	if count == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "assignment not found")
	}

	return nil
}

// Organizations returns the organizations known to the store.
func (b *Bucket) Organizations(ctx context.Context) ([]string, error) {
	defer newOTELSpan(ctx, "Bucket.Organizations").End()

	res, err := b.client.SMembers(ctx, organizationsKey).Result()
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "SMembers")
	}

	sort.Strings(res)

	return res, nil
}
