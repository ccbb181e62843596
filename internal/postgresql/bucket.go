package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/postgresql/db"
)

// TxBeginner is implemented by pgxpool.Pool and pgx.Conn.
type TxBeginner interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Bucket represents the repository used for interacting with buckets and task assignments.
type Bucket struct {
	pool TxBeginner
	q    *db.Queries
}

// NewBucket instantiates the Bucket repository.
func NewBucket(pool TxBeginner) *Bucket {
	return &Bucket{
		pool: pool,
		q:    db.New(pool),
	}
}

// Bucket returns one bucket of the organization.
func (b *Bucket) Bucket(ctx context.Context, organizationID, id string) (internal.Bucket, error) {
	defer newOTELSpan(ctx, "Bucket.Bucket").End()

	val, err := parseID(id, "bucket")
	if err != nil {
		return internal.Bucket{}, err
	}

	row, err := b.q.SelectBucket(ctx, db.SelectBucketParams{ID: val, OrganizationID: organizationID})
	if err != nil {
		if isNoRows(err) {
			return internal.Bucket{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "bucket not found")
		}

		return internal.Bucket{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select bucket")
	}

	return convertBucket(row)
}

// Buckets returns every bucket of the organization, archived ones included.
func (b *Bucket) Buckets(ctx context.Context, organizationID string) ([]internal.Bucket, error) {
	defer newOTELSpan(ctx, "Bucket.Buckets").End()

	rows, err := b.q.SelectBuckets(ctx, organizationID)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select buckets")
	}

	res := make([]internal.Bucket, 0, len(rows))

	for _, row := range rows {
		bucket, err := convertBucket(row)
		if err != nil {
			return nil, err
		}

		res = append(res, bucket)
	}

	return res, nil
}

// PutBucket inserts or updates a bucket. Kind, organization and creation time never change once inserted.
func (b *Bucket) PutBucket(ctx context.Context, bucket internal.Bucket) error {
	defer newOTELSpan(ctx, "Bucket.PutBucket").End()

	val, err := parseID(bucket.ID, "bucket")
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "invalid bucket id")
	}

	err = b.q.UpsertBucket(ctx, db.UpsertBucketParams{
		ID:             val,
		OrganizationID: bucket.OrganizationID,
		Name:           bucket.Name,
		Kind:           bucket.Kind.String(),
		Color:          bucket.Color,
		DisplayOrder:   int32(bucket.Order),
		Archived:       bucket.Archived,
		ArchivedAt:     newTimestamp(bucket.ArchivedAt),
		CreatedAt:      newTimestamp(bucket.CreatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return internal.WrapErrorf(err, internal.ErrorCodeConflict, "default bucket %s already exists", bucket.Kind)
		}

		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "upsert bucket")
	}

	return nil
}

// DeleteBucket removes the bucket and its assignments in one transaction.
func (b *Bucket) DeleteBucket(ctx context.Context, organizationID, id string) error {
	defer newOTELSpan(ctx, "Bucket.DeleteBucket").End()

	val, err := parseID(id, "bucket")
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		q := b.q.WithTx(tx)

		err := q.DeleteBucketAssignments(ctx, db.DeleteBucketAssignmentsParams{BucketID: val, OrganizationID: organizationID})
		if err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete bucket assignments")
		}

		count, err := q.DeleteBucket(ctx, db.DeleteBucketParams{ID: val, OrganizationID: organizationID})
		if err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete bucket")
		}

		if count == 0 {
			return internal.NewErrorf(internal.ErrorCodeNotFound, "bucket not found")
		}

		return nil
	})
}

// Assignments returns the manual assignments of the organization.
func (b *Bucket) Assignments(ctx context.Context, organizationID string) ([]internal.Assignment, error) {
	defer newOTELSpan(ctx, "Bucket.Assignments").End()

	rows, err := b.q.SelectAssignments(ctx, organizationID)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select assignments")
	}

	res := make([]internal.Assignment, len(rows))

	for i, row := range rows {
		res[i] = internal.Assignment{
			OrganizationID: row.OrganizationID,
			TaskID:         row.TaskID.String(),
			BucketID:       row.BucketID.String(),
			AssignedAt:     fromTimestamp(row.AssignedAt),
			MovedFrom:      fromNullUUID(row.MovedFrom),
		}
	}

	return res, nil
}

// PutAssignments writes all the assignments in one transaction, replacing the current ones of those tasks.
func (b *Bucket) PutAssignments(ctx context.Context, organizationID string, assignments ...internal.Assignment) error {
	defer newOTELSpan(ctx, "Bucket.PutAssignments").End()

	if len(assignments) == 0 {
		return nil
	}

	params := make([]db.UpsertAssignmentParams, len(assignments))

	for i, assignment := range assignments {
		taskID, err := parseID(assignment.TaskID, "task")
		if err != nil {
			return err
		}

		bucketID, err := parseID(assignment.BucketID, "bucket")
		if err != nil {
			return err
		}

		params[i] = db.UpsertAssignmentParams{
			TaskID:         taskID,
			OrganizationID: organizationID,
			BucketID:       bucketID,
			AssignedAt:     newTimestamp(assignment.AssignedAt),
			MovedFrom:      newNullUUID(assignment.MovedFrom),
		}
	}

	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		q := b.q.WithTx(tx)

		for _, arg := range params {
			if err := q.UpsertAssignment(ctx, arg); err != nil {
				return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "upsert assignment")
			}
		}

		return nil
	})
}

// DeleteAssignment removes the manual assignment of a task.
func (b *Bucket) DeleteAssignment(ctx context.Context, organizationID, taskID string) error {
	defer newOTELSpan(ctx, "Bucket.DeleteAssignment").End()

	val, err := parseID(taskID, "assignment")
	if err != nil {
		return err
	}

	count, err := b.q.DeleteAssignment(ctx, db.DeleteAssignmentParams{TaskID: val, OrganizationID: organizationID})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete assignment")
	}

	if count == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "assignment not found")
	}

	return nil
}

// Organizations returns the organizations owning at least one bucket or task.
func (b *Bucket) Organizations(ctx context.Context) ([]string, error) {
	defer newOTELSpan(ctx, "Bucket.Organizations").End()

	res, err := b.q.SelectOrganizations(ctx)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select organizations")
	}

	return res, nil
}

func convertBucket(row db.Bucket) (internal.Bucket, error) {
	kind, err := internal.ParseBucketKind(row.Kind)
	if err != nil {
		return internal.Bucket{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "convert kind")
	}

	return internal.Bucket{
		ID:             row.ID.String(),
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		Kind:           kind,
		Color:          row.Color,
		Order:          int(row.DisplayOrder),
		Archived:       row.Archived,
		ArchivedAt:     fromTimestamp(row.ArchivedAt),
		CreatedAt:      fromTimestamp(row.CreatedAt),
	}, nil
}
