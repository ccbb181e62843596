package postgresql

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/postgresql/db"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	got, err := parseID(id.String(), "task")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("not-a-uuid", "task")

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
}

func TestNullUUID(t *testing.T) {
	t.Parallel()

	assert.False(t, newNullUUID("").Valid)
	assert.False(t, newNullUUID("garbage").Valid)

	id := uuid.NewString()
	assert.Equal(t, id, fromNullUUID(newNullUUID(id)))
	assert.Equal(t, "", fromNullUUID(uuid.NullUUID{}))
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	assert.False(t, newTimestamp(time.Time{}).Valid)
	assert.True(t, fromTimestamp(pgtype.Timestamptz{}).IsZero())

	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now, fromTimestamp(newTimestamp(now)))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, isNoRows(internal.WrapErrorf(pgx.ErrNoRows, internal.ErrorCodeUnknown, "select")))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestConvertTask(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	due := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	got, err := convertTask(db.Task{
		ID:             id,
		OrganizationID: "acme",
		Title:          "pour slab",
		Status:         "in-progress",
		Priority:       "high",
		DueDate:        newTimestamp(due),
	})
	require.NoError(t, err)

	assert.Equal(t, internal.Task{
		ID:             id.String(),
		OrganizationID: "acme",
		Title:          "pour slab",
		Status:         internal.TaskStatusInProgress,
		Priority:       internal.PriorityHigh,
		DueDate:        due,
	}, got)

	_, err = convertTask(db.Task{Priority: "urgent"})
	assert.Error(t, err)
}

func TestConvertBucket(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	got, err := convertBucket(db.Bucket{
		ID:             id,
		OrganizationID: "acme",
		Name:           "This Week",
		Kind:           "this-week",
		DisplayOrder:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, internal.BucketKindThisWeek, got.Kind)
	assert.Equal(t, 2, got.Order)
	assert.True(t, got.ArchivedAt.IsZero())

	_, err = convertBucket(db.Bucket{Kind: "yesterday"})
	assert.Error(t, err)
}
