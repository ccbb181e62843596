package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/easy-tasks/internal"
	iredis "github.com/sanLimbu/easy-tasks/internal/redis"
)

func newStore(t *testing.T) *iredis.Bucket {
	t.Helper()

	srv := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return iredis.NewBucket(client)
}

func requireCode(t *testing.T, err error, code internal.ErrorCode) {
	t.Helper()

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr), "expected internal.Error, got %v", err)
	assert.Equal(t, code, ierr.Code())
}

func TestBucket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	today := internal.Bucket{ID: "b-today", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday, Order: 0, CreatedAt: now}
	custom := internal.Bucket{ID: "b-site", OrganizationID: "acme", Name: "Site B", Kind: internal.BucketKindCustom, Color: "#dc2626", Order: 3, CreatedAt: now}

	require.NoError(t, store.PutBucket(ctx, custom))
	require.NoError(t, store.PutBucket(ctx, today))
	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b-other", OrganizationID: "globex", Name: "Today", Kind: internal.BucketKindToday}))

	got, err := store.Bucket(ctx, "acme", "b-site")
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	_, err = store.Bucket(ctx, "globex", "b-site")
	requireCode(t, err, internal.ErrorCodeNotFound)

	buckets, err := store.Buckets(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "b-today", buckets[0].ID)

	orgs, err := store.Organizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, orgs)
}

func TestBucket_Assignments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b1", OrganizationID: "acme", Name: "Site A", Kind: internal.BucketKindCustom}))
	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b2", OrganizationID: "acme", Name: "Site B", Kind: internal.BucketKindCustom}))

	require.NoError(t, store.PutAssignments(ctx, "acme",
		internal.Assignment{OrganizationID: "acme", TaskID: "t2", BucketID: "b1", AssignedAt: now},
		internal.Assignment{OrganizationID: "acme", TaskID: "t1", BucketID: "b2", AssignedAt: now, MovedFrom: "b1"},
		internal.Assignment{OrganizationID: "acme", TaskID: "t3", BucketID: "b1", AssignedAt: now},
	))
	require.NoError(t, store.PutAssignments(ctx, "acme"))

	assignments, err := store.Assignments(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.Equal(t, internal.Assignment{OrganizationID: "acme", TaskID: "t1", BucketID: "b2", AssignedAt: now, MovedFrom: "b1"}, assignments[0])

	require.NoError(t, store.DeleteAssignment(ctx, "acme", "t3"))
	requireCode(t, store.DeleteAssignment(ctx, "acme", "t3"), internal.ErrorCodeNotFound)

	require.NoError(t, store.DeleteBucket(ctx, "acme", "b1"))
	requireCode(t, store.DeleteBucket(ctx, "acme", "b1"), internal.ErrorCodeNotFound)

	assignments, err = store.Assignments(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "t1", assignments[0].TaskID)
}

func TestBucket_DefaultKindIsUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore(t)

	today := internal.Bucket{ID: "b-today", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday}

	require.NoError(t, store.PutBucket(ctx, today))

	today.Name = "Today (site)"
	require.NoError(t, store.PutBucket(ctx, today))

	err := store.PutBucket(ctx, internal.Bucket{ID: "b-dup", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday})
	requireCode(t, err, internal.ErrorCodeConflict)

	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b-dup", OrganizationID: "globex", Name: "Today", Kind: internal.BucketKindToday}))
	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b-c1", OrganizationID: "acme", Name: "Site", Kind: internal.BucketKindCustom, Order: 3}))
	require.NoError(t, store.PutBucket(ctx, internal.Bucket{ID: "b-c2", OrganizationID: "acme", Name: "Site", Kind: internal.BucketKindCustom, Order: 3}))

	buckets, err := store.Buckets(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "Today (site)", buckets[0].Name)
}
