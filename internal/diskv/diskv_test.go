package diskv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/diskv"
)

var now = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

func newRepositories(t *testing.T) (*diskv.Task, *diskv.Bucket) {
	t.Helper()

	db := diskv.Open(t.TempDir())
	clock := internal.ClockFunc(func() time.Time { return now })

	return diskv.NewTask(db, clock), diskv.NewBucket(db)
}

func requireCode(t *testing.T, err error, code internal.ErrorCode) {
	t.Helper()

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr), "expected internal.Error, got %v", err)
	assert.Equal(t, code, ierr.Code())
}

func TestTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tasks, _ := newRepositories(t)

	created, err := tasks.Create(ctx, internal.CreateTaskParams{
		OrganizationID: "acme corp",
		Title:          "pour slab",
		Priority:       internal.PriorityHigh,
		DueDate:        now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, internal.TaskStatusPending, created.Status)
	assert.Equal(t, now, created.CreatedAt)

	found, err := tasks.Find(ctx, "acme corp", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = tasks.Find(ctx, "globex", created.ID)
	requireCode(t, err, internal.ErrorCodeNotFound)

	_, err = tasks.Find(ctx, "acme corp", "../../etc/passwd")
	requireCode(t, err, internal.ErrorCodeNotFound)

	_, err = tasks.Find(ctx, "acme corp", "")
	requireCode(t, err, internal.ErrorCodeNotFound)

	updated, err := tasks.Update(ctx, "acme corp", created.ID, internal.UpdateTaskParams{
		Title:    "pour slab B",
		Status:   internal.TaskStatusInProgress,
		Priority: internal.PriorityLow,
	})
	require.NoError(t, err)
	assert.False(t, updated.HasDueDate())

	list, err := tasks.List(ctx, "acme corp")
	require.NoError(t, err)
	assert.Equal(t, []internal.Task{updated}, list)

	list, err = tasks.List(ctx, "globex")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, tasks.Delete(ctx, "acme corp", created.ID))
	requireCode(t, tasks.Delete(ctx, "acme corp", created.ID), internal.ErrorCodeNotFound)

	_, err = tasks.Update(ctx, "acme corp", created.ID, internal.UpdateTaskParams{Title: "x", Status: internal.TaskStatusPending})
	requireCode(t, err, internal.ErrorCodeNotFound)
}

func TestTask_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tasks, _ := newRepositories(t)

	for _, title := range []string{"Order rebar", "Inspect rebar cage", "Pour slab"} {
		_, err := tasks.Create(ctx, internal.CreateTaskParams{OrganizationID: "acme", Title: title})
		require.NoError(t, err)
	}

	res, err := tasks.Search(ctx, internal.SearchParams{OrganizationID: "acme"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	title := "REBAR"

	res, err = tasks.Search(ctx, internal.SearchParams{OrganizationID: "acme", Title: &title})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Tasks, 2)

	res, err = tasks.Search(ctx, internal.SearchParams{OrganizationID: "acme", Title: &title, From: 1, Size: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Tasks, 1)

	status := internal.TaskStatusCompleted

	res, err = tasks.Search(ctx, internal.SearchParams{OrganizationID: "acme", Status: &status})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Tasks)
}

func TestBucket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, buckets := newRepositories(t)

	today := internal.Bucket{ID: "b-today", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday, Color: "#2563eb", CreatedAt: now}
	site := internal.Bucket{ID: "b-site", OrganizationID: "acme", Name: "Site B", Kind: internal.BucketKindCustom, Order: 3, CreatedAt: now}

	require.NoError(t, buckets.PutBucket(ctx, site))
	require.NoError(t, buckets.PutBucket(ctx, today))
	require.NoError(t, buckets.PutBucket(ctx, internal.Bucket{ID: "b1", OrganizationID: "globex", Name: "Today", Kind: internal.BucketKindToday}))

	got, err := buckets.Bucket(ctx, "acme", "b-today")
	require.NoError(t, err)
	assert.Equal(t, today, got)

	list, err := buckets.Buckets(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b-today", list[0].ID)
	assert.Equal(t, "b-site", list[1].ID)

	site.Archived = true
	site.ArchivedAt = now
	require.NoError(t, buckets.PutBucket(ctx, site))

	got, err = buckets.Bucket(ctx, "acme", "b-site")
	require.NoError(t, err)
	assert.True(t, got.Archived)

	orgs, err := buckets.Organizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "globex"}, orgs)

	require.NoError(t, buckets.PutAssignments(ctx, "acme",
		internal.Assignment{TaskID: "t1", BucketID: "b-site", AssignedAt: now},
		internal.Assignment{TaskID: "t2", BucketID: "b-today", AssignedAt: now, MovedFrom: "b-site"},
	))

	assignments, err := buckets.Assignments(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, internal.Assignment{OrganizationID: "acme", TaskID: "t2", BucketID: "b-today", AssignedAt: now, MovedFrom: "b-site"}, assignments[1])

	require.NoError(t, buckets.DeleteBucket(ctx, "acme", "b-site"))
	requireCode(t, buckets.DeleteBucket(ctx, "acme", "b-site"), internal.ErrorCodeNotFound)

	assignments, err = buckets.Assignments(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "t2", assignments[0].TaskID)

	require.NoError(t, buckets.DeleteAssignment(ctx, "acme", "t2"))
	requireCode(t, buckets.DeleteAssignment(ctx, "acme", "t2"), internal.ErrorCodeNotFound)
}

func TestBucket_Empty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, buckets := newRepositories(t)

	list, err := buckets.Buckets(ctx, "acme")
	require.NoError(t, err)
	assert.Empty(t, list)

	orgs, err := buckets.Organizations(ctx)
	require.NoError(t, err)
	assert.Empty(t, orgs)

	_, err = buckets.Bucket(ctx, "acme", "missing")
	requireCode(t, err, internal.ErrorCodeNotFound)
}

func TestBucket_DefaultKindIsUnique(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, buckets := newRepositories(t)

	today := internal.Bucket{ID: "b-today", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday}

	require.NoError(t, buckets.PutBucket(ctx, today))

	today.Color = "#2563eb"
	require.NoError(t, buckets.PutBucket(ctx, today))

	err := buckets.PutBucket(ctx, internal.Bucket{ID: "b-dup", OrganizationID: "acme", Name: "Today", Kind: internal.BucketKindToday})
	requireCode(t, err, internal.ErrorCodeConflict)

	require.NoError(t, buckets.PutBucket(ctx, internal.Bucket{ID: "b-dup", OrganizationID: "globex", Name: "Today", Kind: internal.BucketKindToday}))
}

func TestBucket_OrganizationsIncludeTaskOwners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tasks, buckets := newRepositories(t)

	_, err := tasks.Create(ctx, internal.CreateTaskParams{OrganizationID: "initech", Title: "Strip formwork"})
	require.NoError(t, err)

	require.NoError(t, buckets.PutBucket(ctx, internal.Bucket{ID: "b1", OrganizationID: "acme", Name: "Site", Kind: internal.BucketKindCustom}))

	orgs, err := buckets.Organizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "initech"}, orgs)
}
