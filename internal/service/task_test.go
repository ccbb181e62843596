package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

type fakeSearch struct {
	args internal.SearchParams
}

func (f *fakeSearch) Search(_ context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	f.args = args

	return internal.SearchResults{Tasks: []internal.Task{{ID: "1"}}, Total: 1}, nil
}

func TestTask_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	repo := newFakeTaskRepository(now)
	broker := &fakeBroker{}

	svc := service.NewTask(zap.NewNop(), repo, nil, broker, nil)

	task, err := svc.Create(context.Background(), internal.CreateTaskParams{
		OrganizationID: org,
		Title:          "inspect scaffolding",
		Priority:       internal.PriorityHigh,
		DueDate:        now,
	})
	require.NoError(t, err)
	assert.Equal(t, internal.TaskStatusPending, task.Status)
	assert.Equal(t, []string{"created:" + task.ID}, broker.events)

	_, err = svc.Create(context.Background(), internal.CreateTaskParams{OrganizationID: org})
	requireCode(t, err, internal.ErrorCodeInvalidArgument)

	_, err = svc.Create(context.Background(), internal.CreateTaskParams{OrganizationID: org, Title: "x", Priority: internal.Priority(42)})
	requireCode(t, err, internal.ErrorCodeInvalidArgument)
}

func TestTask_Update(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	repo := newFakeTaskRepository(now)
	broker := &fakeBroker{}
	svc := service.NewTask(zap.NewNop(), repo, nil, broker, nil)

	task, err := svc.Create(context.Background(), internal.CreateTaskParams{OrganizationID: org, Title: "a"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), org, task.ID, internal.UpdateTaskParams{
		Title:  "b",
		Status: internal.TaskStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Title)
	assert.Equal(t, internal.TaskStatusCompleted, updated.Status)

	_, err = svc.Update(context.Background(), org, task.ID, internal.UpdateTaskParams{Title: "b", Status: "finished"})
	requireCode(t, err, internal.ErrorCodeInvalidArgument)

	_, err = svc.Update(context.Background(), org, "missing", internal.UpdateTaskParams{Title: "b", Status: internal.TaskStatusPending})
	requireCode(t, err, internal.ErrorCodeNotFound)

	found, err := svc.Task(context.Background(), org, task.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)

	_, err = svc.Task(context.Background(), "other-org", task.ID)
	requireCode(t, err, internal.ErrorCodeNotFound)

	assert.Equal(t, []string{"created:" + task.ID, "updated:" + task.ID}, broker.events)
}

func TestTask_Delete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	defaults := f.defaults(t)

	svc := service.NewTask(zap.NewNop(), f.tasks, nil, f.broker, f.store)

	task, err := svc.Create(ctx, internal.CreateTaskParams{OrganizationID: org, Title: "a"})
	require.NoError(t, err)

	kept, err := svc.Create(ctx, internal.CreateTaskParams{OrganizationID: org, Title: "b"})
	require.NoError(t, err)

	_, err = f.svc.Assign(ctx, org, task.ID, defaults[internal.BucketKindToday].ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, org, task.ID))

	assignments, err := f.store.Assignments(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	// Tasks without an assignment delete cleanly too.
	require.NoError(t, svc.Delete(ctx, org, kept.ID))

	err = svc.Delete(ctx, org, task.ID)
	requireCode(t, err, internal.ErrorCodeNotFound)

	list, err := svc.List(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTask_By(t *testing.T) {
	t.Parallel()

	title := "slab"
	search := &fakeSearch{}

	svc := service.NewTask(zap.NewNop(), newFakeTaskRepository(time.Now()), search, nil, nil)

	res, err := svc.By(context.Background(), internal.SearchParams{OrganizationID: org, Title: &title, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, &title, search.args.Title)

	_, err = service.NewTask(zap.NewNop(), newFakeTaskRepository(time.Now()), nil, nil, nil).By(context.Background(), internal.SearchParams{})
	assert.Error(t, err)
}
