package memcached_test

import (
	"context"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/memcached"
)

type fakeClient struct {
	items map[string]*memcache.Item
	gets  int
}

func (f *fakeClient) Get(key string) (*memcache.Item, error) {
	f.gets++

	item, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}

	return item, nil
}

func (f *fakeClient) Set(item *memcache.Item) error {
	f.items[item.Key] = item

	return nil
}

func (f *fakeClient) Delete(key string) error {
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}

	delete(f.items, key)

	return nil
}

type fakeStore struct {
	tasks map[string]internal.Task
	finds int
}

func (f *fakeStore) Create(_ context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	task := internal.Task{
		ID:             "t1",
		OrganizationID: params.OrganizationID,
		Title:          params.Title,
		Status:         internal.TaskStatusPending,
	}
	f.tasks[task.ID] = task

	return task, nil
}

func (f *fakeStore) Delete(_ context.Context, _, id string) error {
	delete(f.tasks, id)

	return nil
}

func (f *fakeStore) Find(_ context.Context, _, id string) (internal.Task, error) {
	f.finds++

	task, ok := f.tasks[id]
	if !ok {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "not found")
	}

	return task, nil
}

func (f *fakeStore) List(_ context.Context, _ string) ([]internal.Task, error) {
	res := make([]internal.Task, 0, len(f.tasks))
	for _, task := range f.tasks {
		res = append(res, task)
	}

	return res, nil
}

func (f *fakeStore) Update(_ context.Context, _, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "not found")
	}

	task = params.Apply(task)
	f.tasks[id] = task

	return task, nil
}

func TestTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{items: map[string]*memcache.Item{}}
	store := &fakeStore{tasks: map[string]internal.Task{}}

	cache := memcached.NewTask(client, store, zap.NewNop())

	created, err := cache.Create(ctx, internal.CreateTaskParams{OrganizationID: "acme corp", Title: "order rebar"})
	require.NoError(t, err)
	require.Len(t, client.items, 1)

	for key := range client.items {
		assert.NotContains(t, key, " ")
	}

	found, err := cache.Find(ctx, "acme corp", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
	assert.Equal(t, 0, store.finds)

	updated, err := cache.Update(ctx, "acme corp", created.ID, internal.UpdateTaskParams{
		Title:   "order rebar",
		Status:  internal.TaskStatusCompleted,
		DueDate: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	found, err = cache.Find(ctx, "acme corp", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
	assert.Equal(t, 0, store.finds)

	require.NoError(t, cache.Delete(ctx, "acme corp", created.ID))
	assert.Empty(t, client.items)

	_, err = cache.Find(ctx, "acme corp", created.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, store.finds)
}

func TestTask_FindReadsThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{items: map[string]*memcache.Item{}}
	store := &fakeStore{tasks: map[string]internal.Task{
		"t9": {ID: "t9", OrganizationID: "acme", Title: "inspect scaffolding", Status: internal.TaskStatusPending},
	}}

	cache := memcached.NewTask(client, store, zap.NewNop())

	for i := 0; i < 3; i++ {
		task, err := cache.Find(ctx, "acme", "t9")
		require.NoError(t, err)
		assert.Equal(t, "inspect scaffolding", task.Title)
	}

	assert.Equal(t, 1, store.finds)
	assert.Equal(t, 3, client.gets)
}
