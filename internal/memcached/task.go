package memcached

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
)

// TaskStore is the repository being cached.
type TaskStore interface {
	Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error)
	Delete(ctx context.Context, organizationID, id string) error
	Find(ctx context.Context, organizationID, id string) (internal.Task, error)
	List(ctx context.Context, organizationID string) ([]internal.Task, error)
	Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error)
}

// Task caches single task lookups in front of another repository.
type Task struct {
	client     Client
	orig       TaskStore
	expiration time.Duration
	logger     *zap.Logger
}

// NewTask instantiates the caching Task repository.
func NewTask(client Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// Create stores the task and warms the cache.
func (t *Task) Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	task, err := t.orig.Create(ctx, params)
	if err != nil {
		return internal.Task{}, fmt.Errorf("orig.Create: %w", err)
	}

	setTask(ctx, t.client, taskKey(task.OrganizationID, task.ID), &task, t.expiration)

	return task, nil
}

// Delete removes the task and evicts it.
func (t *Task) Delete(ctx context.Context, organizationID, id string) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	if err := t.orig.Delete(ctx, organizationID, id); err != nil {
		return fmt.Errorf("orig.Delete: %w", err)
	}

	deleteTask(ctx, t.client, taskKey(organizationID, id))

	return nil
}

// Find returns the cached task, reading through to the repository on a miss.
func (t *Task) Find(ctx context.Context, organizationID, id string) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	key := taskKey(organizationID, id)

	var res internal.Task

	if err := getTask(ctx, t.client, key, &res); err == nil {
		return res, nil
	}

	t.logger.Debug("cache miss", zap.String("key", key))

	res, err := t.orig.Find(ctx, organizationID, id)
	if err != nil {
		return res, fmt.Errorf("orig.Find: %w", err)
	}

	setTask(ctx, t.client, key, &res, t.expiration)

	return res, nil
}

// List is not cached: bucket resolution needs the current state of every task.
func (t *Task) List(ctx context.Context, organizationID string) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.List").End()

	res, err := t.orig.List(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("orig.List: %w", err)
	}

	return res, nil
}

// Update stores the new values and refreshes the cache.
func (t *Task) Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Update").End()

	key := taskKey(organizationID, id)

	task, err := t.orig.Update(ctx, organizationID, id, params)
	if err != nil {
		deleteTask(ctx, t.client, key)

		return internal.Task{}, fmt.Errorf("orig.Update: %w", err)
	}

	setTask(ctx, t.client, key, &task, t.expiration)

	return task, nil
}
