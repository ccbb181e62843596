package rabbitmq

import (
	"context"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Task represents the repository used for publishing Task records.
type Task struct {
	publisher
}

// NewTask instantiates the Task repository.
func NewTask(channel Publisher) *Task {
	return &Task{
		publisher: publisher{ch: channel},
	}
}

// Created publishes a message indicating a task was created.
func (t *Task) Created(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Created", "tasks.event.created", task)
}

// Deleted publishes a message indicating a task was deleted.
func (t *Task) Deleted(ctx context.Context, organizationID, id string) error {
	return t.publish(ctx, "Task.Deleted", "tasks.event.deleted", internal.Task{ID: id, OrganizationID: organizationID})
}

// Updated publishes a message indicating a task was updated.
func (t *Task) Updated(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Updated", "tasks.event.updated", task)
}
