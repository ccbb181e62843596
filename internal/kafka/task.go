package kafka

import (
	"context"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Task publishes Task events.
type Task struct {
	publisher
}

// NewTask instantiates the Task repository.
func NewTask(producer Producer, topicName string) *Task {
	return &Task{
		publisher: publisher{
			producer:  producer,
			topicName: topicName,
		},
	}
}

// Created publishes a message indicating a task was created.
func (t *Task) Created(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Created", "tasks.event.created", task.ID, task)
}

// Deleted publishes a message indicating a task was deleted.
func (t *Task) Deleted(ctx context.Context, organizationID, id string) error {
	return t.publish(ctx, "Task.Deleted", "tasks.event.deleted", id, internal.Task{ID: id, OrganizationID: organizationID})
}

// Updated publishes a message indicating a task was updated.
func (t *Task) Updated(ctx context.Context, task internal.Task) error {
	return t.publish(ctx, "Task.Updated", "tasks.event.updated", task.ID, task)
}
