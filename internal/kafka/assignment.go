package kafka

import (
	"context"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Assignment publishes bucket assignment events.
type Assignment struct {
	publisher
}

// NewAssignment instantiates the Assignment repository.
func NewAssignment(producer Producer, topicName string) *Assignment {
	return &Assignment{
		publisher: publisher{
			producer:  producer,
			topicName: topicName,
		},
	}
}

// Assigned publishes a message indicating a task was pinned into a bucket.
func (a *Assignment) Assigned(ctx context.Context, assignment internal.Assignment) error {
	return a.publish(ctx, "Assignment.Assigned", "assignments.event.assigned", assignment.TaskID, assignment)
}

// Unassigned publishes a message indicating a task lost its manual assignment.
func (a *Assignment) Unassigned(ctx context.Context, assignment internal.Assignment) error {
	return a.publish(ctx, "Assignment.Unassigned", "assignments.event.unassigned", assignment.TaskID, assignment)
}
