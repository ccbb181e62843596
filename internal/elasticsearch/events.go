package elasticsearch

import (
	"context"
	"errors"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Task event types consumed by the indexers.
const (
	EventTaskCreated = "tasks.event.created"
	EventTaskUpdated = "tasks.event.updated"
	EventTaskDeleted = "tasks.event.deleted"
)

// Indexer is implemented by Task.
type Indexer interface {
	Index(ctx context.Context, task internal.Task) error
	Delete(ctx context.Context, id string) error
}

// HandleTaskEvent applies a task event to the index. Deleting a document that is not indexed succeeds, and an
// unknown event type returns an InvalidArgument error so the caller can drop the message.
func HandleTaskEvent(ctx context.Context, idx Indexer, eventType string, task internal.Task) error {
	switch eventType {
	case EventTaskCreated, EventTaskUpdated:
		return idx.Index(ctx, task)
	case EventTaskDeleted:
		err := idx.Delete(ctx, task.ID)

		var ierr *internal.Error
		if errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeNotFound {
			return nil
		}

		return err
	}

	return internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown event type %q", eventType)
}
