package elasticsearch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/elasticsearch"
)

type fakeIndexer struct {
	indexed []internal.Task
	deleted []string
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, task internal.Task) error {
	f.indexed = append(f.indexed, task)
	return f.err
}

func (f *fakeIndexer) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func TestHandleTaskEvent(t *testing.T) {
	t.Parallel()

	task := internal.Task{ID: "t1", OrganizationID: "acme", Title: "pour slab"}

	tests := []struct {
		name      string
		eventType string
		err       error
		indexed   int
		deleted   int
		code      internal.ErrorCode
		withError bool
	}{
		{"created", elasticsearch.EventTaskCreated, nil, 1, 0, 0, false},
		{"updated", elasticsearch.EventTaskUpdated, nil, 1, 0, 0, false},
		{"deleted", elasticsearch.EventTaskDeleted, nil, 0, 1, 0, false},
		{
			"deleted missing document",
			elasticsearch.EventTaskDeleted,
			internal.NewErrorf(internal.ErrorCodeNotFound, "not found"),
			0, 1, 0, false,
		},
		{
			"index failure",
			elasticsearch.EventTaskCreated,
			internal.NewErrorf(internal.ErrorCodeUnknown, "boom"),
			1, 0, internal.ErrorCodeUnknown, true,
		},
		{"unknown type", "tasks.event.archived", nil, 0, 0, internal.ErrorCodeInvalidArgument, true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx := &fakeIndexer{err: tt.err}

			err := elasticsearch.HandleTaskEvent(context.Background(), idx, tt.eventType, task)

			assert.Len(t, idx.indexed, tt.indexed)
			assert.Len(t, idx.deleted, tt.deleted)

			if !tt.withError {
				assert.NoError(t, err)
				return
			}

			var ierr *internal.Error
			if assert.True(t, errors.As(err, &ierr)) {
				assert.Equal(t, tt.code, ierr.Code())
			}
		})
	}
}
