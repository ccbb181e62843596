package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	ikafka "github.com/sanLimbu/easy-tasks/internal/kafka"
)

type fakeIndexer struct {
	indexed []internal.Task
	deleted []string
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, task internal.Task) error {
	if f.err != nil {
		return f.err
	}

	f.indexed = append(f.indexed, task)

	return nil
}

func (f *fakeIndexer) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}

	f.deleted = append(f.deleted, id)

	return nil
}

func message(t *testing.T, eventType string, value interface{}) []byte {
	t.Helper()

	raw, err := json.Marshal(value)
	require.NoError(t, err)

	b, err := json.Marshal(ikafka.Event{Type: eventType, Value: raw})
	require.NoError(t, err)

	return b
}

func TestServer_process(t *testing.T) {
	t.Parallel()

	task := internal.Task{ID: "t1", OrganizationID: "acme", Title: "pour slab", Status: internal.TaskStatusPending}
	idx := &fakeIndexer{}
	srv := &Server{logger: zap.NewNop(), task: idx}
	ctx := context.Background()

	assert.True(t, srv.process(ctx, message(t, "tasks.event.created", task)))
	assert.True(t, srv.process(ctx, message(t, "tasks.event.deleted", internal.Task{ID: "t1", OrganizationID: "acme"})))
	assert.True(t, srv.process(ctx, message(t, "assignments.event.assigned", internal.Assignment{TaskID: "t1"})))
	assert.True(t, srv.process(ctx, []byte("not json")))

	require.Len(t, idx.indexed, 1)
	assert.Equal(t, task, idx.indexed[0])
	assert.Equal(t, []string{"t1"}, idx.deleted)
}

func TestServer_process_IndexFailure(t *testing.T) {
	t.Parallel()

	srv := &Server{
		logger: zap.NewNop(),
		task:   &fakeIndexer{err: internal.NewErrorf(internal.ErrorCodeUnknown, "cluster down")},
	}

	assert.False(t, srv.process(context.Background(), message(t, "tasks.event.updated", internal.Task{ID: "t1"})))
}
