package internal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanLimbu/easy-tasks/internal"
)

func TestPriority_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     internal.Priority
		withError bool
	}{
		{"none", internal.PriorityNone, false},
		{"low", internal.PriorityLow, false},
		{"medium", internal.PriorityMedium, false},
		{"high", internal.PriorityHigh, false},
		{"unknown", internal.Priority(-1), true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Validate()
			assert.Equal(t, tt.withError, err != nil)
		})
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for _, p := range []internal.Priority{internal.PriorityNone, internal.PriorityLow, internal.PriorityMedium, internal.PriorityHigh} {
		text, err := p.MarshalText()
		assert.NoError(t, err)

		var got internal.Priority
		assert.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}

	got, err := internal.ParsePriority("")
	assert.NoError(t, err)
	assert.Equal(t, internal.PriorityNone, got)

	_, err = internal.ParsePriority("urgent")
	assert.Error(t, err)

	_, err = internal.Priority(7).MarshalText()
	assert.Error(t, err)
}

func TestTaskStatus(t *testing.T) {
	t.Parallel()

	assert.NoError(t, internal.TaskStatusInProgress.Validate())
	assert.Error(t, internal.TaskStatus("done").Validate())

	assert.True(t, internal.TaskStatusCompleted.IsClosed())
	assert.True(t, internal.TaskStatusCancelled.IsClosed())
	assert.False(t, internal.TaskStatusPending.IsClosed())
	assert.False(t, internal.TaskStatusInProgress.IsClosed())
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	valid := internal.Task{
		OrganizationID: "org",
		Title:          "pour slab",
		Status:         internal.TaskStatusPending,
		Priority:       internal.PriorityHigh,
	}

	tests := []struct {
		name      string
		input     func() internal.Task
		withError bool
	}{
		{
			"OK",
			func() internal.Task { return valid },
			false,
		},
		{
			"ERR: missing title",
			func() internal.Task {
				t := valid
				t.Title = ""
				return t
			},
			true,
		},
		{
			"ERR: missing organization",
			func() internal.Task {
				t := valid
				t.OrganizationID = ""
				return t
			},
			true,
		},
		{
			"ERR: unknown status",
			func() internal.Task {
				t := valid
				t.Status = "done"
				return t
			},
			true,
		},
		{
			"ERR: unknown priority",
			func() internal.Task {
				t := valid
				t.Priority = internal.Priority(9)
				return t
			},
			true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input().Validate()
			if !tt.withError {
				assert.NoError(t, err)
				return
			}

			var ierr *internal.Error
			if assert.True(t, errors.As(err, &ierr)) {
				assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
			}
		})
	}
}

func TestUpdateTaskParams_Apply(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := created.Add(72 * time.Hour)

	orig := internal.Task{ID: "1", OrganizationID: "org", Title: "a", Status: internal.TaskStatusPending, CreatedAt: created}

	got := internal.UpdateTaskParams{
		Title:    "b",
		Status:   internal.TaskStatusCompleted,
		Priority: internal.PriorityLow,
		DueDate:  due,
	}.Apply(orig)

	assert.Equal(t, internal.Task{
		ID:             "1",
		OrganizationID: "org",
		Title:          "b",
		Status:         internal.TaskStatusCompleted,
		Priority:       internal.PriorityLow,
		DueDate:        due,
		CreatedAt:      created,
	}, got)
}
