package diskv

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanLimbu/easy-tasks/internal"
)

type taskRecord struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	Status         internal.TaskStatus `json:"status"`
	Priority       internal.Priority   `json:"priority"`
	DueDate        time.Time           `json:"due_date"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// Task represents the repository used for interacting with Task records.
type Task struct {
	db    *DB
	clock internal.Clock
}

// NewTask instantiates the Task repository.
func NewTask(db *DB, clock internal.Clock) *Task {
	return &Task{
		db:    db,
		clock: clock,
	}
}

// Create inserts a new task record.
func (t *Task) Create(_ context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	now := t.clock.Now()

	task := internal.Task{
		ID:             uuid.NewString(),
		OrganizationID: params.OrganizationID,
		Title:          params.Title,
		Description:    params.Description,
		Status:         internal.TaskStatusPending,
		Priority:       params.Priority,
		DueDate:        params.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := t.db.write(toKey(collectionTasks, task.OrganizationID, task.ID), taskRecord(task)); err != nil {
		return internal.Task{}, err
	}

	return task, nil
}

// Delete deletes the existing record matching the id.
func (t *Task) Delete(_ context.Context, organizationID, id string) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	return t.db.erase(toKey(collectionTasks, organizationID, id))
}

// Find returns the requested task by searching its id.
func (t *Task) Find(_ context.Context, organizationID, id string) (internal.Task, error) {
	var rec taskRecord

	if err := t.db.read(toKey(collectionTasks, organizationID, id), &rec); err != nil {
		return internal.Task{}, err
	}

	return internal.Task(rec), nil
}

// List returns every task of the organization ordered by creation.
func (t *Task) List(ctx context.Context, organizationID string) ([]internal.Task, error) {
	keys := t.db.keys(ctx, collectionTasks, organizationID)
	res := make([]internal.Task, 0, len(keys))

	for _, key := range keys {
		var rec taskRecord

		if err := t.db.read(key, &rec); err != nil {
			return nil, err
		}

		res = append(res, internal.Task(rec))
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}

		return res[i].ID < res[j].ID
	})

	return res, nil
}

// Update updates the existing record with new values.
func (t *Task) Update(_ context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	key := toKey(collectionTasks, organizationID, id)

	var rec taskRecord

	if err := t.db.read(key, &rec); err != nil {
		return internal.Task{}, err
	}

	task := params.Apply(internal.Task(rec))
	task.UpdatedAt = t.clock.Now()

	if err := t.db.write(key, taskRecord(task)); err != nil {
		return internal.Task{}, err
	}

	return task, nil
}

// Search filters the organization tasks in memory. Title matches are case insensitive substrings and all
// given criteria must match.
func (t *Task) Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	if args.IsZero() {
		return internal.SearchResults{}, nil
	}

	tasks, err := t.List(ctx, args.OrganizationID)
	if err != nil {
		return internal.SearchResults{}, err
	}

	var found []internal.Task

	for _, task := range tasks {
		if args.Title != nil && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(*args.Title)) {
			continue
		}

		if args.Priority != nil && task.Priority != *args.Priority {
			continue
		}

		if args.Status != nil && task.Status != *args.Status {
			continue
		}

		found = append(found, task)
	}

	res := internal.SearchResults{Tasks: []internal.Task{}, Total: int64(len(found))}

	from := args.From
	if from > int64(len(found)) {
		from = int64(len(found))
	}

	to := int64(len(found))
	if args.Size > 0 && from+args.Size < to {
		to = from + args.Size
	}

	res.Tasks = append(res.Tasks, found[from:to]...)

	return res, nil
}
