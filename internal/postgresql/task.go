package postgresql

import (
	"context"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/postgresql/db"
)

// Task represents the repository used for interacting with Task records.
type Task struct {
	q *db.Queries
}

// NewTask instantiates the Task repository.
func NewTask(d db.DBTX) *Task {
	return &Task{
		q: db.New(d),
	}
}

// Create inserts a new task record.
func (t *Task) Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	row, err := t.q.InsertTask(ctx, db.InsertTaskParams{
		OrganizationID: params.OrganizationID,
		Title:          params.Title,
		Description:    params.Description,
		Status:         string(internal.TaskStatusPending),
		Priority:       newPriority(params.Priority),
		DueDate:        newTimestamp(params.DueDate),
	})
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "insert task")
	}

	return internal.Task{
		ID:             row.ID.String(),
		OrganizationID: params.OrganizationID,
		Title:          params.Title,
		Description:    params.Description,
		Status:         internal.TaskStatusPending,
		Priority:       params.Priority,
		DueDate:        params.DueDate,
		CreatedAt:      fromTimestamp(row.CreatedAt),
		UpdatedAt:      fromTimestamp(row.UpdatedAt),
	}, nil
}

// Delete deletes the existing record matching the id. Its assignment is removed by the foreign key.
func (t *Task) Delete(ctx context.Context, organizationID, id string) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	val, err := parseID(id, "task")
	if err != nil {
		return err
	}

	count, err := t.q.DeleteTask(ctx, db.DeleteTaskParams{ID: val, OrganizationID: organizationID})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete task")
	}

	if count == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
	}

	return nil
}

// Find returns the requested task by searching its id.
func (t *Task) Find(ctx context.Context, organizationID, id string) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	val, err := parseID(id, "task")
	if err != nil {
		return internal.Task{}, err
	}

	res, err := t.q.SelectTask(ctx, db.SelectTaskParams{ID: val, OrganizationID: organizationID})
	if err != nil {
		if isNoRows(err) {
			return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "task not found")
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select task")
	}

	return convertTask(res)
}

// List returns every task of the organization.
func (t *Task) List(ctx context.Context, organizationID string) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.List").End()

	rows, err := t.q.SelectTasks(ctx, organizationID)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select tasks")
	}

	res := make([]internal.Task, 0, len(rows))

	for _, row := range rows {
		task, err := convertTask(row)
		if err != nil {
			return nil, err
		}

		res = append(res, task)
	}

	return res, nil
}

// Update updates the existing record with new values.
func (t *Task) Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Update").End()

	val, err := parseID(id, "task")
	if err != nil {
		return internal.Task{}, err
	}

	res, err := t.q.UpdateTask(ctx, db.UpdateTaskParams{
		ID:             val,
		OrganizationID: organizationID,
		Title:          params.Title,
		Description:    params.Description,
		Status:         string(params.Status),
		Priority:       newPriority(params.Priority),
		DueDate:        newTimestamp(params.DueDate),
	})
	if err != nil {
		if isNoRows(err) {
			return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "task not found")
		}

		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "update task")
	}

	return convertTask(res)
}

func convertTask(row db.Task) (internal.Task, error) {
	priority, err := convertPriority(row.Priority)
	if err != nil {
		return internal.Task{}, err
	}

	return internal.Task{
		ID:             row.ID.String(),
		OrganizationID: row.OrganizationID,
		Title:          row.Title,
		Description:    row.Description,
		Status:         internal.TaskStatus(row.Status),
		Priority:       priority,
		DueDate:        fromTimestamp(row.DueDate),
		CreatedAt:      fromTimestamp(row.CreatedAt),
		UpdatedAt:      fromTimestamp(row.UpdatedAt),
	}, nil
}
