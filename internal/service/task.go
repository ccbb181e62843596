package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
)

const otelName = "github.com/sanLimbu/easy-tasks/internal/service"

// TaskRepository defines the datastore handling persisting Task records.
type TaskRepository interface {
	Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error)
	Delete(ctx context.Context, organizationID, id string) error
	Find(ctx context.Context, organizationID, id string) (internal.Task, error)
	List(ctx context.Context, organizationID string) ([]internal.Task, error)
	Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error)
}

// TaskSearchRepository defines the datastore handling searching Task records.
type TaskSearchRepository interface {
	Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
}

// TaskMessageBrokerRepository defines the message broker publishing Task events.
type TaskMessageBrokerRepository interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, organizationID, id string) error
	Updated(ctx context.Context, task internal.Task) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task struct {
	logger    *zap.Logger
	repo      TaskRepository
	search    TaskSearchRepository
	msgBroker TaskMessageBrokerRepository
	buckets   BucketStore
}

// NewTask instantiates the Task service. A nil msgBroker disables event publishing.
func NewTask(logger *zap.Logger, repo TaskRepository, search TaskSearchRepository, msgBroker TaskMessageBrokerRepository, buckets BucketStore) *Task {
	if msgBroker == nil {
		msgBroker = nopBroker{}
	}

	return &Task{
		logger:    logger,
		repo:      repo,
		search:    search,
		msgBroker: msgBroker,
		buckets:   buckets,
	}
}

// By searches Tasks matching the received values.
func (t *Task) By(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.By")
	defer span.End()

	if t.search == nil {
		return internal.SearchResults{}, internal.NewErrorf(internal.ErrorCodeUnknown, "search is not configured")
	}

	res, err := t.search.Search(ctx, args)
	if err != nil {
		return internal.SearchResults{}, fmt.Errorf("search: %w", err)
	}

	return res, nil
}

// Create stores a new record. The first task of an organization also seeds its default buckets, which makes
// the organization known to the rollover scheduler.
func (t *Task) Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Create")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, fmt.Errorf("params.Validate: %w", err)
	}

	task, err := t.repo.Create(ctx, params)
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo create: %w", err)
	}

	if t.buckets != nil {
		if _, err := seedDefaults(ctx, t.logger, t.buckets, task.OrganizationID, task.CreatedAt); err != nil {
			t.logger.Warn("seeding default buckets", zap.String("organization", task.OrganizationID), zap.Error(err))
		}
	}

	if err := t.msgBroker.Created(ctx, task); err != nil {
		t.logger.Warn("publishing task created", zap.String("task", task.ID), zap.Error(err))
	}

	return task, nil
}

// Delete removes an existing Task from the datastore, together with its bucket assignment.
func (t *Task) Delete(ctx context.Context, organizationID, id string) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, organizationID, id); err != nil {
		return fmt.Errorf("repo delete: %w", err)
	}

	if t.buckets != nil {
		if err := t.buckets.DeleteAssignment(ctx, organizationID, id); err != nil && !isNotFound(err) {
			t.logger.Warn("dropping assignment of deleted task", zap.String("task", id), zap.Error(err))
		}
	}

	if err := t.msgBroker.Deleted(ctx, organizationID, id); err != nil {
		t.logger.Warn("publishing task deleted", zap.String("task", id), zap.Error(err))
	}

	return nil
}

// Task gets an existing Task from the datastore.
func (t *Task) Task(ctx context.Context, organizationID, id string) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Task")
	defer span.End()

	task, err := t.repo.Find(ctx, organizationID, id)
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo find: %w", err)
	}

	return task, nil
}

// List returns every Task of the organization.
func (t *Task) List(ctx context.Context, organizationID string) ([]internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.List")
	defer span.End()

	tasks, err := t.repo.List(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("repo list: %w", err)
	}

	return tasks, nil
}

// Update updates an existing Task in the datastore.
func (t *Task) Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "Task.Update")
	defer span.End()

	if err := params.Apply(internal.Task{ID: id, OrganizationID: organizationID}).Validate(); err != nil {
		return internal.Task{}, fmt.Errorf("params.Validate: %w", err)
	}

	task, err := t.repo.Update(ctx, organizationID, id, params)
	if err != nil {
		return internal.Task{}, fmt.Errorf("repo update: %w", err)
	}

	if err := t.msgBroker.Updated(ctx, task); err != nil {
		t.logger.Warn("publishing task updated", zap.String("task", task.ID), zap.Error(err))
	}

	return task, nil
}

func isNotFound(err error) bool {
	var ierr *internal.Error
	return errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeNotFound
}

func isConflict(err error) bool {
	var ierr *internal.Error
	return errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeConflict
}

type nopBroker struct{}

func (nopBroker) Created(context.Context, internal.Task) error {
	return nil
}

func (nopBroker) Deleted(context.Context, string, string) error {
	return nil
}

func (nopBroker) Updated(context.Context, internal.Task) error {
	return nil
}

func (nopBroker) Assigned(context.Context, internal.Assignment) error {
	return nil
}

func (nopBroker) Unassigned(context.Context, internal.Assignment) error {
	return nil
}
