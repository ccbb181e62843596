package service_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sanLimbu/easy-tasks/internal"
)

type fakeTaskRepository struct {
	mu    sync.Mutex
	seq   int
	now   time.Time
	tasks map[string]internal.Task
}

func newFakeTaskRepository(now time.Time) *fakeTaskRepository {
	return &fakeTaskRepository{now: now, tasks: map[string]internal.Task{}}
}

func (f *fakeTaskRepository) Create(_ context.Context, params internal.CreateTaskParams) (internal.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++

	task := internal.Task{
		ID:             "task-" + strconv.Itoa(f.seq),
		OrganizationID: params.OrganizationID,
		Title:          params.Title,
		Description:    params.Description,
		Status:         internal.TaskStatusPending,
		Priority:       params.Priority,
		DueDate:        params.DueDate,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}

	f.tasks[task.ID] = task

	return task, nil
}

func (f *fakeTaskRepository) put(task internal.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tasks[task.ID] = task
}

func (f *fakeTaskRepository) Delete(_ context.Context, organizationID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.tasks[id]; !ok || t.OrganizationID != organizationID {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
	}

	delete(f.tasks, id)

	return nil
}

func (f *fakeTaskRepository) Find(_ context.Context, organizationID, id string) (internal.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OrganizationID != organizationID {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
	}

	return t, nil
}

func (f *fakeTaskRepository) List(_ context.Context, organizationID string) ([]internal.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []internal.Task
	for _, t := range f.tasks {
		if t.OrganizationID == organizationID {
			res = append(res, t)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}

func (f *fakeTaskRepository) Update(_ context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OrganizationID != organizationID {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task not found")
	}

	t = params.Apply(t)
	t.UpdatedAt = f.now
	f.tasks[id] = t

	return t, nil
}

type fakeBucketStore struct {
	mu          sync.Mutex
	buckets     map[string]internal.Bucket
	assignments map[string]map[string]internal.Assignment
	puts        int
}

func newFakeBucketStore() *fakeBucketStore {
	return &fakeBucketStore{
		buckets:     map[string]internal.Bucket{},
		assignments: map[string]map[string]internal.Assignment{},
	}
}

func (f *fakeBucketStore) Bucket(_ context.Context, organizationID, id string) (internal.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.buckets[id]
	if !ok || b.OrganizationID != organizationID {
		return internal.Bucket{}, internal.NewErrorf(internal.ErrorCodeNotFound, "bucket not found")
	}

	return b, nil
}

func (f *fakeBucketStore) Buckets(_ context.Context, organizationID string) ([]internal.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []internal.Bucket
	for _, b := range f.buckets {
		if b.OrganizationID == organizationID {
			res = append(res, b)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Order < res[j].Order })

	return res, nil
}

func (f *fakeBucketStore) PutBucket(_ context.Context, bucket internal.Bucket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if bucket.IsDefault() {
		for _, b := range f.buckets {
			if b.OrganizationID == bucket.OrganizationID && b.Kind == bucket.Kind && b.ID != bucket.ID {
				return internal.NewErrorf(internal.ErrorCodeConflict, "default bucket %s already exists", bucket.Kind)
			}
		}
	}

	f.buckets[bucket.ID] = bucket

	return nil
}

func (f *fakeBucketStore) DeleteBucket(_ context.Context, organizationID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.buckets, id)

	for taskID, a := range f.assignments[organizationID] {
		if a.BucketID == id {
			delete(f.assignments[organizationID], taskID)
		}
	}

	return nil
}

func (f *fakeBucketStore) Assignments(_ context.Context, organizationID string) ([]internal.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []internal.Assignment
	for _, a := range f.assignments[organizationID] {
		res = append(res, a)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].TaskID < res[j].TaskID })

	return res, nil
}

func (f *fakeBucketStore) PutAssignments(_ context.Context, organizationID string, assignments ...internal.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.assignments[organizationID] == nil {
		f.assignments[organizationID] = map[string]internal.Assignment{}
	}

	for _, a := range assignments {
		f.assignments[organizationID][a.TaskID] = a
	}

	f.puts++

	return nil
}

func (f *fakeBucketStore) DeleteAssignment(_ context.Context, organizationID, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.assignments[organizationID][taskID]; !ok {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "assignment not found")
	}

	delete(f.assignments[organizationID], taskID)

	return nil
}

func (f *fakeBucketStore) Organizations(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]struct{}{}
	for _, b := range f.buckets {
		seen[b.OrganizationID] = struct{}{}
	}

	res := make([]string, 0, len(seen))
	for org := range seen {
		res = append(res, org)
	}

	sort.Strings(res)

	return res, nil
}

type fakeBroker struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeBroker) record(evt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, evt)

	return nil
}

func (f *fakeBroker) Created(_ context.Context, task internal.Task) error {
	return f.record("created:" + task.ID)
}

func (f *fakeBroker) Deleted(_ context.Context, _, id string) error {
	return f.record("deleted:" + id)
}

func (f *fakeBroker) Updated(_ context.Context, task internal.Task) error {
	return f.record("updated:" + task.ID)
}

func (f *fakeBroker) Assigned(_ context.Context, a internal.Assignment) error {
	return f.record("assigned:" + a.TaskID + ">" + a.BucketID)
}

func (f *fakeBroker) Unassigned(_ context.Context, a internal.Assignment) error {
	return f.record("unassigned:" + a.TaskID)
}

// staleBucketStore hides the stored buckets from the first listing, like a concurrent writer seeding the
// defaults between a read and a write.
type staleBucketStore struct {
	*fakeBucketStore
	listed bool
}

func (s *staleBucketStore) Buckets(ctx context.Context, organizationID string) ([]internal.Bucket, error) {
	if !s.listed {
		s.listed = true
		return nil, nil
	}

	return s.fakeBucketStore.Buckets(ctx, organizationID)
}
