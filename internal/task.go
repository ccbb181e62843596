package internal

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Priority indicates how important a Task is.
type Priority int8

const (
	// PriorityNone indicates the task needs to be prioritized.
	PriorityNone Priority = iota

	// PriorityLow indicates a non-urgent task.
	PriorityLow

	// PriorityMedium indicates a task that should be completed soon.
	PriorityMedium

	// PriorityHigh indicates an urgent task that must be completed as soon as possible.
	PriorityHigh
)

// Validate ...
func (p Priority) Validate() error {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown priority value")
}

func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}

	return "invalid"
}

// MarshalText ...
func (p Priority) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return []byte(p.String()), nil
}

// UnmarshalText ...
func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}

	*p = v

	return nil
}

// ParsePriority converts the textual representation of a Priority. The empty string means PriorityNone.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", "none":
		return PriorityNone, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}

	return Priority(-1), NewErrorf(ErrorCodeInvalidArgument, "unknown priority value %q", s)
}

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Validate ...
func (s TaskStatus) Validate() error {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown status value %q", string(s))
}

// IsClosed reports whether tasks in this status are hidden from every bucket.
func (s TaskStatus) IsClosed() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is an activity a supervisor has to get done on site.
type Task struct {
	ID             string
	OrganizationID string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       Priority
	// DueDate is the zero time when the task has no usable due date.
	DueDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDueDate reports whether the task takes part in date-derived bucket membership.
func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// Validate ...
func (t Task) Validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.OrganizationID, validation.Required),
		validation.Field(&t.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&t.Status, validation.Required),
		validation.Field(&t.Priority),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// CreateTaskParams defines the arguments used for creating Task records.
type CreateTaskParams struct {
	OrganizationID string
	Title          string
	Description    string
	Priority       Priority
	DueDate        time.Time
}

// Validate indicates whether the fields are valid or not.
func (c CreateTaskParams) Validate() error {
	t := Task{
		OrganizationID: c.OrganizationID,
		Title:          c.Title,
		Description:    c.Description,
		Status:         TaskStatusPending,
		Priority:       c.Priority,
		DueDate:        c.DueDate,
	}

	return t.Validate()
}

// UpdateTaskParams defines the arguments used for updating Task records.
type UpdateTaskParams struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	DueDate     time.Time
}

// Apply returns a copy of task with the params set.
func (u UpdateTaskParams) Apply(task Task) Task {
	task.Title = u.Title
	task.Description = u.Description
	task.Status = u.Status
	task.Priority = u.Priority
	task.DueDate = u.DueDate

	return task
}

// SearchParams defines the arguments available for searching records.
type SearchParams struct {
	OrganizationID string
	Title          *string
	Priority       *Priority
	Status         *TaskStatus
	From           int64
	Size           int64
}

// IsZero determines whether the search arguments have values or not.
func (a SearchParams) IsZero() bool {
	return a.Title == nil &&
		a.Priority == nil &&
		a.Status == nil
}

// SearchResults defines the collection of tasks that were found.
type SearchResults struct {
	Tasks []Task
	Total int64
}
