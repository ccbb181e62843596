package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sanLimbu/easy-tasks/internal"
)

// TaskService ...
type TaskService interface {
	By(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
	Create(ctx context.Context, params internal.CreateTaskParams) (internal.Task, error)
	Delete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string) ([]internal.Task, error)
	Task(ctx context.Context, organizationID, id string) (internal.Task, error)
	Update(ctx context.Context, organizationID, id string, params internal.UpdateTaskParams) (internal.Task, error)
}

// TaskHandler ...
type TaskHandler struct {
	svc TaskService
}

// NewTaskHandler ...
func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router.
func (t *TaskHandler) Register(r chi.Router) {
	r.Post("/organizations/{organizationID}/tasks", t.create)
	r.Get("/organizations/{organizationID}/tasks", t.list)
	r.Post("/organizations/{organizationID}/tasks/search", t.search)
	r.Get("/organizations/{organizationID}/tasks/{id}", t.task)
	r.Put("/organizations/{organizationID}/tasks/{id}", t.update)
	r.Delete("/organizations/{organizationID}/tasks/{id}", t.delete)
}

// Task is an activity a supervisor has to get done on site.
type Task struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Status      internal.TaskStatus `json:"status"`
	Priority    internal.Priority   `json:"priority"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func newTask(task internal.Task) Task {
	res := Task{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.HasDueDate() {
		due := task.DueDate
		res.DueDate = &due
	}

	return res
}

func newTasks(tasks []internal.Task) []Task {
	res := make([]Task, len(tasks))
	for i, task := range tasks {
		res[i] = newTask(task)
	}

	return res
}

func dueDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}

// CreateTasksRequest defines the request used for creating tasks.
type CreateTasksRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    internal.Priority `json:"priority"`
	DueDate     *time.Time        `json:"due_date"`
}

// Validate ...
func (c CreateTasksRequest) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
	); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// CreateTasksResponse defines the response returned back after creating tasks.
type CreateTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := decodeRequest(r, &req); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	if err := req.Validate(); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	task, err := t.svc.Create(r.Context(), internal.CreateTaskParams{
		OrganizationID: chi.URLParam(r, "organizationID"),
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		DueDate:        dueDate(req.DueDate),
	})
	if err != nil {
		renderErrorResponse(w, r, "create failed", err)
		return
	}

	renderResponse(w, r, &CreateTasksResponse{Task: newTask(task)}, http.StatusCreated)
}

// ListTasksResponse defines the response returned back after listing tasks.
type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := t.svc.List(r.Context(), chi.URLParam(r, "organizationID"))
	if err != nil {
		renderErrorResponse(w, r, "list failed", err)
		return
	}

	renderResponse(w, r, &ListTasksResponse{Tasks: newTasks(tasks)}, http.StatusOK)
}

// SearchTasksRequest defines the request used for searching tasks.
type SearchTasksRequest struct {
	Title    *string              `json:"title"`
	Priority *internal.Priority   `json:"priority"`
	Status   *internal.TaskStatus `json:"status"`
	From     int64                `json:"from"`
	Size     int64                `json:"size"`
}

// Validate ...
func (s SearchTasksRequest) Validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.Status),
		validation.Field(&s.From, validation.Min(0)),
		validation.Field(&s.Size, validation.Min(0), validation.Max(100)),
	); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// SearchTasksResponse defines the response returned back after searching tasks.
type SearchTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Total int64  `json:"total"`
}

func (t *TaskHandler) search(w http.ResponseWriter, r *http.Request) {
	var req SearchTasksRequest
	if err := decodeRequest(r, &req); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	if err := req.Validate(); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	size := req.Size
	if size == 0 {
		size = 10
	}

	res, err := t.svc.By(r.Context(), internal.SearchParams{
		OrganizationID: chi.URLParam(r, "organizationID"),
		Title:          req.Title,
		Priority:       req.Priority,
		Status:         req.Status,
		From:           req.From,
		Size:           size,
	})
	if err != nil {
		renderErrorResponse(w, r, "search failed", err)
		return
	}

	renderResponse(w, r, &SearchTasksResponse{Tasks: newTasks(res.Tasks), Total: res.Total}, http.StatusOK)
}

// ReadTasksResponse defines the response returned back after searching one task.
type ReadTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) task(w http.ResponseWriter, r *http.Request) {
	task, err := t.svc.Task(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "find failed", err)
		return
	}

	renderResponse(w, r, &ReadTasksResponse{Task: newTask(task)}, http.StatusOK)
}

// UpdateTasksRequest defines the request used for updating a task.
type UpdateTasksRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      internal.TaskStatus `json:"status"`
	Priority    internal.Priority   `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

// Validate ...
func (u UpdateTasksRequest) Validate() error {
	if err := validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.Required),
		validation.Field(&u.Status, validation.Required),
	); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// UpdateTasksResponse defines the response returned back after updating a task.
type UpdateTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTasksRequest
	if err := decodeRequest(r, &req); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	if err := req.Validate(); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	task, err := t.svc.Update(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"), internal.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate(req.DueDate),
	})
	if err != nil {
		renderErrorResponse(w, r, "update failed", err)
		return
	}

	renderResponse(w, r, &UpdateTasksResponse{Task: newTask(task)}, http.StatusOK)
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := t.svc.Delete(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id")); err != nil {
		renderErrorResponse(w, r, "delete failed", err)
		return
	}

	renderResponse(w, r, struct{}{}, http.StatusOK)
}
