package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

// BucketService ...
type BucketService interface {
	Archive(ctx context.Context, organizationID, id string) (internal.Bucket, error)
	Assign(ctx context.Context, organizationID, taskID, bucketID string) (internal.Assignment, error)
	Board(ctx context.Context, organizationID string) (service.Board, error)
	Bucket(ctx context.Context, organizationID, id string) (internal.Bucket, error)
	Create(ctx context.Context, organizationID, name string) (internal.Bucket, error)
	Delete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, includeArchived bool) ([]internal.Bucket, error)
	Restore(ctx context.Context, organizationID, id string) (internal.Bucket, error)
	Rollover(ctx context.Context, organizationID string) (resolver.Rollover, error)
	SeedDefaults(ctx context.Context, organizationID string) ([]internal.Bucket, error)
	Tasks(ctx context.Context, organizationID, bucketID string) ([]internal.Task, error)
	Unassign(ctx context.Context, organizationID, taskID string) error
}

// BucketHandler ...
type BucketHandler struct {
	svc BucketService
}

// NewBucketHandler ...
func NewBucketHandler(svc BucketService) *BucketHandler {
	return &BucketHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router.
func (b *BucketHandler) Register(r chi.Router) {
	r.Get("/organizations/{organizationID}/buckets", b.list)
	r.Post("/organizations/{organizationID}/buckets", b.create)
	r.Post("/organizations/{organizationID}/buckets/defaults", b.seed)
	r.Get("/organizations/{organizationID}/buckets/{id}", b.bucket)
	r.Delete("/organizations/{organizationID}/buckets/{id}", b.delete)
	r.Post("/organizations/{organizationID}/buckets/{id}/archive", b.archive)
	r.Post("/organizations/{organizationID}/buckets/{id}/restore", b.restore)
	r.Get("/organizations/{organizationID}/buckets/{id}/tasks", b.tasks)
	r.Put("/organizations/{organizationID}/buckets/{id}/tasks/{taskID}", b.assign)
	r.Delete("/organizations/{organizationID}/assignments/{taskID}", b.unassign)
	r.Get("/organizations/{organizationID}/board", b.board)
	r.Post("/organizations/{organizationID}/rollover", b.rollover)
}

// Bucket is a named grouping of tasks.
type Bucket struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Kind       internal.BucketKind `json:"kind"`
	Color      string              `json:"color"`
	Order      int                 `json:"order"`
	Archived   bool                `json:"archived"`
	ArchivedAt *time.Time          `json:"archived_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func newBucket(bucket internal.Bucket) Bucket {
	res := Bucket{
		ID:        bucket.ID,
		Name:      bucket.Name,
		Kind:      bucket.Kind,
		Color:     bucket.Color,
		Order:     bucket.Order,
		Archived:  bucket.Archived,
		CreatedAt: bucket.CreatedAt,
	}

	if bucket.Archived && !bucket.ArchivedAt.IsZero() {
		at := bucket.ArchivedAt
		res.ArchivedAt = &at
	}

	return res
}

func newBuckets(buckets []internal.Bucket) []Bucket {
	res := make([]Bucket, len(buckets))
	for i, bucket := range buckets {
		res[i] = newBucket(bucket)
	}

	return res
}

// Assignment pins a task into a bucket.
type Assignment struct {
	TaskID     string    `json:"task_id"`
	BucketID   string    `json:"bucket_id"`
	AssignedAt time.Time `json:"assigned_at"`
	MovedFrom  string    `json:"moved_from,omitempty"`
}

func newAssignments(assignments []internal.Assignment) []Assignment {
	res := make([]Assignment, len(assignments))
	for i, a := range assignments {
		res[i] = Assignment{
			TaskID:     a.TaskID,
			BucketID:   a.BucketID,
			AssignedAt: a.AssignedAt,
			MovedFrom:  a.MovedFrom,
		}
	}

	return res
}

// BucketResponse defines the response returned back for operations on one bucket.
type BucketResponse struct {
	Bucket Bucket `json:"bucket"`
}

// ListBucketsResponse defines the response returned back after listing buckets.
type ListBucketsResponse struct {
	Buckets []Bucket `json:"buckets"`
}

func (b *BucketHandler) list(w http.ResponseWriter, r *http.Request) {
	var archived bool

	if v := r.URL.Query().Get("archived"); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			renderErrorResponse(w, r, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "archived"))
			return
		}

		archived = val
	}

	buckets, err := b.svc.List(r.Context(), chi.URLParam(r, "organizationID"), archived)
	if err != nil {
		renderErrorResponse(w, r, "list failed", err)
		return
	}

	renderResponse(w, r, &ListBucketsResponse{Buckets: newBuckets(buckets)}, http.StatusOK)
}

// CreateBucketsRequest defines the request used for creating custom buckets.
type CreateBucketsRequest struct {
	Name string `json:"name"`
}

// Validate ...
func (c CreateBucketsRequest) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 64)),
	); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

func (b *BucketHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateBucketsRequest
	if err := decodeRequest(r, &req); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	if err := req.Validate(); err != nil {
		renderErrorResponse(w, r, "invalid request", err)
		return
	}

	bucket, err := b.svc.Create(r.Context(), chi.URLParam(r, "organizationID"), req.Name)
	if err != nil {
		renderErrorResponse(w, r, "create failed", err)
		return
	}

	renderResponse(w, r, &BucketResponse{Bucket: newBucket(bucket)}, http.StatusCreated)
}

func (b *BucketHandler) seed(w http.ResponseWriter, r *http.Request) {
	buckets, err := b.svc.SeedDefaults(r.Context(), chi.URLParam(r, "organizationID"))
	if err != nil {
		renderErrorResponse(w, r, "seed failed", err)
		return
	}

	renderResponse(w, r, &ListBucketsResponse{Buckets: newBuckets(buckets)}, http.StatusOK)
}

func (b *BucketHandler) bucket(w http.ResponseWriter, r *http.Request) {
	bucket, err := b.svc.Bucket(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "find failed", err)
		return
	}

	renderResponse(w, r, &BucketResponse{Bucket: newBucket(bucket)}, http.StatusOK)
}

func (b *BucketHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := b.svc.Delete(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id")); err != nil {
		renderErrorResponse(w, r, "delete failed", err)
		return
	}

	renderResponse(w, r, struct{}{}, http.StatusOK)
}

func (b *BucketHandler) archive(w http.ResponseWriter, r *http.Request) {
	bucket, err := b.svc.Archive(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "archive failed", err)
		return
	}

	renderResponse(w, r, &BucketResponse{Bucket: newBucket(bucket)}, http.StatusOK)
}

func (b *BucketHandler) restore(w http.ResponseWriter, r *http.Request) {
	bucket, err := b.svc.Restore(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "restore failed", err)
		return
	}

	renderResponse(w, r, &BucketResponse{Bucket: newBucket(bucket)}, http.StatusOK)
}

func (b *BucketHandler) tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := b.svc.Tasks(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "tasks failed", err)
		return
	}

	renderResponse(w, r, &ListTasksResponse{Tasks: newTasks(tasks)}, http.StatusOK)
}

// AssignmentResponse defines the response returned back after assigning a task.
type AssignmentResponse struct {
	Assignment Assignment `json:"assignment"`
}

func (b *BucketHandler) assign(w http.ResponseWriter, r *http.Request) {
	assignment, err := b.svc.Assign(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "taskID"), chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(w, r, "assign failed", err)
		return
	}

	renderResponse(w, r, &AssignmentResponse{Assignment: newAssignments([]internal.Assignment{assignment})[0]}, http.StatusOK)
}

func (b *BucketHandler) unassign(w http.ResponseWriter, r *http.Request) {
	if err := b.svc.Unassign(r.Context(), chi.URLParam(r, "organizationID"), chi.URLParam(r, "taskID")); err != nil {
		renderErrorResponse(w, r, "unassign failed", err)
		return
	}

	renderResponse(w, r, struct{}{}, http.StatusOK)
}

// Column is one bucket of the board with the tasks it currently shows.
type Column struct {
	Bucket Bucket `json:"bucket"`
	Tasks  []Task `json:"tasks"`
}

// Summary counts the tasks of an organization.
type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Overdue    int `json:"overdue"`
}

// BoardResponse defines the response returned back with the dashboard of an organization.
type BoardResponse struct {
	Columns []Column `json:"columns"`
	Summary Summary  `json:"summary"`
}

func (b *BucketHandler) board(w http.ResponseWriter, r *http.Request) {
	board, err := b.svc.Board(r.Context(), chi.URLParam(r, "organizationID"))
	if err != nil {
		renderErrorResponse(w, r, "board failed", err)
		return
	}

	res := BoardResponse{
		Columns: make([]Column, len(board.Columns)),
		Summary: Summary(board.Summary),
	}

	for i, col := range board.Columns {
		res.Columns[i] = Column{
			Bucket: newBucket(col.Bucket),
			Tasks:  newTasks(col.Tasks),
		}
	}

	renderResponse(w, r, &res, http.StatusOK)
}

// RolloverResponse defines the response returned back after rolling over overdue tasks.
type RolloverResponse struct {
	Changed []Assignment `json:"changed"`
}

func (b *BucketHandler) rollover(w http.ResponseWriter, r *http.Request) {
	res, err := b.svc.Rollover(r.Context(), chi.URLParam(r, "organizationID"))
	if err != nil {
		renderErrorResponse(w, r, "rollover failed", err)
		return
	}

	renderResponse(w, r, &RolloverResponse{Changed: newAssignments(res.Changed)}, http.StatusOK)
}
