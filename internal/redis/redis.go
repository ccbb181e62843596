// Package redis implements the bucket store on Redis hashes.
//
// Every organization owns two hashes, one with its buckets keyed by id and one with its assignments keyed by
// task id. A set tracks the organizations known to the store.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/easy-tasks/internal"
)

const otelName = "github.com/sanLimbu/easy-tasks/internal/redis"

const organizationsKey = "organizations"

func bucketsKey(organizationID string) string {
	return "buckets:" + organizationID
}

func assignmentsKey(organizationID string) string {
	return "assignments:" + organizationID
}

// defaultsKey maps each default bucket kind of the organization to the id of the bucket holding it.
func defaultsKey(organizationID string) string {
	return "defaults:" + organizationID
}

type bucketRecord struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	Name           string              `json:"name"`
	Kind           internal.BucketKind `json:"kind"`
	Color          string              `json:"color"`
	Order          int                 `json:"order"`
	Archived       bool                `json:"archived"`
	ArchivedAt     time.Time           `json:"archived_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

type assignmentRecord struct {
	TaskID     string    `json:"task_id"`
	BucketID   string    `json:"bucket_id"`
	AssignedAt time.Time `json:"assigned_at"`
	MovedFrom  string    `json:"moved_from,omitempty"`
}

func newBucketRecord(b internal.Bucket) bucketRecord {
	return bucketRecord(b)
}

func (r bucketRecord) bucket() internal.Bucket {
	return internal.Bucket(r)
}

func newAssignmentRecord(a internal.Assignment) assignmentRecord {
	return assignmentRecord{
		TaskID:     a.TaskID,
		BucketID:   a.BucketID,
		AssignedAt: a.AssignedAt,
		MovedFrom:  a.MovedFrom,
	}
}

func (r assignmentRecord) assignment(organizationID string) internal.Assignment {
	return internal.Assignment{
		OrganizationID: organizationID,
		TaskID:         r.TaskID,
		BucketID:       r.BucketID,
		AssignedAt:     r.AssignedAt,
		MovedFrom:      r.MovedFrom,
	}
}

func encode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Marshal")
	}

	return string(b), nil
}

func decode(s string, v interface{}) error {
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Unmarshal")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemRedis)

	return span
}

func isNil(err error) bool {
	return err == redis.Nil
}
