package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/easy-tasks/internal"
)

//go:generate sqlc generate

const otelName = "github.com/sanLimbu/easy-tasks/internal/postgresql"

const uniqueViolation = "23505"

func convertPriority(p string) (internal.Priority, error) {
	res, err := internal.ParsePriority(p)
	if err != nil {
		return internal.Priority(-1), internal.WrapErrorf(err, internal.ErrorCodeUnknown, "convert priority")
	}

	return res, nil
}

func newPriority(p internal.Priority) string {
	return p.String()
}

func newTimestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t,
		Valid: !t.IsZero(),
	}
}

func fromTimestamp(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}

	return t.Time
}

func newNullUUID(id string) uuid.NullUUID {
	if id == "" {
		return uuid.NullUUID{}
	}

	val, err := uuid.Parse(id)
	if err != nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: val, Valid: true}
}

func fromNullUUID(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}

	return id.UUID.String()
}

// parseID converts a record id. Malformed ids cannot exist in the database so they are reported as not found.
func parseID(id, name string) (uuid.UUID, error) {
	val, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, internal.WrapErrorf(err, internal.ErrorCodeNotFound, "%s not found", name)
	}

	return val, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemPostgreSQL)

	return span
}
