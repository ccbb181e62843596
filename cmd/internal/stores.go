package internal

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/envvar"
	"github.com/sanLimbu/easy-tasks/internal/postgresql"
	"github.com/sanLimbu/easy-tasks/internal/redis"
	"github.com/sanLimbu/easy-tasks/internal/service"
)

// NewBucketStore returns the bucket store selected by BUCKET_STORE, "postgresql" (default) or "redis". The
// returned func releases whatever the store opened.
func NewBucketStore(ctx context.Context, conf *envvar.Configuration, pool *pgxpool.Pool) (service.BucketStore, func(), error) {
	kind, err := conf.GetDefault("BUCKET_STORE", "postgresql")
	if err != nil {
		return nil, nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get BUCKET_STORE")
	}

	switch kind {
	case "postgresql":
		return postgresql.NewBucket(pool), func() {}, nil
	case "redis":
		rdb, err := NewRedis(ctx, conf)
		if err != nil {
			return nil, nil, err
		}

		return redis.NewBucket(rdb), func() { _ = rdb.Close() }, nil
	}

	return nil, nil, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown bucket store %q", kind)
}
