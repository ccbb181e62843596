package internal

import (
	"time"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/envvar"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
)

// NewResolver instantiates the bucket resolver using configuration defined in environment variables:
// BUCKETS_TIMEZONE (IANA name), BUCKETS_WEEK_START (weekday name) and BUCKETS_MEMBERSHIP (union or
// manual-exclusive).
func NewResolver(conf *envvar.Configuration) (*resolver.Resolver, error) {
	var opts []resolver.Option

	tz, err := conf.GetDefault("BUCKETS_TIMEZONE", "")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get BUCKETS_TIMEZONE")
	}

	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "time.LoadLocation")
		}

		opts = append(opts, resolver.WithLocation(loc))
	}

	weekStart, err := conf.GetDefault("BUCKETS_WEEK_START", "monday")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get BUCKETS_WEEK_START")
	}

	day, err := resolver.ParseWeekday(weekStart)
	if err != nil {
		return nil, err
	}

	opts = append(opts, resolver.WithWeekStart(day))

	membership, err := conf.GetDefault("BUCKETS_MEMBERSHIP", "")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get BUCKETS_MEMBERSHIP")
	}

	policy, err := resolver.ParsePolicy(membership)
	if err != nil {
		return nil, err
	}

	opts = append(opts, resolver.WithPolicy(policy))

	return resolver.New(opts...), nil
}
