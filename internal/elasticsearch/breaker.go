package elasticsearch

import (
	"context"
	"errors"
	"time"

	"github.com/mercari/go-circuitbreaker"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
)

// Searcher is implemented by Task.
type Searcher interface {
	Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
}

// SearchBreaker stops calling the search cluster after consecutive failures and fails fast until it recovers.
type SearchBreaker struct {
	orig   Searcher
	cb     *circuitbreaker.CircuitBreaker
	logger *zap.Logger
}

// NewSearchBreaker wraps orig with a circuit breaker tripping after failures consecutive errors.
func NewSearchBreaker(orig Searcher, logger *zap.Logger, failures int64, openTimeout time.Duration) *SearchBreaker {
	return &SearchBreaker{
		orig:   orig,
		logger: logger,
		cb: circuitbreaker.New(
			circuitbreaker.WithOpenTimeout(openTimeout),
			circuitbreaker.WithTripFunc(circuitbreaker.NewTripFuncConsecutiveFailures(failures)),
			circuitbreaker.WithOnStateChangeHookFn(func(from, to circuitbreaker.State) {
				logger.Warn("search circuit breaker",
					zap.String("from", string(from)),
					zap.String("to", string(to)))
			}),
		),
	}
}

// Search delegates to the wrapped searcher unless the breaker is open.
func (s *SearchBreaker) Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	res, err := s.cb.Do(ctx, func() (interface{}, error) {
		return s.orig.Search(ctx, args)
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "search unavailable")
		}

		return internal.SearchResults{}, err
	}

	return res.(internal.SearchResults), nil
}
