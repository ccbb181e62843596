package elasticsearch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/elasticsearch"
)

type fakeSearcher struct {
	err   error
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, _ internal.SearchParams) (internal.SearchResults, error) {
	f.calls++

	if f.err != nil {
		return internal.SearchResults{}, f.err
	}

	return internal.SearchResults{Total: 1, Tasks: []internal.Task{{ID: "t1"}}}, nil
}

func TestSearchBreaker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		orig := &fakeSearcher{}
		breaker := elasticsearch.NewSearchBreaker(orig, zap.NewNop(), 2, time.Minute)

		res, err := breaker.Search(ctx, internal.SearchParams{OrganizationID: "acme"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Total)
	})

	t.Run("Opens after consecutive failures", func(t *testing.T) {
		t.Parallel()

		orig := &fakeSearcher{err: errors.New("cluster down")}
		breaker := elasticsearch.NewSearchBreaker(orig, zap.NewNop(), 2, time.Minute)

		for i := 0; i < 2; i++ {
			_, err := breaker.Search(ctx, internal.SearchParams{OrganizationID: "acme"})
			require.Error(t, err)
		}

		_, err := breaker.Search(ctx, internal.SearchParams{OrganizationID: "acme"})
		require.Error(t, err)
		assert.Equal(t, 2, orig.calls)

		var ierr *internal.Error
		require.True(t, errors.As(err, &ierr))
		assert.Equal(t, internal.ErrorCodeUnknown, ierr.Code())
	})
}
