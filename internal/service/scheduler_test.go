package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
)

type fakeRollover struct {
	mu    sync.Mutex
	orgs  []string
	fail  map[string]bool
	calls []string
}

func (f *fakeRollover) Organizations(context.Context) ([]string, error) {
	return f.orgs, nil
}

func (f *fakeRollover) Rollover(_ context.Context, org string) (resolver.Rollover, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, org)

	if f.fail[org] {
		return resolver.Rollover{}, errors.New("boom")
	}

	return resolver.Rollover{}, nil
}

func TestRolloverScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	svc := &fakeRollover{orgs: []string{"a", "b", "c"}, fail: map[string]bool{"b": true}}
	s := NewRolloverScheduler(zap.NewNop(), svc, internal.SystemClock(time.UTC), resolver.New())

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollover b")
	assert.Equal(t, []string{"a", "b", "c"}, svc.calls)
}

func TestRolloverScheduler_Run(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 13, 22, 30, 0, 0, time.UTC)
	svc := &fakeRollover{orgs: []string{"a"}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var waits []time.Duration

	s := NewRolloverScheduler(zap.NewNop(), svc, internal.ClockFunc(func() time.Time { return now }), resolver.New())
	s.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)

		c := make(chan time.Time, 1)
		if len(waits) < 3 {
			c <- now
		} else {
			cancel()
		}

		return c
	}

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, svc.calls, 3)
	require.Len(t, waits, 3)
	assert.Equal(t, 90*time.Minute+time.Second, waits[0])
}
