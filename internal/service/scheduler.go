package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanLimbu/easy-tasks/internal"
	"github.com/sanLimbu/easy-tasks/internal/resolver"
)

// RolloverService is the subset of Bucket used by RolloverScheduler.
type RolloverService interface {
	Organizations(ctx context.Context) ([]string, error)
	Rollover(ctx context.Context, organizationID string) (resolver.Rollover, error)
}

// RolloverScheduler runs the daily rollover for every organization right away and then at every local
// midnight.
type RolloverScheduler struct {
	logger   *zap.Logger
	svc      RolloverService
	clock    internal.Clock
	resolver *resolver.Resolver
	after    func(time.Duration) <-chan time.Time
	// grace is added past midnight so the run lands inside the new day.
	grace time.Duration
}

// NewRolloverScheduler ...
func NewRolloverScheduler(logger *zap.Logger, svc RolloverService, clock internal.Clock, r *resolver.Resolver) *RolloverScheduler {
	return &RolloverScheduler{
		logger:   logger,
		svc:      svc,
		clock:    clock,
		resolver: r,
		after:    time.After,
		grace:    time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (s *RolloverScheduler) Run(ctx context.Context) error {
	for {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("rollover failed", zap.Error(err))
		}

		now := s.clock.Now()
		wait := s.resolver.NextDay(now).Sub(now) + s.grace

		s.logger.Info("next rollover scheduled", zap.Duration("in", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(wait):
		}
	}
}

// RunOnce rolls every organization over once. Failures of one organization don't stop the others.
func (s *RolloverScheduler) RunOnce(ctx context.Context) error {
	orgs, err := s.svc.Organizations(ctx)
	if err != nil {
		return fmt.Errorf("organizations: %w", err)
	}

	var errs []error

	for _, org := range orgs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		if _, err := s.svc.Rollover(ctx, org); err != nil {
			errs = append(errs, fmt.Errorf("rollover %s: %w", org, err))
		}
	}

	return errors.Join(errs...)
}
