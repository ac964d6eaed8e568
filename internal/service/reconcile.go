// Package service — Reconciler is the background sweep that repairs
// users left without a role profile when the second step of the
// creation workflow failed.
package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/infra/resilience"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var reconcileTracer = otel.Tracer("service/reconcile")

// sweepConcurrency caps parallel profile repairs per sweep.
const sweepConcurrency = 4

// Reconciler periodically scans for orphaned users and recreates their
// missing profiles. Repairs retry with backoff; a sweep tolerates
// individual failures and reports them as metrics.
type Reconciler struct {
	store    port.AccountStore
	retryCfg resilience.Config
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReconciler creates the reconciliation job.
func NewReconciler(store port.AccountStore, retryCfg resilience.Config, interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		retryCfg: retryCfg,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run ticks until the context is cancelled. One sweep runs immediately
// at startup.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("reconciler started", zap.Duration("interval", r.interval))

	if err := r.Sweep(ctx); err != nil {
		r.logger.Error("reconcile sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error("reconcile sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep scans every user once and repairs missing profiles.
func (r *Reconciler) Sweep(ctx context.Context) error {
	ctx, span := reconcileTracer.Start(ctx, "Reconciler.Sweep")
	defer span.End()

	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	var repaired, failed atomic.Int64
	for _, user := range users {
		// ProfileID is denormalized onto the user read, so orphan
		// detection needs no extra backend calls.
		if user.ProfileID != "" {
			continue
		}
		if user.Role != domain.RoleUser && user.Role != domain.RoleCoach {
			continue
		}

		user := user
		r.metrics.IncrOrphan("detected")
		g.Go(func() error {
			if err := r.repair(gctx, user); err != nil {
				failed.Add(1)
				r.metrics.IncrOrphan("failed")
				r.logger.Warn("orphan repair failed",
					zap.String("user_id", user.ID),
					zap.String("role", string(user.Role)),
					zap.Error(err),
				)
				observability.CaptureErr(err)
				return nil
			}
			repaired.Add(1)
			r.metrics.IncrOrphan("repaired")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if repaired.Load() > 0 || failed.Load() > 0 {
		r.logger.Info("reconcile sweep finished",
			zap.Int("users", len(users)),
			zap.Int64("repaired", repaired.Load()),
			zap.Int64("failed", failed.Load()),
		)
	}
	return nil
}

// repair recreates the missing profile for one user, with retry. The
// profile lookup runs first in case the denormalized read was stale.
func (r *Reconciler) repair(ctx context.Context, user domain.User) error {
	return resilience.RetryWithBackoff(ctx, r.retryCfg, func() error {
		switch user.Role {
		case domain.RoleUser:
			existing, err := r.store.GetStudentByUserID(ctx, user.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}
			_, err = r.store.CreateStudentProfile(ctx, user.ID, nil)
			return err
		case domain.RoleCoach:
			existing, err := r.store.GetCoachByUserID(ctx, user.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}
			_, err = r.store.CreateCoachProfile(ctx, user.ID, user.Name, user.Email, "")
			return err
		}
		return nil
	})
}
