package service

import (
	"context"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var impTracer = otel.Tracer("service/impersonation")

// ImpersonationService tracks admin view-as-student sessions. Records
// live only in this process; the backend never sees them. Every record
// is bounded by domain.ImpersonationWindow regardless of cache TTL.
type ImpersonationService struct {
	store   port.AccountStore
	cache   port.Cache[domain.Impersonation]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewImpersonationService creates the impersonation service. The cache
// must carry a TTL of at least domain.ImpersonationWindow, or entries
// vanish before the window lapses.
func NewImpersonationService(store port.AccountStore, cache port.Cache[domain.Impersonation], metrics *observability.Metrics, logger *zap.Logger) *ImpersonationService {
	return &ImpersonationService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Start opens an impersonation session for an admin viewing as the
// target user. The target must exist and must not be another
// privileged account.
func (s *ImpersonationService) Start(ctx context.Context, adminUserID, targetUserID string) (*domain.Impersonation, error) {
	ctx, span := impTracer.Start(ctx, "ImpersonationService.Start")
	defer span.End()

	target, err := s.store.GetUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleSuperAdmin {
		return nil, &domain.ErrForbidden{Action: "impersonate a super admin"}
	}

	imp := domain.Impersonation{
		ID:           uuid.New().String(),
		TargetUserID: targetUserID,
		AdminUserID:  adminUserID,
		StartedAt:    s.now(),
	}
	s.cache.Set(adminUserID, imp)
	s.metrics.IncrImpersonation()

	s.logger.Info("impersonation started",
		zap.String("admin_user_id", adminUserID),
		zap.String("target_user_id", targetUserID),
	)
	return &imp, nil
}

// Current returns the admin's active impersonation, or nil when none
// exists or the window has lapsed. A lapsed record is purged.
func (s *ImpersonationService) Current(adminUserID string) *domain.Impersonation {
	imp, ok := s.cache.Get(adminUserID)
	if !ok {
		return nil
	}
	if !imp.Valid(s.now()) {
		s.cache.Delete(adminUserID)
		return nil
	}
	return &imp
}

// Stop ends the admin's impersonation session. Stopping when none is
// active is a no-op.
func (s *ImpersonationService) Stop(adminUserID string) {
	s.cache.Delete(adminUserID)
	s.logger.Info("impersonation stopped", zap.String("admin_user_id", adminUserID))
}
