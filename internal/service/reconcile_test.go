package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/infra/resilience"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"go.uber.org/zap"
)

func newReconciler(store *threadSafeAccountStore) *service.Reconciler {
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond}
	return service.NewReconciler(store, cfg, time.Minute, observability.NewMetrics(), zap.NewNop())
}

// threadSafeAccountStore wraps the mock for the concurrent sweep.
type threadSafeAccountStore struct {
	mu sync.Mutex
	*mockAccountStore
}

func (t *threadSafeAccountStore) GetStudentByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mockAccountStore.GetStudentByUserID(ctx, userID)
}

func (t *threadSafeAccountStore) GetCoachByUserID(ctx context.Context, userID string) (*domain.CoachProfile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mockAccountStore.GetCoachByUserID(ctx, userID)
}

func (t *threadSafeAccountStore) CreateStudentProfile(ctx context.Context, userID string, seed *domain.StudentProfile) (*domain.StudentProfile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &domain.StudentProfile{ID: "repaired-" + userID, UserID: userID}
	t.students[p.ID] = p
	return p, nil
}

func (t *threadSafeAccountStore) CreateCoachProfile(ctx context.Context, userID, name, email, bio string) (*domain.CoachProfile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &domain.CoachProfile{ID: "repaired-" + userID, UserID: userID, Name: name}
	t.coaches[c.ID] = c
	return c, nil
}

func TestSweep_RepairsOrphans(t *testing.T) {
	inner := newMockAccountStore()
	inner.users["user-1"] = &domain.User{ID: "user-1", Role: domain.RoleUser}               // orphan
	inner.users["user-2"] = &domain.User{ID: "user-2", Role: domain.RoleCoach, Name: "Jo"} // orphan
	inner.users["user-3"] = &domain.User{ID: "user-3", Role: domain.RoleUser, ProfileID: "profile-3"}
	inner.users["admin-1"] = &domain.User{ID: "admin-1", Role: domain.RoleSuperAdmin}
	store := &threadSafeAccountStore{mockAccountStore: inner}
	reconciler := newReconciler(store)

	if err := reconciler.Sweep(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, ok := inner.students["repaired-user-1"]; !ok {
		t.Error("expected a student profile recreated for user-1")
	}
	if _, ok := inner.coaches["repaired-user-2"]; !ok {
		t.Error("expected a coach profile recreated for user-2")
	}
	// user-3 already has a profile; admin accounts never carry one.
	if len(inner.students) != 1 {
		t.Errorf("expected exactly one repaired student profile, got %d", len(inner.students))
	}
}

func TestSweep_SkipsExistingProfileOnStaleRead(t *testing.T) {
	inner := newMockAccountStore()
	// ProfileID missing on the user read, but the profile exists.
	inner.users["user-1"] = &domain.User{ID: "user-1", Role: domain.RoleUser}
	inner.students["profile-1"] = &domain.StudentProfile{ID: "profile-1", UserID: "user-1"}
	store := &threadSafeAccountStore{mockAccountStore: inner}
	reconciler := newReconciler(store)

	if err := reconciler.Sweep(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(inner.students) != 1 {
		t.Errorf("expected no duplicate profile, got %d", len(inner.students))
	}
}
