package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/cache"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"go.uber.org/zap"
)

func newImpersonationService(store *mockAccountStore, c *cache.InMemory[domain.Impersonation]) *service.ImpersonationService {
	return service.NewImpersonationService(store, c, observability.NewMetrics(), zap.NewNop())
}

func TestImpersonation_StartAndCurrent(t *testing.T) {
	store := newMockAccountStore()
	store.users["student-1"] = &domain.User{ID: "student-1", Role: domain.RoleUser}
	svc := newImpersonationService(store, cache.New[domain.Impersonation](time.Hour))

	imp, err := svc.Start(context.Background(), "admin-1", "student-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if imp.TargetUserID != "student-1" || imp.AdminUserID != "admin-1" {
		t.Errorf("unexpected record %+v", imp)
	}

	current := svc.Current("admin-1")
	if current == nil || current.ID != imp.ID {
		t.Fatalf("expected the active session, got %+v", current)
	}
}

func TestImpersonation_CannotTargetSuperAdmin(t *testing.T) {
	store := newMockAccountStore()
	store.users["admin-2"] = &domain.User{ID: "admin-2", Role: domain.RoleSuperAdmin}
	svc := newImpersonationService(store, cache.New[domain.Impersonation](time.Hour))

	_, err := svc.Start(context.Background(), "admin-1", "admin-2")
	var forbidden *domain.ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestImpersonation_UnknownTarget(t *testing.T) {
	svc := newImpersonationService(newMockAccountStore(), cache.New[domain.Impersonation](time.Hour))

	_, err := svc.Start(context.Background(), "admin-1", "ghost")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImpersonation_MidWindowSessionStillCurrent(t *testing.T) {
	// The session cache carries the full window as its TTL, same as the
	// wiring in main. A session well past any short general-purpose
	// cache default must still read as current.
	c := cache.New[domain.Impersonation](domain.ImpersonationWindow)
	c.Set("admin-1", domain.Impersonation{
		ID:           "imp-1",
		TargetUserID: "student-1",
		AdminUserID:  "admin-1",
		StartedAt:    time.Now().Add(-30 * time.Minute),
	})
	svc := newImpersonationService(newMockAccountStore(), c)

	current := svc.Current("admin-1")
	if current == nil || current.ID != "imp-1" {
		t.Fatalf("expected the session to remain current mid-window, got %+v", current)
	}
}

func TestImpersonation_LapsedWindowPurged(t *testing.T) {
	c := cache.New[domain.Impersonation](24 * time.Hour)
	// Cache TTL outlives the hard window; the window still wins.
	c.Set("admin-1", domain.Impersonation{
		ID:           "imp-1",
		TargetUserID: "student-1",
		AdminUserID:  "admin-1",
		StartedAt:    time.Now().Add(-3 * time.Hour),
	})
	svc := newImpersonationService(newMockAccountStore(), c)

	if current := svc.Current("admin-1"); current != nil {
		t.Fatalf("lapsed session should read as absent, got %+v", current)
	}
	if _, ok := c.Get("admin-1"); ok {
		t.Error("lapsed session should be purged from the cache")
	}
}

func TestImpersonation_StopIsIdempotent(t *testing.T) {
	store := newMockAccountStore()
	store.users["student-1"] = &domain.User{ID: "student-1", Role: domain.RoleUser}
	svc := newImpersonationService(store, cache.New[domain.Impersonation](time.Hour))

	if _, err := svc.Start(context.Background(), "admin-1", "student-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	svc.Stop("admin-1")
	if svc.Current("admin-1") != nil {
		t.Fatal("expected no session after stop")
	}
	svc.Stop("admin-1") // no-op
}
