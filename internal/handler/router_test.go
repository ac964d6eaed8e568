package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/export"
	"github.com/mhalvorsen/coachdesk/internal/handler"
	"github.com/mhalvorsen/coachdesk/internal/infra/activity"
	"github.com/mhalvorsen/coachdesk/internal/infra/cache"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"go.uber.org/zap"
)

type testEnv struct {
	router   http.Handler
	accounts *stubAccountStore
	reports  *stubReportStore
	crm      *stubCRMStore
}

// newTestEnv wires the full router against stub stores with one user
// per role, all sharing the password "correct-horse".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	accounts := newStubAccountStore()
	reports := &stubReportStore{}
	crm := &stubCRMStore{}

	hash, err := service.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	seed := []struct {
		id, email string
		role      domain.Role
	}{
		{"user-1", "student@example.com", domain.RoleUser},
		{"user-2", "coach@example.com", domain.RoleCoach},
		{"user-3", "admin@example.com", domain.RoleSuperAdmin},
		{"user-4", "manager@example.com", domain.RoleCoachManager},
	}
	for _, u := range seed {
		accounts.users[u.id] = &domain.User{ID: u.id, Email: u.email, Role: u.role}
		accounts.creds[u.email] = &domain.UserCredentials{UserID: u.id, Email: u.email, PasswordHash: hash}
	}
	accounts.coaches["coach-2"] = &domain.CoachProfile{ID: "coach-2", UserID: "user-2", Email: "coach@example.com"}

	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	svcs := handler.Services{
		Auth:          service.NewAuthService(accounts, "test-secret", time.Hour, logger),
		Accounts:      service.NewAccountService(accounts, metrics, logger),
		Coaching:      service.NewCoachingService(accounts, metrics, logger),
		Reports:       service.NewReportService(reports, accounts, metrics, logger),
		CRM:           service.NewCRMService(crm, accounts, metrics, logger),
		Activity:      service.NewActivityService(activity.NewLog(), reports, crm, accounts, metrics, logger),
		Impersonation: service.NewImpersonationService(accounts, cache.New[domain.Impersonation](time.Hour), metrics, logger),
		Exporter:      export.NewReportExporter(2, logger),
	}

	return &testEnv{
		router:   handler.NewRouter(svcs, metrics, "*", logger),
		accounts: accounts,
		reports:  reports,
		crm:      crm,
	}
}

// login authenticates against the router and returns the access token.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login for %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func (e *testEnv) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/v1/me", "not-a-real-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with a garbage token, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "student@example.com")

	rec := env.do(http.MethodGet, "/v1/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID != "user-1" {
		t.Errorf("expected the caller's record, got %+v", resp.User)
	}
}

func TestRoleGuards(t *testing.T) {
	env := newTestEnv(t)
	student := env.login(t, "student@example.com")
	coach := env.login(t, "coach@example.com")
	admin := env.login(t, "admin@example.com")

	cases := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{"student cannot list students", student, http.MethodGet, "/v1/students", http.StatusForbidden},
		{"coach can list students", coach, http.MethodGet, "/v1/students", http.StatusOK},
		{"coach cannot list coaches", coach, http.MethodGet, "/v1/coaches", http.StatusForbidden},
		{"admin can list coaches", admin, http.MethodGet, "/v1/coaches", http.StatusOK},
		{"coach cannot list users", coach, http.MethodGet, "/v1/users", http.StatusForbidden},
		{"admin can list users", admin, http.MethodGet, "/v1/users", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(tc.method, tc.path, tc.token, nil)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListLeads_ScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	env.crm.leads = []domain.Lead{
		{ID: "lead-1", Name: "Own lead", UserID: "user-1"},
		{ID: "lead-2", Name: "Someone else's", UserID: "user-9"},
	}
	token := env.login(t, "student@example.com")

	rec := env.do(http.MethodGet, "/v1/leads", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var leads []domain.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &leads); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "lead-1" {
		t.Errorf("expected only the caller's lead, got %+v", leads)
	}
}

func TestCreateReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "student@example.com")

	body, _ := json.Marshal(map[string]any{
		"week_ending":  "2025-06-14",
		"revenue":      2500.50,
		"expenses":     300.25,
		"editing_cost": 150.00,
	})
	rec := env.do(http.MethodPost, "/v1/reports", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.WeeklyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.NetProfit != 2050.25 {
		t.Errorf("expected recomputed net profit 2050.25, got %v", report.NetProfit)
	}
	if report.UserID != "user-1" {
		t.Errorf("expected the report owned by the caller, got %q", report.UserID)
	}
}

func TestImpersonationFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "admin@example.com")

	rec := env.do(http.MethodPost, "/v1/impersonation/user-1", admin, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// /me now answers as the target, with the session attached.
	rec = env.do(http.MethodGet, "/v1/me", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		User          *domain.User          `json:"user"`
		Impersonation *domain.Impersonation `json:"impersonation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID != "user-1" {
		t.Errorf("expected the target's record, got %+v", resp.User)
	}
	if resp.Impersonation == nil || resp.Impersonation.TargetUserID != "user-1" {
		t.Errorf("expected the active session attached, got %+v", resp.Impersonation)
	}

	rec = env.do(http.MethodDelete, "/v1/impersonation", admin, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/v1/me", admin, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID != "user-3" {
		t.Errorf("expected the admin's own record after stop, got %+v", resp.User)
	}
}

func TestImpersonation_CoachForbidden(t *testing.T) {
	env := newTestEnv(t)
	coach := env.login(t, "coach@example.com")

	rec := env.do(http.MethodPost, "/v1/impersonation/user-1", coach, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestImpersonation_ManagerAllowed(t *testing.T) {
	env := newTestEnv(t)
	manager := env.login(t, "manager@example.com")

	rec := env.do(http.MethodPost, "/v1/impersonation/user-1", manager, nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestExportReports(t *testing.T) {
	env := newTestEnv(t)
	env.reports.reports = []domain.WeeklyReport{
		{ID: "r-1", WeekEnding: "2025-06-07", Revenue: 1000, NetProfit: 700, UserID: "user-1"},
	}
	token := env.login(t, "student@example.com")

	rec := env.do(http.MethodGet, "/v1/reports/export", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected workbook bytes in the response")
	}
}
