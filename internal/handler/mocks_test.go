package handler_test

import (
	"context"

	"github.com/mhalvorsen/coachdesk/internal/domain"
)

// --- Stub stores for router tests ---

// stubAccountStore implements port.AccountStore with canned data. The
// router tests exercise routing, auth and role guards; the store just
// has to answer lookups.
type stubAccountStore struct {
	roles    []domain.BackendRole
	users    map[string]*domain.User
	creds    map[string]*domain.UserCredentials
	students map[string]*domain.StudentProfile
	coaches  map[string]*domain.CoachProfile
}

func newStubAccountStore() *stubAccountStore {
	return &stubAccountStore{
		roles: []domain.BackendRole{
			{ID: "role-admin", Name: "super_admin"},
			{ID: "role-manager", Name: "coach_manager"},
			{ID: "role-coach", Name: "Coaches"},
			{ID: "role-user", Name: "Students"},
		},
		users:    map[string]*domain.User{},
		creds:    map[string]*domain.UserCredentials{},
		students: map[string]*domain.StudentProfile{},
		coaches:  map[string]*domain.CoachProfile{},
	}
}

func (s *stubAccountStore) ListRoles(context.Context) ([]domain.BackendRole, error) {
	return s.roles, nil
}

func (s *stubAccountStore) ListUsers(context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	return users, nil
}

func (s *stubAccountStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return u, nil
}

func (s *stubAccountStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubAccountStore) GetUserCredentials(_ context.Context, email string) (*domain.UserCredentials, error) {
	c, ok := s.creds[email]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	return c, nil
}

func (s *stubAccountStore) CreateUser(_ context.Context, req *domain.CreateUserRequest, _, _ string) (*domain.User, error) {
	role, _ := domain.ParseRole(req.Role)
	u := &domain.User{ID: "user-new", Email: req.Email, Name: req.Name, Role: role}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubAccountStore) UpdateUser(_ context.Context, userID string, _ map[string]any) (*domain.User, error) {
	return s.GetUser(context.Background(), userID)
}

func (s *stubAccountStore) DeleteUser(_ context.Context, userID string) error {
	delete(s.users, userID)
	return nil
}

func (s *stubAccountStore) ListStudents(context.Context) ([]domain.StudentProfile, error) {
	students := make([]domain.StudentProfile, 0, len(s.students))
	for _, p := range s.students {
		students = append(students, *p)
	}
	return students, nil
}

func (s *stubAccountStore) ListStudentsByCoach(_ context.Context, coachID string) ([]domain.StudentProfile, error) {
	var students []domain.StudentProfile
	for _, p := range s.students {
		if p.CoachID == coachID {
			students = append(students, *p)
		}
	}
	return students, nil
}

func (s *stubAccountStore) GetStudent(_ context.Context, profileID string) (*domain.StudentProfile, error) {
	p, ok := s.students[profileID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "studentProfile", ID: profileID}
	}
	return p, nil
}

func (s *stubAccountStore) GetStudentByUserID(_ context.Context, userID string) (*domain.StudentProfile, error) {
	for _, p := range s.students {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubAccountStore) CreateStudentProfile(_ context.Context, userID string, _ *domain.StudentProfile) (*domain.StudentProfile, error) {
	p := &domain.StudentProfile{ID: "profile-new", UserID: userID}
	s.students[p.ID] = p
	return p, nil
}

func (s *stubAccountStore) UpdateStudent(_ context.Context, profileID string, _ map[string]any) (*domain.StudentProfile, error) {
	return s.GetStudent(context.Background(), profileID)
}

func (s *stubAccountStore) ConnectCoach(_ context.Context, profileID, coachID string) error {
	if p, ok := s.students[profileID]; ok {
		p.CoachID = coachID
	}
	return nil
}

func (s *stubAccountStore) DisconnectCoach(_ context.Context, profileID, _ string) error {
	if p, ok := s.students[profileID]; ok {
		p.CoachID = ""
	}
	return nil
}

func (s *stubAccountStore) DeleteStudentProfile(_ context.Context, profileID string) error {
	delete(s.students, profileID)
	return nil
}

func (s *stubAccountStore) ListCoaches(context.Context) ([]domain.CoachProfile, error) {
	coaches := make([]domain.CoachProfile, 0, len(s.coaches))
	for _, c := range s.coaches {
		coaches = append(coaches, *c)
	}
	return coaches, nil
}

func (s *stubAccountStore) GetCoachByUserID(_ context.Context, userID string) (*domain.CoachProfile, error) {
	for _, c := range s.coaches {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubAccountStore) CreateCoachProfile(_ context.Context, userID, name, email, _ string) (*domain.CoachProfile, error) {
	c := &domain.CoachProfile{ID: "coach-new", UserID: userID, Name: name, Email: email}
	s.coaches[c.ID] = c
	return c, nil
}

func (s *stubAccountStore) UpdateCoach(context.Context, string, map[string]any) error {
	return nil
}

func (s *stubAccountStore) DeleteCoachProfile(_ context.Context, profileID string) error {
	delete(s.coaches, profileID)
	return nil
}

// stubReportStore implements port.ReportStore.
type stubReportStore struct {
	reports []domain.WeeklyReport
}

func (s *stubReportStore) ListReports(_ context.Context, _ ...string) ([]domain.WeeklyReport, error) {
	return s.reports, nil
}

func (s *stubReportStore) ListAllReports(context.Context) ([]domain.WeeklyReport, error) {
	return s.reports, nil
}

func (s *stubReportStore) GetReport(_ context.Context, reportID string) (*domain.WeeklyReport, error) {
	for i := range s.reports {
		if s.reports[i].ID == reportID {
			return &s.reports[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "weeklyReport", ID: reportID}
}

func (s *stubReportStore) CreateReport(_ context.Context, req *domain.CreateReportRequest) (*domain.WeeklyReport, error) {
	r := domain.WeeklyReport{
		ID:         "report-new",
		WeekEnding: req.WeekEnding,
		Revenue:    req.Revenue,
		NetProfit:  domain.ComputeNetProfit(req.Revenue, req.Expenses, req.EditingCost),
		UserID:     req.UserID,
		StudentID:  req.StudentID,
	}
	s.reports = append(s.reports, r)
	return &r, nil
}

func (s *stubReportStore) UpdateReport(_ context.Context, reportID string, _ map[string]any) (*domain.WeeklyReport, error) {
	return s.GetReport(context.Background(), reportID)
}

func (s *stubReportStore) DeleteReport(context.Context, string) error {
	return nil
}

// stubCRMStore implements port.CRMStore. Only leads carry seeded data;
// the remaining record types answer with empty results.
type stubCRMStore struct {
	leads []domain.Lead
}

func (s *stubCRMStore) ListLeads(_ context.Context, ownerID string) ([]domain.Lead, error) {
	var leads []domain.Lead
	for _, l := range s.leads {
		if l.UserID == ownerID {
			leads = append(leads, l)
		}
	}
	return leads, nil
}

func (s *stubCRMStore) GetLead(_ context.Context, leadID string) (*domain.Lead, error) {
	for i := range s.leads {
		if s.leads[i].ID == leadID {
			return &s.leads[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "lead", ID: leadID}
}

func (s *stubCRMStore) CreateLead(_ context.Context, req *domain.CreateLeadRequest) (*domain.Lead, error) {
	l := domain.Lead{ID: "lead-new", Name: req.Name, Status: req.Status, UserID: req.UserID, Tags: []domain.EngagementTag{}}
	s.leads = append(s.leads, l)
	return &l, nil
}

func (s *stubCRMStore) UpdateLead(_ context.Context, leadID string, _ map[string]any) (*domain.Lead, error) {
	return s.GetLead(context.Background(), leadID)
}

func (s *stubCRMStore) DeleteLead(context.Context, string) error { return nil }

func (s *stubCRMStore) AddEngagementTag(_ context.Context, _, label string) (*domain.EngagementTag, error) {
	return &domain.EngagementTag{ID: "tag-new", Label: label}, nil
}

func (s *stubCRMStore) RemoveEngagementTag(context.Context, string) error { return nil }

func (s *stubCRMStore) ListGoals(context.Context, string) ([]domain.Goal, error) { return nil, nil }

func (s *stubCRMStore) CreateGoal(_ context.Context, _, _ string, g *domain.Goal) (*domain.Goal, error) {
	return g, nil
}

func (s *stubCRMStore) UpdateGoal(context.Context, string, map[string]any) (*domain.Goal, error) {
	return &domain.Goal{}, nil
}

func (s *stubCRMStore) DeleteGoal(context.Context, string) error { return nil }

func (s *stubCRMStore) ListNotes(context.Context, string) ([]domain.Note, error) { return nil, nil }

func (s *stubCRMStore) CreateNote(_ context.Context, _ string, n *domain.Note) (*domain.Note, error) {
	return n, nil
}

func (s *stubCRMStore) UpdateNote(context.Context, string, map[string]any) error { return nil }

func (s *stubCRMStore) DeleteNote(context.Context, string) error { return nil }

func (s *stubCRMStore) ListCallLogs(context.Context, string) ([]domain.CallLog, error) {
	return nil, nil
}

func (s *stubCRMStore) CreateCallLog(_ context.Context, c *domain.CallLog) (*domain.CallLog, error) {
	return c, nil
}

func (s *stubCRMStore) UpdateCallLog(context.Context, string, map[string]any) error { return nil }

func (s *stubCRMStore) DeleteCallLog(context.Context, string) error { return nil }

func (s *stubCRMStore) ListPricingPackages(context.Context, string) ([]domain.PricingPackage, error) {
	return nil, nil
}

func (s *stubCRMStore) CreatePricingPackage(_ context.Context, _ string, p *domain.PricingPackage) (*domain.PricingPackage, error) {
	return p, nil
}

func (s *stubCRMStore) UpdatePricingPackage(context.Context, string, map[string]any) error {
	return nil
}

func (s *stubCRMStore) DeletePricingPackage(context.Context, string) error { return nil }

func (s *stubCRMStore) ListProducts(context.Context, string) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCRMStore) CreateProduct(_ context.Context, _ string, p *domain.Product) (*domain.Product, error) {
	return p, nil
}

func (s *stubCRMStore) UpdateProduct(context.Context, string, map[string]any) error { return nil }

func (s *stubCRMStore) DeleteProduct(context.Context, string) error { return nil }

func (s *stubCRMStore) AddSubitem(_ context.Context, _ string, sub *domain.Subitem) (*domain.Subitem, error) {
	return sub, nil
}

func (s *stubCRMStore) RemoveSubitem(context.Context, string) error { return nil }

func (s *stubCRMStore) ListMessageTemplates(context.Context, string) ([]domain.MessageTemplate, error) {
	return nil, nil
}

func (s *stubCRMStore) CreateMessageTemplate(_ context.Context, _ string, t *domain.MessageTemplate) (*domain.MessageTemplate, error) {
	return t, nil
}

func (s *stubCRMStore) UpdateMessageTemplate(context.Context, string, map[string]any) error {
	return nil
}

func (s *stubCRMStore) DeleteMessageTemplate(context.Context, string) error { return nil }
