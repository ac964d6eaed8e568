package service_test

import (
	"context"
	"errors"

	"github.com/mhalvorsen/coachdesk/internal/domain"
)

// --- Mocks ---

// mockAccountStore implements port.AccountStore with canned data and
// optional per-method overrides. Calls the tests care about are
// recorded.
type mockAccountStore struct {
	roles    []domain.BackendRole
	users    map[string]*domain.User
	creds    map[string]*domain.UserCredentials
	students map[string]*domain.StudentProfile
	coaches  map[string]*domain.CoachProfile

	connectCoachFn         func(profileID, coachID string) error
	createStudentProfileFn func(userID string) (*domain.StudentProfile, error)
	createCoachProfileFn   func(userID string) (*domain.CoachProfile, error)

	connectCalls    [][2]string
	disconnectCalls [][2]string
	deletedUsers    []string
	deletedStudents []string
	deletedCoaches  []string
	createdUsers    []*domain.CreateUserRequest
	updatedFields   map[string]any
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
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

func (m *mockAccountStore) ListRoles(context.Context) ([]domain.BackendRole, error) {
	return m.roles, nil
}

func (m *mockAccountStore) ListUsers(context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockAccountStore) GetUser(_ context.Context, userID string) (*domain.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return u, nil
}

func (m *mockAccountStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockAccountStore) GetUserCredentials(_ context.Context, email string) (*domain.UserCredentials, error) {
	c, ok := m.creds[email]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: email}
	}
	return c, nil
}

func (m *mockAccountStore) CreateUser(_ context.Context, req *domain.CreateUserRequest, roleID, _ string) (*domain.User, error) {
	m.createdUsers = append(m.createdUsers, req)
	role, _ := domain.ParseRole(req.Role)
	u := &domain.User{ID: "user-new", Email: req.Email, Name: req.Name, Role: role}
	m.users[u.ID] = u
	_ = roleID
	return u, nil
}

func (m *mockAccountStore) UpdateUser(_ context.Context, userID string, fields map[string]any) (*domain.User, error) {
	m.updatedFields = fields
	u, ok := m.users[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return u, nil
}

func (m *mockAccountStore) DeleteUser(_ context.Context, userID string) error {
	m.deletedUsers = append(m.deletedUsers, userID)
	return nil
}

func (m *mockAccountStore) ListStudents(context.Context) ([]domain.StudentProfile, error) {
	students := make([]domain.StudentProfile, 0, len(m.students))
	for _, p := range m.students {
		students = append(students, *p)
	}
	return students, nil
}

func (m *mockAccountStore) ListStudentsByCoach(_ context.Context, coachID string) ([]domain.StudentProfile, error) {
	var students []domain.StudentProfile
	for _, p := range m.students {
		if p.CoachID == coachID {
			students = append(students, *p)
		}
	}
	return students, nil
}

func (m *mockAccountStore) GetStudent(_ context.Context, profileID string) (*domain.StudentProfile, error) {
	p, ok := m.students[profileID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "studentProfile", ID: profileID}
	}
	return p, nil
}

func (m *mockAccountStore) GetStudentByUserID(_ context.Context, userID string) (*domain.StudentProfile, error) {
	for _, p := range m.students {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockAccountStore) CreateStudentProfile(_ context.Context, userID string, _ *domain.StudentProfile) (*domain.StudentProfile, error) {
	if m.createStudentProfileFn != nil {
		return m.createStudentProfileFn(userID)
	}
	p := &domain.StudentProfile{ID: "profile-new", UserID: userID}
	m.students[p.ID] = p
	return p, nil
}

func (m *mockAccountStore) UpdateStudent(_ context.Context, profileID string, _ map[string]any) (*domain.StudentProfile, error) {
	return m.GetStudent(context.Background(), profileID)
}

func (m *mockAccountStore) ConnectCoach(_ context.Context, profileID, coachID string) error {
	m.connectCalls = append(m.connectCalls, [2]string{profileID, coachID})
	if m.connectCoachFn != nil {
		return m.connectCoachFn(profileID, coachID)
	}
	return nil
}

func (m *mockAccountStore) DisconnectCoach(_ context.Context, profileID, coachID string) error {
	m.disconnectCalls = append(m.disconnectCalls, [2]string{profileID, coachID})
	return nil
}

func (m *mockAccountStore) DeleteStudentProfile(_ context.Context, profileID string) error {
	m.deletedStudents = append(m.deletedStudents, profileID)
	return nil
}

func (m *mockAccountStore) ListCoaches(context.Context) ([]domain.CoachProfile, error) {
	coaches := make([]domain.CoachProfile, 0, len(m.coaches))
	for _, c := range m.coaches {
		coaches = append(coaches, *c)
	}
	return coaches, nil
}

func (m *mockAccountStore) GetCoachByUserID(_ context.Context, userID string) (*domain.CoachProfile, error) {
	for _, c := range m.coaches {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockAccountStore) CreateCoachProfile(_ context.Context, userID, name, email, _ string) (*domain.CoachProfile, error) {
	if m.createCoachProfileFn != nil {
		return m.createCoachProfileFn(userID)
	}
	c := &domain.CoachProfile{ID: "coach-new", UserID: userID, Name: name, Email: email}
	m.coaches[c.ID] = c
	return c, nil
}

func (m *mockAccountStore) UpdateCoach(context.Context, string, map[string]any) error {
	return nil
}

func (m *mockAccountStore) DeleteCoachProfile(_ context.Context, profileID string) error {
	m.deletedCoaches = append(m.deletedCoaches, profileID)
	return nil
}

// mockReportStore implements port.ReportStore.
type mockReportStore struct {
	reports []domain.WeeklyReport

	listOwnerIDs  []string
	createdReq    *domain.CreateReportRequest
	updatedFields map[string]any
}

func (m *mockReportStore) ListReports(_ context.Context, ownerIDs ...string) ([]domain.WeeklyReport, error) {
	m.listOwnerIDs = ownerIDs
	return m.reports, nil
}

func (m *mockReportStore) ListAllReports(context.Context) ([]domain.WeeklyReport, error) {
	return m.reports, nil
}

func (m *mockReportStore) GetReport(_ context.Context, reportID string) (*domain.WeeklyReport, error) {
	for i := range m.reports {
		if m.reports[i].ID == reportID {
			return &m.reports[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "weeklyReport", ID: reportID}
}

func (m *mockReportStore) CreateReport(_ context.Context, req *domain.CreateReportRequest) (*domain.WeeklyReport, error) {
	m.createdReq = req
	return &domain.WeeklyReport{
		ID:         "report-new",
		WeekEnding: req.WeekEnding,
		Revenue:    req.Revenue,
		NetProfit:  domain.ComputeNetProfit(req.Revenue, req.Expenses, req.EditingCost),
		UserID:     req.UserID,
		StudentID:  req.StudentID,
	}, nil
}

func (m *mockReportStore) UpdateReport(_ context.Context, reportID string, fields map[string]any) (*domain.WeeklyReport, error) {
	m.updatedFields = fields
	return m.GetReport(context.Background(), reportID)
}

func (m *mockReportStore) DeleteReport(context.Context, string) error {
	return nil
}

// errConnect is a reusable failure for coach-connection tests.
var errConnect = errors.New("mutation rejected")
