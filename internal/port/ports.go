// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/mhalvorsen/coachdesk/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// AccountStore defines the user, role and profile operations against
// the graph backend.
type AccountStore interface {
	// Roles
	ListRoles(ctx context.Context) ([]domain.BackendRole, error)

	// Users
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserCredentials(ctx context.Context, email string) (*domain.UserCredentials, error)
	CreateUser(ctx context.Context, req *domain.CreateUserRequest, roleID, passwordHash string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, fields map[string]any) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// Student profiles
	ListStudents(ctx context.Context) ([]domain.StudentProfile, error)
	ListStudentsByCoach(ctx context.Context, coachID string) ([]domain.StudentProfile, error)
	GetStudent(ctx context.Context, profileID string) (*domain.StudentProfile, error)
	GetStudentByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error)
	CreateStudentProfile(ctx context.Context, userID string, seed *domain.StudentProfile) (*domain.StudentProfile, error)
	UpdateStudent(ctx context.Context, profileID string, fields map[string]any) (*domain.StudentProfile, error)
	ConnectCoach(ctx context.Context, profileID, coachID string) error
	DisconnectCoach(ctx context.Context, profileID, coachID string) error
	DeleteStudentProfile(ctx context.Context, profileID string) error

	// Coach profiles
	ListCoaches(ctx context.Context) ([]domain.CoachProfile, error)
	GetCoachByUserID(ctx context.Context, userID string) (*domain.CoachProfile, error)
	CreateCoachProfile(ctx context.Context, userID, name, email, bio string) (*domain.CoachProfile, error)
	UpdateCoach(ctx context.Context, profileID string, fields map[string]any) error
	DeleteCoachProfile(ctx context.Context, profileID string) error
}

// ReportStore defines the weekly-report operations.
type ReportStore interface {
	ListReports(ctx context.Context, ownerIDs ...string) ([]domain.WeeklyReport, error)
	ListAllReports(ctx context.Context) ([]domain.WeeklyReport, error)
	GetReport(ctx context.Context, reportID string) (*domain.WeeklyReport, error)
	CreateReport(ctx context.Context, req *domain.CreateReportRequest) (*domain.WeeklyReport, error)
	UpdateReport(ctx context.Context, reportID string, fields map[string]any) (*domain.WeeklyReport, error)
	DeleteReport(ctx context.Context, reportID string) error
}

// CRMStore defines the lead and flat-record operations.
type CRMStore interface {
	// Leads
	ListLeads(ctx context.Context, ownerID string) ([]domain.Lead, error)
	GetLead(ctx context.Context, leadID string) (*domain.Lead, error)
	CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (*domain.Lead, error)
	UpdateLead(ctx context.Context, leadID string, fields map[string]any) (*domain.Lead, error)
	DeleteLead(ctx context.Context, leadID string) error
	AddEngagementTag(ctx context.Context, leadID, label string) (*domain.EngagementTag, error)
	RemoveEngagementTag(ctx context.Context, tagID string) error

	// Goals
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, userID, studentID string, g *domain.Goal) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, goalID string, fields map[string]any) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, goalID string) error

	// Notes
	ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error)
	CreateNote(ctx context.Context, userID string, n *domain.Note) (*domain.Note, error)
	UpdateNote(ctx context.Context, noteID string, fields map[string]any) error
	DeleteNote(ctx context.Context, noteID string) error

	// Call logs
	ListCallLogs(ctx context.Context, studentID string) ([]domain.CallLog, error)
	CreateCallLog(ctx context.Context, c *domain.CallLog) (*domain.CallLog, error)
	UpdateCallLog(ctx context.Context, callLogID string, fields map[string]any) error
	DeleteCallLog(ctx context.Context, callLogID string) error

	// Pricing packages
	ListPricingPackages(ctx context.Context, ownerID string) ([]domain.PricingPackage, error)
	CreatePricingPackage(ctx context.Context, userID string, p *domain.PricingPackage) (*domain.PricingPackage, error)
	UpdatePricingPackage(ctx context.Context, packageID string, fields map[string]any) error
	DeletePricingPackage(ctx context.Context, packageID string) error

	// Products
	ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, userID string, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, fields map[string]any) error
	DeleteProduct(ctx context.Context, productID string) error
	AddSubitem(ctx context.Context, productID string, sub *domain.Subitem) (*domain.Subitem, error)
	RemoveSubitem(ctx context.Context, subitemID string) error

	// Message templates
	ListMessageTemplates(ctx context.Context, ownerID string) ([]domain.MessageTemplate, error)
	CreateMessageTemplate(ctx context.Context, userID string, t *domain.MessageTemplate) (*domain.MessageTemplate, error)
	UpdateMessageTemplate(ctx context.Context, templateID string, fields map[string]any) error
	DeleteMessageTemplate(ctx context.Context, templateID string) error
}
