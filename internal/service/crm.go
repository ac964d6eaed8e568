// Package service — CRMService handles the student-facing business
// records: leads, goals, notes, call logs, pricing, products and
// message templates.
package service

import (
	"context"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var crmTracer = otel.Tracer("service/crm")

// CRMService orchestrates lead-pipeline and business-record operations.
// Mostly a thin pass-through over the store; validation and ownership
// resolution live here.
type CRMService struct {
	store    port.CRMStore
	accounts port.AccountStore
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewCRMService creates a new CRM service.
func NewCRMService(store port.CRMStore, accounts port.AccountStore, metrics *observability.Metrics, logger *zap.Logger) *CRMService {
	return &CRMService{store: store, accounts: accounts, metrics: metrics, logger: logger}
}

// ============================================================
// Leads
// ============================================================

func (s *CRMService) ListLeads(ctx context.Context, ownerID string) ([]domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListLeads")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", ownerID))

	return s.store.ListLeads(ctx, ownerID)
}

func (s *CRMService) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.GetLead")
	defer span.End()

	return s.store.GetLead(ctx, leadID)
}

func (s *CRMService) CreateLead(ctx context.Context, req *domain.CreateLeadRequest) (*domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateLead")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "lead name required"}
	}

	lead, err := s.store.CreateLead(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID),
		zap.String("user_id", req.UserID),
		zap.Bool("with_script", req.Script != nil),
	)
	return lead, nil
}

func (s *CRMService) UpdateLead(ctx context.Context, leadID string, fields map[string]any) (*domain.Lead, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateLead")
	defer span.End()

	return s.store.UpdateLead(ctx, leadID, fields)
}

func (s *CRMService) DeleteLead(ctx context.Context, leadID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteLead")
	defer span.End()

	return s.store.DeleteLead(ctx, leadID)
}

func (s *CRMService) TagLead(ctx context.Context, leadID, label string) (*domain.EngagementTag, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.TagLead")
	defer span.End()

	if label == "" {
		return nil, &domain.ErrValidation{Field: "label", Message: "tag label required"}
	}
	return s.store.AddEngagementTag(ctx, leadID, label)
}

func (s *CRMService) UntagLead(ctx context.Context, tagID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UntagLead")
	defer span.End()

	return s.store.RemoveEngagementTag(ctx, tagID)
}

// ============================================================
// Goals
// ============================================================

func (s *CRMService) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListGoals")
	defer span.End()

	return s.store.ListGoals(ctx, ownerID)
}

// CreateGoal creates a goal for a user, linking the student profile
// when one exists.
func (s *CRMService) CreateGoal(ctx context.Context, userID string, g *domain.Goal) (*domain.Goal, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateGoal")
	defer span.End()

	if g.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "goal title required"}
	}
	if g.Type == "" {
		g.Type = domain.GoalTypeOther
	}

	studentID := ""
	if profile, err := s.accounts.GetStudentByUserID(ctx, userID); err == nil && profile != nil {
		studentID = profile.ID
	}
	return s.store.CreateGoal(ctx, userID, studentID, g)
}

func (s *CRMService) UpdateGoal(ctx context.Context, goalID string, fields map[string]any) (*domain.Goal, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateGoal")
	defer span.End()

	return s.store.UpdateGoal(ctx, goalID, fields)
}

func (s *CRMService) DeleteGoal(ctx context.Context, goalID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteGoal")
	defer span.End()

	return s.store.DeleteGoal(ctx, goalID)
}

// ============================================================
// Notes
// ============================================================

func (s *CRMService) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListNotes")
	defer span.End()

	return s.store.ListNotes(ctx, ownerID)
}

func (s *CRMService) CreateNote(ctx context.Context, userID string, n *domain.Note) (*domain.Note, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateNote")
	defer span.End()

	if n.Content == "" {
		return nil, &domain.ErrValidation{Field: "content", Message: "note content required"}
	}
	return s.store.CreateNote(ctx, userID, n)
}

func (s *CRMService) UpdateNote(ctx context.Context, noteID string, fields map[string]any) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateNote")
	defer span.End()

	return s.store.UpdateNote(ctx, noteID, fields)
}

func (s *CRMService) DeleteNote(ctx context.Context, noteID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteNote")
	defer span.End()

	return s.store.DeleteNote(ctx, noteID)
}

// ============================================================
// Call logs
// ============================================================

func (s *CRMService) ListCallLogs(ctx context.Context, studentID string) ([]domain.CallLog, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListCallLogs")
	defer span.End()

	return s.store.ListCallLogs(ctx, studentID)
}

func (s *CRMService) CreateCallLog(ctx context.Context, c *domain.CallLog) (*domain.CallLog, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateCallLog")
	defer span.End()

	if c.StudentID == "" {
		return nil, &domain.ErrValidation{Field: "student_id", Message: "student profile id required"}
	}
	if c.CallDate == "" {
		return nil, &domain.ErrValidation{Field: "call_date", Message: "call date required"}
	}
	return s.store.CreateCallLog(ctx, c)
}

func (s *CRMService) UpdateCallLog(ctx context.Context, callLogID string, fields map[string]any) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateCallLog")
	defer span.End()

	return s.store.UpdateCallLog(ctx, callLogID, fields)
}

func (s *CRMService) DeleteCallLog(ctx context.Context, callLogID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteCallLog")
	defer span.End()

	return s.store.DeleteCallLog(ctx, callLogID)
}

// ============================================================
// Pricing packages
// ============================================================

func (s *CRMService) ListPricingPackages(ctx context.Context, ownerID string) ([]domain.PricingPackage, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListPricingPackages")
	defer span.End()

	return s.store.ListPricingPackages(ctx, ownerID)
}

func (s *CRMService) CreatePricingPackage(ctx context.Context, userID string, p *domain.PricingPackage) (*domain.PricingPackage, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreatePricingPackage")
	defer span.End()

	if p.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "package name required"}
	}
	if p.Price < 0 {
		return nil, &domain.ErrValidation{Field: "price", Message: "price must not be negative"}
	}
	return s.store.CreatePricingPackage(ctx, userID, p)
}

func (s *CRMService) UpdatePricingPackage(ctx context.Context, packageID string, fields map[string]any) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdatePricingPackage")
	defer span.End()

	return s.store.UpdatePricingPackage(ctx, packageID, fields)
}

func (s *CRMService) DeletePricingPackage(ctx context.Context, packageID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeletePricingPackage")
	defer span.End()

	return s.store.DeletePricingPackage(ctx, packageID)
}

// ============================================================
// Products
// ============================================================

func (s *CRMService) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListProducts")
	defer span.End()

	return s.store.ListProducts(ctx, ownerID)
}

func (s *CRMService) CreateProduct(ctx context.Context, userID string, p *domain.Product) (*domain.Product, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateProduct")
	defer span.End()

	if p.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "product name required"}
	}
	return s.store.CreateProduct(ctx, userID, p)
}

func (s *CRMService) UpdateProduct(ctx context.Context, productID string, fields map[string]any) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateProduct")
	defer span.End()

	return s.store.UpdateProduct(ctx, productID, fields)
}

func (s *CRMService) DeleteProduct(ctx context.Context, productID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteProduct")
	defer span.End()

	return s.store.DeleteProduct(ctx, productID)
}

func (s *CRMService) AddSubitem(ctx context.Context, productID string, sub *domain.Subitem) (*domain.Subitem, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.AddSubitem")
	defer span.End()

	if sub.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "subitem name required"}
	}
	return s.store.AddSubitem(ctx, productID, sub)
}

func (s *CRMService) RemoveSubitem(ctx context.Context, subitemID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.RemoveSubitem")
	defer span.End()

	return s.store.RemoveSubitem(ctx, subitemID)
}

// ============================================================
// Message templates
// ============================================================

func (s *CRMService) ListMessageTemplates(ctx context.Context, ownerID string) ([]domain.MessageTemplate, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.ListMessageTemplates")
	defer span.End()

	return s.store.ListMessageTemplates(ctx, ownerID)
}

func (s *CRMService) CreateMessageTemplate(ctx context.Context, userID string, t *domain.MessageTemplate) (*domain.MessageTemplate, error) {
	ctx, span := crmTracer.Start(ctx, "CRMService.CreateMessageTemplate")
	defer span.End()

	if t.Name == "" || t.Body == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "template name and body required"}
	}
	return s.store.CreateMessageTemplate(ctx, userID, t)
}

func (s *CRMService) UpdateMessageTemplate(ctx context.Context, templateID string, fields map[string]any) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.UpdateMessageTemplate")
	defer span.End()

	return s.store.UpdateMessageTemplate(ctx, templateID, fields)
}

func (s *CRMService) DeleteMessageTemplate(ctx context.Context, templateID string) error {
	ctx, span := crmTracer.Start(ctx, "CRMService.DeleteMessageTemplate")
	defer span.End()

	return s.store.DeleteMessageTemplate(ctx, templateID)
}
