// Package service — ReportService handles weekly business reports.
package service

import (
	"context"
	"fmt"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var reportTracer = otel.Tracer("service/reports")

// ReportService orchestrates weekly-report operations. Owner-scoped
// reads hand the store every id the owner is known by, because records
// of different ages link through different fields.
type ReportService struct {
	reports  port.ReportStore
	accounts port.AccountStore
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(reports port.ReportStore, accounts port.AccountStore, metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	return &ReportService{reports: reports, accounts: accounts, metrics: metrics, logger: logger}
}

// ListForUser fetches the reports owned by one user, matching by user
// id and, when a student profile exists, the profile id too.
func (s *ReportService) ListForUser(ctx context.Context, userID string) ([]domain.WeeklyReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ListForUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	ownerIDs := []string{userID}
	if profile, err := s.accounts.GetStudentByUserID(ctx, userID); err == nil && profile != nil {
		ownerIDs = append(ownerIDs, profile.ID)
	}

	return s.reports.ListReports(ctx, ownerIDs...)
}

// ListAll fetches every report, for admin views and exports.
func (s *ReportService) ListAll(ctx context.Context) ([]domain.WeeklyReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ListAll")
	defer span.End()

	return s.reports.ListAllReports(ctx)
}

func (s *ReportService) Get(ctx context.Context, reportID string) (*domain.WeeklyReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Get")
	defer span.End()

	return s.reports.GetReport(ctx, reportID)
}

// Create validates and creates a weekly report. The student connection
// is resolved from the owner's profile when one exists; when it does
// not, the report links to the user only.
func (s *ReportService) Create(ctx context.Context, req *domain.CreateReportRequest) (*domain.WeeklyReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Create")
	defer span.End()

	if req.WeekEnding == "" {
		return nil, &domain.ErrValidation{Field: "week_ending", Message: "week ending date required"}
	}
	if req.Revenue < 0 || req.Expenses < 0 || req.EditingCost < 0 {
		return nil, &domain.ErrValidation{Field: "revenue", Message: "money figures must not be negative"}
	}

	if req.StudentID == "" {
		if profile, err := s.accounts.GetStudentByUserID(ctx, req.UserID); err == nil && profile != nil {
			req.StudentID = profile.ID
		}
	}

	report, err := s.reports.CreateReport(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("weekly report created",
		zap.String("report_id", report.ID),
		zap.String("user_id", req.UserID),
		zap.String("week_ending", report.WeekEnding),
		zap.Float64("net_profit", report.NetProfit),
	)
	return report, nil
}

// Update patches report fields. Touching any money figure triggers a
// net-profit recompute from the full post-update figures, so the stored
// value can never drift from its components.
func (s *ReportService) Update(ctx context.Context, reportID string, fields map[string]any) (*domain.WeeklyReport, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Update")
	defer span.End()

	delete(fields, "netProfit")
	delete(fields, "net_profit")

	if touchesMoney(fields) {
		current, err := s.reports.GetReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		revenue := floatField(fields, "revenue", current.Revenue)
		expenses := floatField(fields, "expenses", current.Expenses)
		editing := floatField(fields, "editingCost", current.EditingCost)
		fields["netProfit"] = domain.ComputeNetProfit(revenue, expenses, editing)
	}

	return s.reports.UpdateReport(ctx, reportID, fields)
}

func (s *ReportService) Delete(ctx context.Context, reportID string) error {
	ctx, span := reportTracer.Start(ctx, "ReportService.Delete")
	defer span.End()

	if err := s.reports.DeleteReport(ctx, reportID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	s.logger.Info("weekly report deleted", zap.String("report_id", reportID))
	return nil
}

func touchesMoney(fields map[string]any) bool {
	for _, k := range []string{"revenue", "expenses", "editingCost"} {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

// floatField reads a numeric field from a JSON-decoded patch, falling
// back to the current value when absent.
func floatField(fields map[string]any, key string, current float64) float64 {
	v, ok := fields[key]
	if !ok {
		return current
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return current
	}
}
