// Package service — CoachingService handles the coach-student
// assignment workflows, including the sequential bulk run.
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

var coachTracer = otel.Tracer("service/coaching")

// CoachingService orchestrates coach assignments. All writes target the
// student profile's coach relation; the user record is never touched.
type CoachingService struct {
	store   port.AccountStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCoachingService creates a new coaching service.
func NewCoachingService(store port.AccountStore, metrics *observability.Metrics, logger *zap.Logger) *CoachingService {
	return &CoachingService{store: store, metrics: metrics, logger: logger}
}

// Assign connects a coach to a student profile. Assigning the coach the
// student already has succeeds without complaint.
func (s *CoachingService) Assign(ctx context.Context, studentProfileID, coachProfileID string) error {
	ctx, span := coachTracer.Start(ctx, "CoachingService.Assign")
	defer span.End()
	span.SetAttributes(
		attribute.String("student.id", studentProfileID),
		attribute.String("coach.id", coachProfileID),
	)

	if err := s.store.ConnectCoach(ctx, studentProfileID, coachProfileID); err != nil {
		return fmt.Errorf("assign coach: %w", err)
	}

	s.logger.Info("coach assigned",
		zap.String("student_profile_id", studentProfileID),
		zap.String("coach_profile_id", coachProfileID),
	)
	return nil
}

// Unassign removes the student's current coach. A student with no coach
// is a no-op, not an error — the end state is what was asked for.
func (s *CoachingService) Unassign(ctx context.Context, studentProfileID string) error {
	ctx, span := coachTracer.Start(ctx, "CoachingService.Unassign")
	defer span.End()

	profile, err := s.store.GetStudent(ctx, studentProfileID)
	if err != nil {
		return err
	}
	if profile.CoachID == "" {
		s.logger.Debug("unassign: student has no coach",
			zap.String("student_profile_id", studentProfileID),
		)
		return nil
	}

	if err := s.store.DisconnectCoach(ctx, studentProfileID, profile.CoachID); err != nil {
		return fmt.Errorf("unassign coach: %w", err)
	}

	s.logger.Info("coach unassigned",
		zap.String("student_profile_id", studentProfileID),
		zap.String("coach_profile_id", profile.CoachID),
	)
	return nil
}

// BulkAssignOptions tune a bulk run. Progress, when set, is called
// after every item with the running counts.
type BulkAssignOptions struct {
	StopOnError bool
	Progress    func(done, total int, item domain.BulkAssignItem)
}

// BulkAssign assigns one coach to many students sequentially — the
// backend rate-limits bursty mutation traffic, so items go one at a
// time in the order given. Each item fails independently; by default a
// failure does not stop the run. The summary reports a success rate in
// percent over the items actually attempted — a run stopped early never
// counts the skipped remainder as successes.
func (s *CoachingService) BulkAssign(ctx context.Context, studentProfileIDs []string, coachProfileID string, opts BulkAssignOptions) (*domain.BulkAssignResult, error) {
	ctx, span := coachTracer.Start(ctx, "CoachingService.BulkAssign")
	defer span.End()
	span.SetAttributes(
		attribute.Int("students.count", len(studentProfileIDs)),
		attribute.String("coach.id", coachProfileID),
	)

	if len(studentProfileIDs) == 0 {
		return nil, &domain.ErrValidation{Field: "student_ids", Message: "at least one student required"}
	}

	result := &domain.BulkAssignResult{
		Total: len(studentProfileIDs),
		Items: make([]domain.BulkAssignItem, 0, len(studentProfileIDs)),
	}

	for i, studentID := range studentProfileIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := domain.BulkAssignItem{StudentID: studentID, OK: true}
		if err := s.store.ConnectCoach(ctx, studentID, coachProfileID); err != nil {
			item.OK = false
			item.Error = err.Error()
			result.Failed++
			s.metrics.IncrBulkAssign("failed")
			s.logger.Warn("bulk assign item failed",
				zap.String("student_profile_id", studentID),
				zap.String("coach_profile_id", coachProfileID),
				zap.Error(err),
			)
		} else {
			result.Succeeded++
			s.metrics.IncrBulkAssign("ok")
		}
		result.Items = append(result.Items, item)

		if opts.Progress != nil {
			opts.Progress(i+1, result.Total, item)
		}
		if !item.OK && opts.StopOnError {
			break
		}
	}

	result.SuccessRate = float64(result.Succeeded) / float64(len(result.Items)) * 100

	s.logger.Info("bulk assign finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Float64("success_rate", result.SuccessRate),
	)
	return result, nil
}
