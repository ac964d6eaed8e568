// Package service — ActivityService keeps the per-user activity log
// and derives staleness summaries and notification nudges.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/activity"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var activityTracer = otel.Tracer("service/activity")

// Staleness thresholds for derived nudges.
const (
	reportNudgeAfter = 10 * 24 * time.Hour
	leadNudgeAfter   = 7 * 24 * time.Hour
)

// ActivityService tracks what a student has been doing and surfaces
// gaps. The log is process-local and advisory; summaries are derived
// from the backend records on every call.
type ActivityService struct {
	log      *activity.Log
	reports  port.ReportStore
	crm      port.CRMStore
	accounts port.AccountStore
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewActivityService creates a new activity service.
func NewActivityService(log *activity.Log, reports port.ReportStore, crm port.CRMStore, accounts port.AccountStore, metrics *observability.Metrics, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		log:      log,
		reports:  reports,
		crm:      crm,
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Record appends an entry to a user's activity log.
func (s *ActivityService) Record(userID, kind, message string) {
	s.log.Append(userID, domain.ActivityEntry{
		At:      s.now(),
		Kind:    kind,
		Message: message,
	})
	s.metrics.IncrActivityEntry()
}

// Entries returns a user's activity log, oldest first.
func (s *ActivityService) Entries(userID string) []domain.ActivityEntry {
	return s.log.Entries(userID)
}

// Summary derives data staleness for a user: days since the last
// weekly report and the last lead, -1 when no record of the kind
// exists. The two reads run concurrently.
func (s *ActivityService) Summary(ctx context.Context, userID string) (*domain.ActivitySummary, error) {
	ctx, span := activityTracer.Start(ctx, "ActivityService.Summary")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	ownerIDs := []string{userID}
	if profile, err := s.accounts.GetStudentByUserID(ctx, userID); err == nil && profile != nil {
		ownerIDs = append(ownerIDs, profile.ID)
	}

	summary := &domain.ActivitySummary{
		DaysSinceLastReport: -1,
		DaysSinceLastLead:   -1,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reports, err := s.reports.ListReports(gctx, ownerIDs...)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		summary.DaysSinceLastReport = s.daysSinceNewest(reportDates(reports))
		return nil
	})
	g.Go(func() error {
		leads, err := s.crm.ListLeads(gctx, userID)
		if err != nil {
			return fmt.Errorf("list leads: %w", err)
		}
		summary.DaysSinceLastLead = s.daysSinceNewest(leadDates(leads))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}

// Notifications builds the user's current nudges: derived staleness
// warnings plus any stored scheduled notifications.
func (s *ActivityService) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	ctx, span := activityTracer.Start(ctx, "ActivityService.Notifications")
	defer span.End()

	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, 2)
	if d := summary.DaysSinceLastReport; d < 0 || time.Duration(d)*24*time.Hour >= reportNudgeAfter {
		notifications = append(notifications, domain.Notification{
			ID:      uuid.New().String(),
			Kind:    "report_overdue",
			Message: "No weekly report submitted recently. Log this week's numbers to keep your trends accurate.",
		})
	}
	if d := summary.DaysSinceLastLead; d < 0 || time.Duration(d)*24*time.Hour >= leadNudgeAfter {
		notifications = append(notifications, domain.Notification{
			ID:      uuid.New().String(),
			Kind:    "lead_pipeline_stale",
			Message: "No new leads lately. Time to work the outreach list.",
		})
	}

	notifications = append(notifications, s.log.Scheduled(userID)...)
	return notifications, nil
}

// Schedule stores a notification to surface on the user's next visit.
func (s *ActivityService) Schedule(userID string, n domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	s.log.Schedule(userID, n)
	s.logger.Debug("notification scheduled",
		zap.String("user_id", userID),
		zap.String("kind", n.Kind),
	)
}

// ClearScheduled drops a user's stored notifications, typically after
// the dashboard has shown them.
func (s *ActivityService) ClearScheduled(userID string) {
	s.log.ClearScheduled(userID)
}

// daysSinceNewest returns whole days since the newest parseable date,
// -1 when none parse.
func (s *ActivityService) daysSinceNewest(dates []string) int {
	var newest time.Time
	for _, d := range dates {
		t, err := parseBackendDate(d)
		if err != nil {
			continue
		}
		if t.After(newest) {
			newest = t
		}
	}
	if newest.IsZero() {
		return -1
	}
	days := int(s.now().Sub(newest).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

// parseBackendDate accepts the date formats the backend has emitted
// over time.
func parseBackendDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

func reportDates(reports []domain.WeeklyReport) []string {
	dates := make([]string, 0, len(reports))
	for _, r := range reports {
		d := r.WeekEnding
		if d == "" {
			d = r.CreatedAt
		}
		dates = append(dates, d)
	}
	return dates
}

func leadDates(leads []domain.Lead) []string {
	dates := make([]string, 0, len(leads))
	for _, l := range leads {
		dates = append(dates, l.CreatedAt)
	}
	return dates
}
