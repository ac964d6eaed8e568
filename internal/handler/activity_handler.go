package handler

import (
	"net/http"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Activity + notification handlers
// ============================================================

func listActivityHandler(svc *service.ActivityService, impSvc *service.ImpersonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /activity")
		defer span.End()

		entries := svc.Entries(effectiveUserID(r, impSvc))
		writeJSON(w, http.StatusOK, entries)
	}
}

func activitySummaryHandler(svc *service.ActivityService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /activity/summary")
		defer span.End()

		summary, err := svc.Summary(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func listNotificationsHandler(svc *service.ActivityService, impSvc *service.ImpersonationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /notifications")
		defer span.End()

		notifications, err := svc.Notifications(ctx, effectiveUserID(r, impSvc))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, notifications)
	}
}

// scheduleNotificationHandler stores a nudge for another user, an admin
// and manager surface.
func scheduleNotificationHandler(svc *service.ActivityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /notifications")
		defer span.End()

		var req struct {
			UserID       string              `json:"user_id"`
			Notification domain.Notification `json:"notification"`
		}
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.UserID == "" || req.Notification.Message == "" {
			writeError(w, http.StatusBadRequest, "user_id and notification.message required")
			return
		}

		svc.Schedule(req.UserID, req.Notification)
		w.WriteHeader(http.StatusAccepted)
	}
}

func clearNotificationsHandler(svc *service.ActivityService, impSvc *service.ImpersonationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /notifications")
		defer span.End()

		svc.ClearScheduled(effectiveUserID(r, impSvc))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Ops
// ============================================================

// opsDriftHandler exposes the schema-drift counters as JSON so an
// operator can see which fallbacks are firing without scraping
// Prometheus.
func opsDriftHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /ops/drift")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}
