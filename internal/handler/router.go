package handler

import (
	"net/http"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/export"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router dispatches to.
type Services struct {
	Auth          *service.AuthService
	Accounts      *service.AccountService
	Coaching      *service.CoachingService
	Reports       *service.ReportService
	CRM           *service.CRMService
	Activity      *service.ActivityService
	Impersonation *service.ImpersonationService
	Exporter      *export.ReportExporter
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract the coaching dashboard frontend
// consumes.
func NewRouter(svcs Services, metrics *observability.Metrics, dashboardOrigin string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{dashboardOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: dashboardOrigin != "*",
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Accounts))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Public
		r.Post("/auth/login", authLoginHandler(svcs.Auth, logger))

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svcs.Auth, logger))

			r.Get("/me", meHandler(svcs.Accounts, svcs.Impersonation, logger))

			// Student surface. Coaches and admins reach the same routes
			// through impersonation or the user_id override.
			r.Get("/profile", myProfileHandler(svcs.Accounts, svcs.Impersonation, logger))
			r.Patch("/profile", updateMyProfileHandler(svcs.Accounts, svcs.Impersonation, logger))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", listReportsHandler(svcs.Reports, svcs.Impersonation, logger))
				r.Post("/", createReportHandler(svcs.Reports, svcs.Activity, svcs.Impersonation, logger))
				r.Get("/export", exportReportsHandler(svcs.Reports, svcs.Exporter, svcs.Impersonation, logger))
				r.Get("/{reportId}", getReportHandler(svcs.Reports, logger))
				r.Patch("/{reportId}", updateReportHandler(svcs.Reports, logger))
				r.Delete("/{reportId}", deleteReportHandler(svcs.Reports, logger))
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", listLeadsHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createLeadHandler(svcs.CRM, svcs.Activity, svcs.Impersonation, logger))
				r.Get("/{leadId}", getLeadHandler(svcs.CRM, logger))
				r.Patch("/{leadId}", updateLeadHandler(svcs.CRM, logger))
				r.Delete("/{leadId}", deleteLeadHandler(svcs.CRM, logger))
				r.Post("/{leadId}/tags", tagLeadHandler(svcs.CRM, logger))
				r.Delete("/{leadId}/tags/{tagId}", untagLeadHandler(svcs.CRM, logger))
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", listGoalsHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createGoalHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Patch("/{goalId}", updateGoalHandler(svcs.CRM, logger))
				r.Delete("/{goalId}", deleteGoalHandler(svcs.CRM, logger))
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", listNotesHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createNoteHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Patch("/{noteId}", updateNoteHandler(svcs.CRM, logger))
				r.Delete("/{noteId}", deleteNoteHandler(svcs.CRM, logger))
			})

			r.Route("/pricing", func(r chi.Router) {
				r.Get("/", listPricingHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createPricingHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Patch("/{packageId}", updatePricingHandler(svcs.CRM, logger))
				r.Delete("/{packageId}", deletePricingHandler(svcs.CRM, logger))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", listProductsHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createProductHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Patch("/{productId}", updateProductHandler(svcs.CRM, logger))
				r.Delete("/{productId}", deleteProductHandler(svcs.CRM, logger))
				r.Post("/{productId}/subitems", addSubitemHandler(svcs.CRM, logger))
				r.Delete("/{productId}/subitems/{subitemId}", removeSubitemHandler(svcs.CRM, logger))
			})

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", listTemplatesHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Post("/", createTemplateHandler(svcs.CRM, svcs.Impersonation, logger))
				r.Patch("/{templateId}", updateTemplateHandler(svcs.CRM, logger))
				r.Delete("/{templateId}", deleteTemplateHandler(svcs.CRM, logger))
			})

			r.Get("/activity", listActivityHandler(svcs.Activity, svcs.Impersonation))
			r.Get("/activity/summary", activitySummaryHandler(svcs.Activity, svcs.Impersonation, logger))
			r.Get("/notifications", listNotificationsHandler(svcs.Activity, svcs.Impersonation, logger))
			r.Delete("/notifications", clearNotificationsHandler(svcs.Activity, svcs.Impersonation))

			// Coach surface
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(logger, domain.RoleCoach, domain.RoleCoachManager, domain.RoleSuperAdmin))

				r.Get("/students", listStudentsHandler(svcs.Accounts, logger))
				r.Get("/students/{profileId}", getStudentHandler(svcs.Accounts, logger))
				r.Patch("/students/{profileId}", updateStudentHandler(svcs.Accounts, logger))
				r.Get("/students/{profileId}/call-logs", listCallLogsHandler(svcs.CRM, logger))
				r.Post("/students/{profileId}/call-logs", createCallLogHandler(svcs.CRM, logger))
				r.Patch("/call-logs/{callLogId}", updateCallLogHandler(svcs.CRM, logger))
				r.Delete("/call-logs/{callLogId}", deleteCallLogHandler(svcs.CRM, logger))
				r.Post("/notifications", scheduleNotificationHandler(svcs.Activity, logger))
			})

			// Manager surface
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(logger, domain.RoleCoachManager, domain.RoleSuperAdmin))

				r.Get("/coaches", listCoachesHandler(svcs.Accounts, logger))
				r.Patch("/coaches/{profileId}", updateCoachHandler(svcs.Accounts, logger))
				r.Put("/students/{profileId}/coach", assignCoachHandler(svcs.Coaching, logger))
				r.Delete("/students/{profileId}/coach", unassignCoachHandler(svcs.Coaching, logger))
				r.Post("/coaches/{profileId}/students", bulkAssignHandler(svcs.Coaching, logger))

				r.Post("/impersonation/{userId}", impersonationStartHandler(svcs.Impersonation, logger))
				r.Get("/impersonation", impersonationCurrentHandler(svcs.Impersonation))
				r.Delete("/impersonation", impersonationStopHandler(svcs.Impersonation))
			})

			// Admin surface
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(logger, domain.RoleSuperAdmin))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", listUsersHandler(svcs.Accounts, logger))
					r.Post("/", createUserHandler(svcs.Accounts, logger))
					r.Get("/{userId}", getUserHandler(svcs.Accounts, logger))
					r.Patch("/{userId}", updateUserHandler(svcs.Accounts, logger))
					r.Delete("/{userId}", deleteUserHandler(svcs.Accounts, logger))
				})

				r.Get("/ops/drift", opsDriftHandler(metrics))
			})
		})
	})

	return r
}

// healthzHandler probes the graph backend with a cheap read so the
// dashboard can show degraded state before users hit real errors.
func healthzHandler(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		status := "healthy"
		start := time.Now()
		_, err := accountSvc.ListCoaches(ctx)
		latency := time.Since(start).Milliseconds()
		if err != nil {
			status = "degraded"
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"services": []map[string]any{
				{"name": "coachdesk-api", "status": "healthy", "latency_ms": 0, "last_checked": now},
				{"name": "graph-backend", "status": status, "latency_ms": latency, "last_checked": now},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
