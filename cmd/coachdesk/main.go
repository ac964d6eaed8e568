package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhalvorsen/coachdesk/internal/config"
	"github.com/mhalvorsen/coachdesk/internal/domain"
	"github.com/mhalvorsen/coachdesk/internal/export"
	"github.com/mhalvorsen/coachdesk/internal/handler"
	"github.com/mhalvorsen/coachdesk/internal/infra/activity"
	"github.com/mhalvorsen/coachdesk/internal/infra/backend"
	"github.com/mhalvorsen/coachdesk/internal/infra/cache"
	"github.com/mhalvorsen/coachdesk/internal/infra/graph"
	"github.com/mhalvorsen/coachdesk/internal/infra/observability"
	"github.com/mhalvorsen/coachdesk/internal/infra/resilience"
	"github.com/mhalvorsen/coachdesk/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_url", cfg.BackendURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("reconcile_enabled", cfg.ReconcileEnabled),
		zap.Duration("reconcile_interval", cfg.ReconcileInterval),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "coachdesk")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Sentry ---
	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		logger.Warn("sentry init failed, error reporting disabled", zap.Error(err))
	} else {
		defer flushSentry()
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("graph-backend")

	// --- Clients + store ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	graphClient := graph.NewClient(httpClient, cfg.BackendURL, cfg.BackendAPIKey, cb, logger)
	store := backend.NewStore(graphClient, metrics, logger)

	// --- Services ---
	// Impersonation entries must outlive the hard validity window; the
	// service purges lapsed records itself.
	impCache := cache.New[domain.Impersonation](domain.ImpersonationWindow)
	activityLog := activity.NewLog()

	authSvc := service.NewAuthService(store, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	accountSvc := service.NewAccountService(store, metrics, logger)
	coachSvc := service.NewCoachingService(store, metrics, logger)
	reportSvc := service.NewReportService(store, store, metrics, logger)
	crmSvc := service.NewCRMService(store, store, metrics, logger)
	actSvc := service.NewActivityService(activityLog, store, store, store, metrics, logger)
	impSvc := service.NewImpersonationService(store, impCache, metrics, logger)
	exporter := export.NewReportExporter(cfg.MaxConcurrency, logger)

	// --- Reconciliation sweep ---
	reconcileCtx, stopReconcile := context.WithCancel(context.Background())
	defer stopReconcile()
	if cfg.ReconcileEnabled {
		reconciler := service.NewReconciler(store, resilienceCfg, cfg.ReconcileInterval, metrics, logger)
		go reconciler.Run(reconcileCtx)
	}

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Auth:          authSvc,
		Accounts:      accountSvc,
		Coaching:      coachSvc,
		Reports:       reportSvc,
		CRM:           crmSvc,
		Activity:      actSvc,
		Impersonation: impSvc,
		Exporter:      exporter,
	}, metrics, cfg.DashboardOrigin, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	stopReconcile()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
