package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Dashboard frontend origin (CORS)
	DashboardOrigin string

	// Hosted graph backend
	BackendURL    string
	BackendAPIKey string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience. Used by the reconciliation job and the export bulkhead;
	// the transport itself never retries.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Reconciliation sweep
	ReconcileInterval time.Duration
	ReconcileEnabled  bool

	// Observability
	OTLPEndpoint string
	SentryDSN    string
	Environment  string

	// JWT / Auth
	JWTSecret    string
	JWTAccessTTL time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DashboardOrigin: getEnv("DASHBOARD_ORIGIN", "*"),

		BackendURL:    getEnv("BACKEND_URL", ""),
		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 200*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 8),

		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 30*time.Minute),
		ReconcileEnabled:  getEnv("RECONCILE_ENABLED", "true") == "true",

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),

		JWTSecret:    getEnv("JWT_SECRET", "coachdesk-default-dev-secret-change-me"),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 12*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
