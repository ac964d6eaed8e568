package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the dashboard API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	backendErrors    *prometheus.CounterVec
	filterStrategy   *prometheus.CounterVec
	updateShape      *prometheus.CounterVec
	bulkAssignItems  *prometheus.CounterVec
	orphanUsers      *prometheus.CounterVec
	swallowedErrors  *prometheus.CounterVec
	impersonations   prometheus.Counter
	activityEntries  prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coachdesk_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_backend_errors_total",
				Help: "Total errors from the graph backend.",
			},
			[]string{"operation"},
		),
		filterStrategy: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_filter_strategy_total",
				Help: "Winning filter strategy per entity list (schema drift).",
			},
			[]string{"entity", "strategy"},
		),
		updateShape: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_update_shape_total",
				Help: "Accepted update mutation shape per entity (schema drift).",
			},
			[]string{"entity", "shape"},
		),
		bulkAssignItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_bulk_assign_items_total",
				Help: "Per-item outcomes of bulk coach assignments.",
			},
			[]string{"outcome"},
		),
		orphanUsers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_orphan_users_total",
				Help: "Users found without a role profile, by sweep outcome.",
			},
			[]string{"outcome"},
		),
		swallowedErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coachdesk_swallowed_errors_total",
				Help: "Best-effort secondary failures logged and swallowed.",
			},
			[]string{"operation"},
		),
		impersonations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "coachdesk_impersonations_total",
				Help: "Impersonation sessions started.",
			},
		),
		activityEntries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "coachdesk_activity_entries_total",
				Help: "Activity log entries appended.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendError increments the backend error counter.
func (m *Metrics) IncrBackendError(operation string) {
	m.backendErrors.WithLabelValues(operation).Inc()
}

// IncrFilterStrategy records which filter strategy served an entity list.
func (m *Metrics) IncrFilterStrategy(entity, strategy string) {
	m.filterStrategy.WithLabelValues(entity, strategy).Inc()
}

// IncrUpdateShape records which update shape the backend accepted.
func (m *Metrics) IncrUpdateShape(entity, shape string) {
	m.updateShape.WithLabelValues(entity, shape).Inc()
}

// IncrBulkAssign records one bulk-assignment item outcome ("ok"/"failed").
func (m *Metrics) IncrBulkAssign(outcome string) {
	m.bulkAssignItems.WithLabelValues(outcome).Inc()
}

// IncrOrphan records a reconciliation outcome ("detected"/"repaired"/"failed").
func (m *Metrics) IncrOrphan(outcome string) {
	m.orphanUsers.WithLabelValues(outcome).Inc()
}

// IncrSwallowed records a best-effort failure that was logged and swallowed.
func (m *Metrics) IncrSwallowed(operation string) {
	m.swallowedErrors.WithLabelValues(operation).Inc()
}

// IncrImpersonation records an impersonation session start.
func (m *Metrics) IncrImpersonation() {
	m.impersonations.Inc()
}

// IncrActivityEntry records an activity log append.
func (m *Metrics) IncrActivityEntry() {
	m.activityEntries.Inc()
}

// OpsSnapshot is a plain-JSON view of the drift counters for the
// GET /v1/ops/drift endpoint. Strategy hit counts tell operators when the
// legacy relation shapes stop being exercised.
type OpsSnapshot struct {
	BulkAssignOK     float64 `json:"bulk_assign_ok"`
	BulkAssignFailed float64 `json:"bulk_assign_failed"`
	OrphansDetected  float64 `json:"orphans_detected"`
	OrphansRepaired  float64 `json:"orphans_repaired"`
	Impersonations   float64 `json:"impersonations"`
}

// GetOpsSnapshot reads the current counter values.
// Prometheus counters expose cumulative values.
func (m *Metrics) GetOpsSnapshot() *OpsSnapshot {
	return &OpsSnapshot{
		BulkAssignOK:     getCounterValue(m.bulkAssignItems, "ok"),
		BulkAssignFailed: getCounterValue(m.bulkAssignItems, "failed"),
		OrphansDetected:  getCounterValue(m.orphanUsers, "detected"),
		OrphansRepaired:  getCounterValue(m.orphanUsers, "repaired"),
		Impersonations:   getSingleCounterValue(m.impersonations),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getSingleCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
