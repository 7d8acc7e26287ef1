package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"riverbird-standalone/internal/models"
)

var (
	unitState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "standalone_unit_state",
			Help: "Current state of each role unit (1 for the active state, 0 otherwise)",
		},
		[]string{"role", "state"},
	)

	unitTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standalone_unit_transitions_total",
			Help: "Unit state transitions",
		},
		[]string{"role", "to"},
	)

	unitReadyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standalone_unit_ready_duration_seconds",
			Help:    "Time from unit start to readiness signal",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"role"},
	)

	unitForcedKills = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standalone_unit_forced_kills_total",
			Help: "Units abandoned after exceeding their shutdown grace period",
		},
		[]string{"role"},
	)

	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standalone_admin_request_total",
			Help: "Total admin API requests",
		},
		[]string{"path"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "standalone_admin_request_duration_seconds",
			Help:    "Duration of admin API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	errorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standalone_admin_request_errors_total",
			Help: "Admin API requests answered with status >= 400",
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(unitState)
	prometheus.MustRegister(unitTransitions)
	prometheus.MustRegister(unitReadyDuration)
	prometheus.MustRegister(unitForcedKills)
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(errorCount)
}

var unitStates = []models.UnitState{
	models.UnitPending, models.UnitStarting, models.UnitReady,
	models.UnitStopping, models.UnitExited,
}

// recordUnitState flips the per-role state gauge and counts the transition.
func recordUnitState(role models.RoleKind, to models.UnitState) {
	for _, s := range unitStates {
		v := 0.0
		if s == to {
			v = 1.0
		}
		unitState.WithLabelValues(role.String(), string(s)).Set(v)
	}
	unitTransitions.WithLabelValues(role.String(), string(to)).Inc()
}

func recordUnitReady(role models.RoleKind, seconds float64) {
	unitReadyDuration.WithLabelValues(role.String()).Observe(seconds)
}

func recordForcedKill(role models.RoleKind) {
	unitForcedKills.WithLabelValues(role.String()).Inc()
}

// Local counters backing the health endpoint; the prometheus client offers
// no cheap read-back for counters.
var (
	totalRequests int64
	totalErrors   int64
)

// IncrementRequestCount counts one admin API request.
func IncrementRequestCount(path string) {
	requestCount.WithLabelValues(path).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

// RecordRequestDuration records the handling time of one admin API request.
func RecordRequestDuration(path string, seconds float64) {
	requestDuration.WithLabelValues(path).Observe(seconds)
}

// IncrementErrorCount counts one failed admin API request.
func IncrementErrorCount(path string) {
	errorCount.WithLabelValues(path).Inc()
	atomic.AddInt64(&totalErrors, 1)
}

// GetTotalRequestCount returns the total admin API requests served.
func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

// GetTotalErrorCount returns the total failed admin API requests.
func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&totalErrors)
}
