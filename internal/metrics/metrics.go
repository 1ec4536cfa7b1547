// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "affinity_db_query_duration_seconds",
			Help:    "Duration of Postgres queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_db_query_errors_total",
			Help: "Total number of Postgres query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_db_connections_in_use",
			Help: "Current number of database connections in use",
		},
	)

	// Learning Metrics
	InteractionsLearned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_interactions_learned_total",
			Help: "Total number of interactions applied to affinity scores",
		},
		[]string{"activity_type"},
	)

	InteractionValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_interaction_value",
			Help:    "Distribution of computed interaction values",
			Buckets: []float64{0.1, 0.2, 0.3, 0.5, 0.7, 0.8, 1.0, 1.2, 1.5},
		},
	)

	AffinityWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_score_writes_total",
			Help: "Total number of affinity rows written",
		},
		[]string{"operation"}, // "insert", "update", "decay"
	)

	PropagatedUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_propagated_updates_total",
			Help: "Total number of neighbor categories reinforced by propagation",
		},
	)

	AffinityConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_version_conflicts_total",
			Help: "Total number of optimistic concurrency conflicts on affinity rows",
		},
		[]string{"outcome"}, // "retried", "exhausted"
	)

	// Session Cache Metrics
	SessionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_session_cache_hits_total",
			Help: "Total number of preference session cache hits",
		},
	)

	SessionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_session_cache_misses_total",
			Help: "Total number of preference session cache misses",
		},
	)

	SessionCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_session_cache_evictions_total",
			Help: "Total number of preference sessions evicted",
		},
	)

	SessionInitErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_session_init_errors_total",
			Help: "Total number of session initialization failures",
		},
		[]string{"stage"}, // "profile", "affinities", "graph"
	)

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_recommendation_duration_seconds",
			Help:    "Time to produce a ranked recommendation list",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_recommendations_returned",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	GeneratorCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "affinity_generator_candidates",
			Help:    "Number of candidates produced per generator call",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
		[]string{"strategy"},
	)

	GeneratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_generator_failures_total",
			Help: "Total number of failed candidate generator calls",
		},
		[]string{"strategy"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "affinity_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Recency Decay Sweep Metrics
	DecaySweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_decay_sweep_duration_seconds",
			Help:    "Duration of a full recency decay sweep",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
		},
	)

	DecaySweepUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_decay_sweep_users_total",
			Help: "Total number of users processed by recency decay",
		},
		[]string{"result"}, // "success", "error"
	)

	DecayedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "affinity_decay_rows_total",
			Help: "Total number of affinity rows whose recency was decayed",
		},
	)

	DecayLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_decay_last_success_timestamp_seconds",
			Help: "Unix time of the last completed recency decay sweep",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "affinity_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "affinity_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"method"},
	)

	// NATS Ingestion Metrics
	NATSMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affinity_nats_messages_consumed_total",
			Help: "Total number of interaction messages consumed from NATS",
		},
		[]string{"result"}, // "learned", "invalid", "failed"
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "affinity_nats_processing_duration_seconds",
			Help:    "Time to learn from one consumed interaction message",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Error type labels are classified rather than copied from the message so
// label cardinality stays bounded.
const (
	errorTypeTimeout  = "timeout"
	errorTypeCanceled = "canceled"
	errorTypeOther    = "error"
)

func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeTimeout
	case errors.Is(err, context.Canceled):
		return errorTypeCanceled
	default:
		return errorTypeOther
	}
}

// RecordDBQuery records the duration and outcome of one store call.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, classifyError(err)).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordInteraction records one learned interaction and its computed value.
func RecordInteraction(activityType string, value float64) {
	InteractionsLearned.WithLabelValues(activityType).Inc()
	InteractionValue.Observe(value)
}

// RecordGenerator records one candidate generator call.
func RecordGenerator(strategy string, candidates int, err error) {
	if err != nil {
		GeneratorFailures.WithLabelValues(strategy).Inc()
		return
	}
	GeneratorCandidates.WithLabelValues(strategy).Observe(float64(candidates))
}

// RecordRecommendation records one served recommendation request.
func RecordRecommendation(duration time.Duration, returned int) {
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationsReturned.Observe(float64(returned))
}

// RecordDecaySweep records the totals of one full sweep.
func RecordDecaySweep(duration time.Duration, users, failed, rows int) {
	DecaySweepDuration.Observe(duration.Seconds())
	DecaySweepUsers.WithLabelValues("success").Add(float64(users - failed))
	DecaySweepUsers.WithLabelValues("error").Add(float64(failed))
	DecayedRows.Add(float64(rows))
	if failed == 0 {
		DecayLastSuccess.SetToCurrentTime()
	}
}

// RecordNATSMessage records one consumed interaction message.
func RecordNATSMessage(result string, duration time.Duration) {
	NATSMessagesConsumed.WithLabelValues(result).Inc()
	NATSProcessingDuration.Observe(duration.Seconds())
}
