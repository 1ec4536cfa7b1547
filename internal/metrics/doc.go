// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package metrics defines the Prometheus metrics exported at /metrics.

All metrics are registered on the default registry through promauto and are
prefixed with affinity_.

# Groups

  - Database: query latency and errors per operation and table
  - Learning: interactions learned, interaction values, affinity writes,
    propagated updates, version conflicts
  - Sessions: preference session cache hits, misses, evictions and
    initialization failures
  - Recommendations: request latency, result sizes, per-strategy candidate
    counts and failures, circuit breaker state
  - Decay: sweep duration, users processed, rows decayed, last success
  - API: request counts, latency, in-flight requests, rate limit hits
  - NATS: consumed messages by result and processing latency

# Example Queries

	# share of collaborative generator calls failing
	rate(affinity_generator_failures_total{strategy="collaborative"}[5m])

	# p95 recommendation latency
	histogram_quantile(0.95, rate(affinity_recommendation_duration_seconds_bucket[5m]))

	# conflict retries that ran out
	increase(affinity_version_conflicts_total{outcome="exhausted"}[1h])
*/
package metrics
