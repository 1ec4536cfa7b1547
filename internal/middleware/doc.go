// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: accepts or generates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request counters, latency and in-flight gauge,
    labelled by the chi route pattern so path parameters such as user IDs
    do not explode label cardinality

Both are plain func(http.Handler) http.Handler and can be passed to
chi's r.Use directly.
*/
package middleware
