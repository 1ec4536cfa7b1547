// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// readinessTimeout bounds the database ping behind /health/ready.
const readinessTimeout = 2 * time.Second

// HealthLive reports that the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady reports whether the database is reachable. It returns 503
// when it is not so that load balancers stop routing to this instance.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	connected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		connected = h.db.Ping(ctx) == nil
		cancel()
	}

	health := models.HealthStatus{
		Status:            "healthy",
		Version:           h.cfg.Version,
		DatabaseConnected: connected,
		Uptime:            time.Since(h.startTime).Seconds(),
		CheckedAt:         time.Now().UTC(),
	}
	status := http.StatusOK
	if !connected {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondSuccess(w, r, status, health, start)
}
