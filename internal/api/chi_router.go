// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/permahub-affinity/internal/middleware"
)

// Authenticator is the auth surface the router mounts. *auth.Middleware
// implements it.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
	RequireUser(param string) func(http.Handler) http.Handler
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	auth          Authenticator
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authn Authenticator, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, auth: authn, chiMiddleware: chiMW}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.auth.Authenticate)

		r.Post("/interactions", router.handler.RecordInteraction)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(router.auth.RequireUser("userID"))
			r.Get("/recommendations", router.handler.Recommendations)
			r.Get("/interest/{contentType}/{contentID}", router.handler.Interest)
			r.Get("/preferences/export", router.handler.ExportPreferences)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
