// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/api"
	"github.com/tomtom215/permahub-affinity/internal/auth"
	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/database"
	"github.com/tomtom215/permahub-affinity/internal/eventprocessor"
	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/preference"
	"github.com/tomtom215/permahub-affinity/internal/recommend"
	"github.com/tomtom215/permahub-affinity/internal/supervisor"
	"github.com/tomtom215/permahub-affinity/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Bool("decay_enabled", cfg.Decay.Enabled).
		Msg("Starting Permahub affinity service")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Service failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	learning := newLearning(cfg, db)

	procedures := recommend.NewGuardedProcedures(db, breakerConfig(&cfg.Recommend.Breaker), logging.WithComponent("procedures"))
	engine := recommend.NewEngine(db, procedures, recommendConfig(&cfg.Recommend), logging.WithComponent("recommend"))

	authMiddleware, err := auth.NewMiddleware(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize authentication: %w", err)
	}
	warnInsecureSettings(cfg)

	handler := api.NewHandler(api.Deps{
		Learner:     learning.learner,
		Recommender: engine,
		Sessions:    api.SessionsFromRegistry(learning.registry),
		Exporter:    learning.exporter,
		Authorizer:  authMiddleware,
		DB:          db,
	}, api.HandlerConfig{
		DefaultCount:   cfg.Recommend.DefaultCount,
		MaxCount:       cfg.Recommend.MaxCount,
		RequestTimeout: cfg.Recommend.RequestTimeout,
		Version:        version,
	})
	router := api.NewRouter(handler, authMiddleware, api.NewChiMiddleware(chiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddMaintenanceService(services.NewSessionSweepService(
		learning.registry, time.Minute, logging.WithComponent("session-sweep")))

	if cfg.Decay.Enabled {
		tree.AddMaintenanceService(services.NewRecencyDecayService(
			db, learning.learner, decayConfig(&cfg.Decay), logging.WithComponent("recency-decay")))
		logging.Info().Dur("interval", cfg.Decay.Interval).Msg("Recency decay sweep added to supervisor tree")
	}

	if cfg.NATS.Enabled {
		components, err := eventprocessor.NewComponents(
			eventprocessor.FromConfig(&cfg.NATS), learning.learner, logging.WithComponent("nats"))
		if err != nil {
			return fmt.Errorf("initialize NATS ingestion: %w", err)
		}
		tree.AddIngestionService(services.NewIngestionService(components, cfg.Server.ShutdownTimeout))
		logging.Info().Str("subject", cfg.NATS.Subject).Msg("NATS ingestion added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

// learning groups the preference components that share one registry.
type learning struct {
	registry *preference.Registry
	learner  *preference.Learner
	exporter *preference.Exporter
}

func newLearning(cfg *config.Config, db *database.DB) learning {
	pcfg := preferenceConfig(&cfg.Learning)

	var recorder preference.ActivityRecorder
	if pcfg.RecordActivity {
		recorder = db
	}

	registry := preference.NewRegistry(db, pcfg, logging.WithComponent("sessions"))
	updater := preference.NewUpdater(db, pcfg.MaxConflictRetries, logging.WithComponent("updater"))
	propagator := preference.NewPropagator(updater, logging.WithComponent("propagator"))
	learner := preference.NewLearner(registry, updater, propagator, recorder, pcfg, logging.WithComponent("learner"))

	return learning{
		registry: registry,
		learner:  learner,
		exporter: preference.NewExporter(registry),
	}
}

func warnInsecureSettings(cfg *config.Config) {
	if cfg.Security.AuthMode == "none" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Any caller can read and modify any user's preferences.")
		logging.Warn().Msg("  Use this only for local development.")
		logging.Warn().Msg("============================================================")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.Security.AuthMode != "none" && containsWildcard(cfg.Security.CORSOrigins) && !cfg.IsDevelopment() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
}
