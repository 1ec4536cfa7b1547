// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package config loads and validates the service configuration.

Configuration is layered with Koanf v2, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
    /etc/permahub-affinity/config.yaml
 3. Environment variables listed in envMappings

# Configuration Groups

  - ServerConfig: HTTP listener and timeouts
  - DatabaseConfig: Postgres URL, pool sizing, per-query timeout, migrations
  - LoggingConfig: zerolog level and format
  - SecurityConfig: JWT auth mode, CORS, rate limiting
  - LearningConfig: activity recording, conflict retries, session cache
  - RecommendConfig: counts, neighbor limit, trending window, circuit breaker
  - DecayConfig: recency-decay sweep schedule
  - NATSConfig: JetStream interaction ingestion

# Environment Variables

The most common variables:

	DATABASE_URL=postgres://affinity:secret@db:5432/permahub?sslmode=disable
	AUTH_MODE=jwt
	JWT_SECRET=<at least 32 characters>
	LOG_LEVEL=debug
	NATS_ENABLED=true
	NATS_URL=nats://nats:4222
	CORS_ORIGINS=https://permahub.example,https://admin.permahub.example

Comma-separated values are accepted for list settings.

# Validation

Validate reports every problem at once via errors.Join so a misconfigured
deployment fails with a complete list rather than one error per restart.
*/
package config
