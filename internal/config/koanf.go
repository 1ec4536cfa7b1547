// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched in order; the first
// existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/permahub-affinity/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8340,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "production",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			QueryTimeout:    30 * time.Second,
			AutoMigrate:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Learning: LearningConfig{
			RecordActivity:        true,
			MaxConflictRetries:    3,
			SessionCacheSize:      10000,
			SessionIdleTTL:        30 * time.Minute,
			SimilarUsersTTL:       5 * time.Minute,
			CooccurrenceUserLimit: 1000,
		},
		Recommend: RecommendConfig{
			DefaultCount:     10,
			MaxCount:         100,
			NearestNeighbors: 10,
			TrendingDays:     7,
			RequestTimeout:   10 * time.Second,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Decay: DecayConfig{
			Enabled:        true,
			Interval:       24 * time.Hour,
			UsersPerSecond: 20,
			Timeout:        time.Hour,
		},
		NATS: NATSConfig{
			Enabled:           false,
			URL:               "nats://127.0.0.1:4222",
			StoreDir:          "/data/nats",
			Subject:           "interactions.recorded",
			StreamName:        "INTERACTIONS",
			DurableName:       "affinity-learner",
			QueueGroup:        "learners",
			SubscribersCount:  4,
			AckWait:           30 * time.Second,
			MaxDeliver:        5,
			PoisonSubject:     "interactions.poison",
			MaxRetries:        3,
			ThrottlePerSecond: 0,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and environment
// variables (highest priority), then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"database_url":               "database.url",
	"database_max_open_conns":    "database.max_open_conns",
	"database_max_idle_conns":    "database.max_idle_conns",
	"database_conn_max_lifetime": "database.conn_max_lifetime",
	"database_query_timeout":     "database.query_timeout",
	"database_auto_migrate":      "database.auto_migrate",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"auth_mode":          "security.auth_mode",
	"jwt_secret":         "security.jwt_secret",
	"jwt_issuer":         "security.jwt_issuer",
	"cors_origins":       "security.cors_origins",
	"rate_limit_reqs":    "security.rate_limit_requests",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",

	"learning_record_activity":         "learning.record_activity",
	"learning_max_conflict_retries":    "learning.max_conflict_retries",
	"learning_session_cache_size":      "learning.session_cache_size",
	"learning_session_idle_ttl":        "learning.session_idle_ttl",
	"learning_similar_users_ttl":       "learning.similar_users_ttl",
	"learning_cooccurrence_user_limit": "learning.cooccurrence_user_limit",

	"recommend_default_count":             "recommend.default_count",
	"recommend_max_count":                 "recommend.max_count",
	"recommend_nearest_neighbors":         "recommend.nearest_neighbors",
	"recommend_trending_days":             "recommend.trending_days",
	"recommend_request_timeout":           "recommend.request_timeout",
	"recommend_breaker_max_requests":      "recommend.breaker.max_requests",
	"recommend_breaker_interval":          "recommend.breaker.interval",
	"recommend_breaker_timeout":           "recommend.breaker.timeout",
	"recommend_breaker_failure_threshold": "recommend.breaker.failure_threshold",

	"decay_enabled":          "decay.enabled",
	"decay_interval":         "decay.interval",
	"decay_run_on_startup":   "decay.run_on_startup",
	"decay_users_per_second": "decay.users_per_second",
	"decay_timeout":          "decay.timeout",

	"nats_enabled":             "nats.enabled",
	"nats_url":                 "nats.url",
	"nats_embedded":            "nats.embedded_server",
	"nats_store_dir":           "nats.store_dir",
	"nats_subject":             "nats.subject",
	"nats_stream_name":         "nats.stream_name",
	"nats_durable_name":        "nats.durable_name",
	"nats_queue_group":         "nats.queue_group",
	"nats_subscribers":         "nats.subscribers_count",
	"nats_ack_wait":            "nats.ack_wait",
	"nats_max_deliver":         "nats.max_deliver",
	"nats_poison_subject":      "nats.poison_subject",
	"nats_max_retries":         "nats.max_retries",
	"nats_throttle_per_second": "nats.throttle_per_second",
}

// envTransformFunc maps DATABASE_URL -> database.url and so on. Unmapped
// variables return "" so that koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
