// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package main

import (
	"github.com/tomtom215/permahub-affinity/internal/api"
	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/preference"
	"github.com/tomtom215/permahub-affinity/internal/recommend"
	"github.com/tomtom215/permahub-affinity/internal/supervisor/services"
)

// The conversions below keep internal packages free of the config package.

func preferenceConfig(c *config.LearningConfig) preference.Config {
	pcfg := preference.DefaultConfig()
	pcfg.RecordActivity = c.RecordActivity
	pcfg.MaxConflictRetries = c.MaxConflictRetries
	if c.SessionCacheSize > 0 {
		pcfg.CacheSize = c.SessionCacheSize
	}
	if c.SessionIdleTTL > 0 {
		pcfg.IdleTTL = c.SessionIdleTTL
	}
	if c.SimilarUsersTTL > 0 {
		pcfg.SessionTTL = c.SimilarUsersTTL
	}
	if c.CooccurrenceUserLimit > 0 {
		pcfg.CooccurrenceUserLimit = c.CooccurrenceUserLimit
	}
	return pcfg
}

func recommendConfig(c *config.RecommendConfig) recommend.Config {
	rcfg := recommend.DefaultConfig()
	if c.NearestNeighbors > 0 {
		rcfg.NearestNeighbors = c.NearestNeighbors
	}
	if c.TrendingDays > 0 {
		rcfg.TrendingDays = c.TrendingDays
	}
	if c.RequestTimeout > 0 {
		rcfg.GeneratorTimeout = c.RequestTimeout
	}
	rcfg.Breaker = breakerConfig(&c.Breaker)
	return rcfg
}

func breakerConfig(c *config.BreakerConfig) recommend.BreakerConfig {
	bcfg := recommend.DefaultConfig().Breaker
	if c.MaxRequests > 0 {
		bcfg.MaxRequests = c.MaxRequests
	}
	if c.Interval > 0 {
		bcfg.Interval = c.Interval
	}
	if c.Timeout > 0 {
		bcfg.Timeout = c.Timeout
	}
	if c.FailureThreshold > 0 {
		bcfg.FailureThreshold = c.FailureThreshold
	}
	return bcfg
}

func decayConfig(c *config.DecayConfig) services.RecencyDecayConfig {
	return services.RecencyDecayConfig{
		Interval:       c.Interval,
		RunOnStartup:   c.RunOnStartup,
		UsersPerSecond: c.UsersPerSecond,
		Timeout:        c.Timeout,
	}
}

func chiMiddlewareConfig(c *config.SecurityConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = c.CORSOrigins
	mw.RateLimitRequests = c.RateLimitReqs
	mw.RateLimitWindow = c.RateLimitWindow
	mw.RateLimitDisabled = c.RateLimitDisabled
	return mw
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
