// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"fmt"
	"time"
)

// Strategy count shares. Each generator is asked for ceil(share*n).
const (
	ContentShare       = 0.6
	CollaborativeShare = 0.3
	TrendingShare      = 0.1
)

// TopCategoryCount is the number of affinity categories the content
// generator draws from.
const TopCategoryCount = 5

// Config tunes the engine.
type Config struct {
	// NearestNeighbors is the number of similar users consulted by the
	// collaborative generator.
	// Default: 10
	NearestNeighbors int

	// TrendingDays is the activity window of the trending generator.
	// Default: 7
	TrendingDays int

	// GeneratorTimeout bounds each generator independently.
	// Default: 10s
	GeneratorTimeout time.Duration

	Breaker BreakerConfig
}

// BreakerConfig configures the circuit breaker around remote procedures.
type BreakerConfig struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold uint32
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		NearestNeighbors: 10,
		TrendingDays:     7,
		GeneratorTimeout: 10 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.NearestNeighbors <= 0 {
		return fmt.Errorf("nearest neighbors must be positive, got %d", c.NearestNeighbors)
	}
	if c.TrendingDays <= 0 {
		return fmt.Errorf("trending days must be positive, got %d", c.TrendingDays)
	}
	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("generator timeout must be positive, got %s", c.GeneratorTimeout)
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("breaker failure threshold must be positive")
	}
	return nil
}
