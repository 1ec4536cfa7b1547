// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// BreakerName labels the remote procedure breaker in metrics.
const BreakerName = "remote-procedures"

// GuardedProcedures wraps Procedures with a circuit breaker. While the
// breaker is open calls fail fast with gobreaker.ErrOpenState, which the
// engine reports as a generator failure.
type GuardedProcedures struct {
	inner  Procedures
	cb     *gobreaker.CircuitBreaker[any]
	logger zerolog.Logger
}

var _ Procedures = (*GuardedProcedures)(nil)

// NewGuardedProcedures creates a breaker-wrapped Procedures. Cancellation
// by the caller does not count as a failure.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGuardedProcedures(inner Procedures, cfg BreakerConfig, logger zerolog.Logger) *GuardedProcedures {
	g := &GuardedProcedures{
		inner:  inner,
		logger: logger.With().Str("component", "procedure_breaker").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return g
}

// State returns the breaker state, e.g. "closed" or "open".
func (g *GuardedProcedures) State() string {
	return g.cb.State().String()
}

// FindSimilarUsers implements Procedures.
func (g *GuardedProcedures) FindSimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error) {
	return execute(g, func() ([]models.SimilarUser, error) {
		return g.inner.FindSimilarUsers(ctx, userID, limit)
	})
}

// CollaborativeRecommendations implements Procedures.
func (g *GuardedProcedures) CollaborativeRecommendations(ctx context.Context, userID string, similarUserIDs []string, limit int) ([]models.RemoteCandidate, error) {
	return execute(g, func() ([]models.RemoteCandidate, error) {
		return g.inner.CollaborativeRecommendations(ctx, userID, similarUserIDs, limit)
	})
}

// TrendingContent implements Procedures.
func (g *GuardedProcedures) TrendingContent(ctx context.Context, days, limit int) ([]models.RemoteCandidate, error) {
	return execute(g, func() ([]models.RemoteCandidate, error) {
		return g.inner.TrendingContent(ctx, days, limit)
	})
}

// execute runs fn through the breaker and restores its result type.
func execute[T any](g *GuardedProcedures, fn func() (T, error)) (T, error) {
	var zero T
	result, err := g.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
		}
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
