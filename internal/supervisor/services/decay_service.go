// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/permahub-affinity/internal/metrics"
)

// AffinityUserLister lists users that own at least one affinity row.
type AffinityUserLister interface {
	ListAffinityUsers(ctx context.Context) ([]string, error)
}

// UserDecayer applies the recency decay to one user's cached affinities.
// Satisfied by *preference.Learner.
type UserDecayer interface {
	DecayUser(ctx context.Context, userID string) (int, error)
}

// RecencyDecayConfig schedules the sweep.
type RecencyDecayConfig struct {
	// Interval between sweeps. Default: 24h
	Interval time.Duration

	// RunOnStartup sweeps once as soon as the service starts.
	RunOnStartup bool

	// UsersPerSecond paces the sweep. Default: 20
	UsersPerSecond float64

	// Timeout bounds one sweep. Default: 1h
	Timeout time.Duration
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Users    int
	Failed   int
	Rows     int
	Duration time.Duration
}

// RecencyDecayService periodically decays the recency score of every user's
// affinities. Failures for one user are logged and counted; the sweep moves
// on to the next user.
type RecencyDecayService struct {
	users   AffinityUserLister
	decayer UserDecayer
	config  RecencyDecayConfig
	logger  zerolog.Logger
	name    string
}

// NewRecencyDecayService creates the sweep service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRecencyDecayService(users AffinityUserLister, decayer UserDecayer, cfg RecencyDecayConfig, logger zerolog.Logger) *RecencyDecayService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.UsersPerSecond <= 0 {
		cfg.UsersPerSecond = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Hour
	}
	return &RecencyDecayService{
		users:   users,
		decayer: decayer,
		config:  cfg,
		logger:  logger.With().Str("service", "recency-decay").Logger(),
		name:    "recency-decay",
	}
}

// Serve implements suture.Service.
func (s *RecencyDecayService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Float64("users_per_second", s.config.UsersPerSecond).
		Bool("run_on_startup", s.config.RunOnStartup).
		Msg("recency decay service starting")

	if s.config.RunOnStartup {
		s.runSweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *RecencyDecayService) runSweep(ctx context.Context) {
	result, err := s.Sweep(ctx)
	event := s.logger.Info()
	if err != nil {
		event = s.logger.Warn().Err(err)
	}
	event.
		Int("users", result.Users).
		Int("failed", result.Failed).
		Int("rows", result.Rows).
		Dur("duration", result.Duration).
		Msg("recency decay sweep finished")
}

// Sweep decays every user once, paced by a token bucket. It returns an error
// only when the user list cannot be read or the sweep is cut short by ctx.
func (s *RecencyDecayService) Sweep(ctx context.Context) (result SweepResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		metrics.RecordDecaySweep(result.Duration, result.Users, result.Failed, result.Rows)
	}()

	userIDs, err := s.users.ListAffinityUsers(ctx)
	if err != nil {
		return result, fmt.Errorf("list affinity users: %w", err)
	}

	limiter := rate.NewLimiter(rate.Limit(s.config.UsersPerSecond), 1)
	for _, userID := range userIDs {
		if waitErr := limiter.Wait(ctx); waitErr != nil {
			return result, fmt.Errorf("decay sweep interrupted after %d users: %w", result.Users, waitErr)
		}
		result.Users++
		rows, decayErr := s.decayer.DecayUser(ctx, userID)
		result.Rows += rows
		if decayErr != nil {
			result.Failed++
			s.logger.Warn().Err(decayErr).Str("user_id", userID).Msg("recency decay failed for user")
		}
	}
	return result, nil
}

// String implements fmt.Stringer.
func (s *RecencyDecayService) String() string {
	return s.name
}
