// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SessionSweeper drops idle sessions and reports how many it removed.
// Satisfied by *preference.Registry.
type SessionSweeper interface {
	Sweep() int
	Len() int
}

// SessionSweepService evicts idle preference sessions on a fixed interval
// so that memory follows active users rather than every user ever seen.
type SessionSweepService struct {
	sessions SessionSweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewSessionSweepService creates the sweeper. interval defaults to 1m.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSessionSweepService(sessions SessionSweeper, interval time.Duration, logger zerolog.Logger) *SessionSweepService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweepService{
		sessions: sessions,
		interval: interval,
		logger:   logger.With().Str("service", "session-sweep").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SessionSweepService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug().Int("evicted", n).Int("remaining", s.sessions.Len()).Msg("idle sessions evicted")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *SessionSweepService) String() string {
	return "session-sweep"
}
