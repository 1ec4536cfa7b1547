// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// LearnResult reports what one interaction changed.
type LearnResult struct {
	UserID     string  `json:"user_id"`
	CategoryID string  `json:"category_id,omitempty"`
	Value      float64 `json:"interaction_value"`
	Propagated int     `json:"propagated_categories"`
	Recorded   bool    `json:"activity_recorded"`
}

// Learner is the ingestion entrypoint: it records the interaction, updates
// the source category, propagates to neighbors and refreshes the session.
type Learner struct {
	registry   *Registry
	updater    *Updater
	propagator *Propagator
	recorder   ActivityRecorder
	record     bool
	logger     zerolog.Logger
}

// NewLearner wires a Learner. recorder may be nil, which disables activity
// recording regardless of cfg.RecordActivity.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLearner(registry *Registry, updater *Updater, propagator *Propagator, recorder ActivityRecorder, cfg Config, logger zerolog.Logger) *Learner {
	return &Learner{
		registry:   registry,
		updater:    updater,
		propagator: propagator,
		recorder:   recorder,
		record:     cfg.RecordActivity && recorder != nil,
		logger:     logger.With().Str("component", "learner").Logger(),
	}
}

// LearnFromInteraction applies one validated interaction.
//
// Only a failure to load the session or to write the source category is
// returned. Recording, propagation and reload failures are logged: the
// source write has already happened, and returning an error would make a
// redelivering caller apply it twice.
func (l *Learner) LearnFromInteraction(ctx context.Context, event *models.InteractionEvent) (*LearnResult, error) {
	ctx = logging.ContextWithUserID(ctx, event.UserID)
	log := logging.CtxWith(ctx).Str("component", "learner").Logger()

	sess, err := l.registry.Session(ctx, event.UserID)
	if err != nil {
		return nil, err
	}

	result := &LearnResult{
		UserID:     event.UserID,
		CategoryID: event.CategoryID,
		Value:      ComputeInteractionValue(event.ActivityType, event.DurationSeconds),
	}

	if l.record && event.ContentType != "" && event.ContentID != "" {
		if err := l.recorder.RecordActivity(ctx, event); err != nil {
			log.Warn().Err(err).Msg("failed to record activity")
		} else {
			result.Recorded = true
		}
	}

	if event.CategoryID == "" {
		log.Debug().Err(ErrMissingCategory).Str("activity_type", string(event.ActivityType)).Msg("nothing to learn")
		return result, nil
	}

	if err := l.updater.Apply(ctx, sess, event.CategoryID, result.Value, event.ActivityType); err != nil {
		return nil, fmt.Errorf("learn from %s: %w", event.ActivityType, err)
	}
	metrics.RecordInteraction(string(event.ActivityType), result.Value)

	propagated, err := l.propagator.Propagate(ctx, sess, event.CategoryID, result.Value*PropagationFactor)
	result.Propagated = propagated
	if err != nil {
		log.Warn().Err(err).Str("category_id", event.CategoryID).Msg("propagation incomplete")
	}

	if err := sess.ReloadAffinities(ctx); err != nil {
		log.Warn().Err(err).Msg("reload after learning failed, dropping session")
		l.registry.Forget(event.UserID)
	}

	log.Debug().
		Str("category_id", event.CategoryID).
		Str("activity_type", string(event.ActivityType)).
		Float64("value", result.Value).
		Int("propagated", propagated).
		Msg("interaction learned")
	return result, nil
}

// DecayUser runs the recency sweep for one user and returns the number of
// rows decayed. A cached session is decayed in place so it reloads the new
// scores; otherwise only the affinity list is loaded and the session cache
// is left alone.
func (l *Learner) DecayUser(ctx context.Context, userID string) (int, error) {
	sess, ok := l.registry.Cached(userID)
	if !ok {
		var err error
		if sess, err = l.registry.Affinities(ctx, userID); err != nil {
			return 0, err
		}
	}
	n, err := l.updater.DecayRecency(ctx, sess)
	if err != nil {
		return n, fmt.Errorf("decay recency for %s: %w", userID, err)
	}
	return n, nil
}
