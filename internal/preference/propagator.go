// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Propagator spreads part of an interaction's value to similar categories.
// It is single hop: reinforced neighbors do not propagate further.
type Propagator struct {
	updater *Updater
	logger  zerolog.Logger
}

// NewPropagator creates a Propagator that writes through updater.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPropagator(updater *Updater, logger zerolog.Logger) *Propagator {
	return &Propagator{
		updater: updater,
		logger:  logger.With().Str("component", "propagator").Logger(),
	}
}

// Propagate applies value*weight as a view to every neighbor of source whose
// edge weight exceeds SimilarityThreshold. Nothing happens when the graph is
// empty or value is below MinPropagationValue. Neighbors are visited in
// category order; a failed neighbor does not stop the rest.
func (p *Propagator) Propagate(ctx context.Context, sess *Session, source string, value float64) (int, error) {
	graph := sess.Graph()
	if graph.Empty() || value < MinPropagationValue {
		return 0, nil
	}

	neighbors := graph.Neighbors(source)
	targets := make([]string, 0, len(neighbors))
	for target := range neighbors {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	applied := 0
	var errs []error
	for _, target := range targets {
		weight := neighbors[target]
		if weight <= SimilarityThreshold {
			continue
		}
		if err := p.updater.Apply(ctx, sess, target, value*weight, models.ActivityView); err != nil {
			errs = append(errs, err)
			continue
		}
		applied++
	}

	metrics.PropagatedUpdates.Add(float64(applied))
	if applied > 0 {
		p.logger.Debug().
			Str("user_id", sess.UserID()).
			Str("source_category", source).
			Float64("value", value).
			Int("targets", applied).
			Msg("propagated interaction")
	}
	return applied, errors.Join(errs...)
}
