// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

/*
Package preference learns per-user category affinities from implicit
feedback.

# Model

Each (user, category) pair has one affinity row with three signals:

  - engagement_score: exponential moving average of interaction values
    (alpha 0.3), capped at 1.0
  - frequency_score: +0.05 per interaction, capped at 1.0, never decays
  - recency_score: reset to 1.0 on interaction, decayed by 0.95 per day
    during the periodic sweep

overall_score is computed by the database from the three signals.

An interaction's value is its activity weight (create 1.0 down to search
0.1) plus ln(1 + minutes)*0.1 when a duration is given.

# Components

  - Session: cached profile, affinity list, similarity graph and
    similar-users list for one user
  - Registry: bounded LRU of sessions
  - Updater: compare-and-swap writes with re-read on conflict, recency decay
  - Propagator: single-hop spreading activation over the similarity graph
  - Learner: ingestion entrypoint tying the above together
  - Exporter: read-only preference report

# Example

	reg := preference.NewRegistry(store, cfg, logger)
	upd := preference.NewUpdater(store, cfg.MaxConflictRetries, logger)
	learner := preference.NewLearner(reg, upd, preference.NewPropagator(upd, logger), store, cfg, logger)

	res, err := learner.LearnFromInteraction(ctx, &models.InteractionEvent{
	    UserID:       userID,
	    ActivityType: models.ActivityFavorite,
	    CategoryID:   categoryID,
	})
*/
package preference
