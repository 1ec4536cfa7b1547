// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Updater turns one interaction into a change to exactly one affinity row.
//
// Writes are compare-and-swap on the row version. When a concurrent writer
// wins, the row is re-read and the interaction is blended into the fresh
// values, up to maxRetries times.
type Updater struct {
	store      Store
	maxRetries int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewUpdater creates an Updater.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewUpdater(store Store, maxRetries int, logger zerolog.Logger) *Updater {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Updater{
		store:      store,
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "affinity_updater").Logger(),
		now:        time.Now,
	}
}

// Apply blends value into the user's affinity for categoryID, creating the
// row on first interaction. An empty categoryID is skipped.
func (u *Updater) Apply(ctx context.Context, sess *Session, categoryID string, value float64, activity models.ActivityType) error {
	if categoryID == "" {
		u.logger.Debug().Err(ErrMissingCategory).Str("user_id", sess.UserID()).Msg("skipping affinity update")
		return nil
	}

	current, exists := sess.Affinity(categoryID)
	for attempt := 0; ; attempt++ {
		now := u.now()
		var (
			next models.Affinity
			op   string
			err  error
		)
		if exists {
			next = blend(current, value, activity, now)
			op = "update"
			err = u.store.UpdateAffinity(ctx, &next)
		} else {
			next = newAffinity(sess.UserID(), categoryID, value, activity, now)
			op = "insert"
			err = u.store.InsertAffinity(ctx, &next)
		}

		if err == nil {
			metrics.AffinityWrites.WithLabelValues(op).Inc()
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return fmt.Errorf("%s affinity %s/%s: %w", op, sess.UserID(), categoryID, err)
		}
		if attempt >= u.maxRetries {
			metrics.AffinityConflicts.WithLabelValues("exhausted").Inc()
			return fmt.Errorf("%s affinity %s/%s after %d retries: %w", op, sess.UserID(), categoryID, attempt, err)
		}
		metrics.AffinityConflicts.WithLabelValues("retried").Inc()

		fresh, err := u.store.GetAffinity(ctx, sess.UserID(), categoryID)
		switch {
		case errors.Is(err, ErrNotFound):
			exists = false
		case err != nil:
			return fmt.Errorf("re-read affinity %s/%s: %w", sess.UserID(), categoryID, err)
		default:
			current, exists = *fresh, true
		}

		u.logger.Debug().
			Str("user_id", sess.UserID()).
			Str("category_id", categoryID).
			Int("attempt", attempt+1).
			Msg("affinity version conflict, retrying")
	}
}

// DecayRecency applies recency decay to every cached row whose last
// interaction is in the past, then reloads the session. Rows that changed
// concurrently are skipped, since a fresh interaction already reset their
// recency. It returns the number of rows written.
func (u *Updater) DecayRecency(ctx context.Context, sess *Session) (int, error) {
	now := u.now()
	decayed := 0
	var errs []error

	for _, a := range sess.Affinities() {
		days := now.Sub(a.LastInteraction).Hours() / 24
		if days <= 0 {
			continue
		}
		recency := decayedRecency(a.RecencyScore, days)

		err := u.store.UpdateRecency(ctx, a.ID, a.Version, recency, now)
		switch {
		case err == nil:
			decayed++
		case errors.Is(err, ErrVersionConflict):
			u.logger.Debug().Str("user_id", sess.UserID()).Str("category_id", a.CategoryID).Msg("affinity changed during decay, skipping")
		default:
			errs = append(errs, fmt.Errorf("decay affinity %s: %w", a.ID, err))
		}
	}
	metrics.AffinityWrites.WithLabelValues("decay").Add(float64(decayed))

	if err := sess.ReloadAffinities(ctx); err != nil {
		errs = append(errs, err)
	}
	return decayed, errors.Join(errs...)
}
