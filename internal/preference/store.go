// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Store is the persistence the preference core needs. It is implemented by
// the database package and by in-memory fakes in tests.
type Store interface {
	// GetProfile returns the user's profile or ErrNotFound.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// ListAffinities returns every affinity row for the user, highest
	// overall_score first, with category names joined in.
	ListAffinities(ctx context.Context, userID string) ([]models.Affinity, error)

	// GetAffinity returns one row or ErrNotFound.
	GetAffinity(ctx context.Context, userID, categoryID string) (*models.Affinity, error)

	// InsertAffinity creates a row and fills in ID and Version. It returns
	// ErrVersionConflict if a row for (user, category) already exists.
	InsertAffinity(ctx context.Context, a *models.Affinity) error

	// UpdateAffinity writes scores, counters and timestamps only if the
	// stored version still equals a.Version, then advances a.Version.
	// It returns ErrVersionConflict otherwise.
	UpdateAffinity(ctx context.Context, a *models.Affinity) error

	// UpdateRecency writes a decayed recency score under the same
	// compare-and-swap rule as UpdateAffinity.
	UpdateRecency(ctx context.Context, id string, version int64, recency float64, updatedAt time.Time) error

	// CategoryCooccurrences returns the similarity edges.
	CategoryCooccurrences(ctx context.Context, limitUsers int) ([]models.CategoryEdge, error)
}

// ActivityRecorder appends an interaction to the activity log read by the
// collaborative and trending procedures.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, event *models.InteractionEvent) error
}
