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

// TopCategoryLimit is the size of the top-categories section of an export.
const TopCategoryLimit = 10

// Exporter builds read-only preference reports.
type Exporter struct {
	registry *Registry
	now      func() time.Time
}

// NewExporter creates an Exporter.
func NewExporter(registry *Registry) *Exporter {
	return &Exporter{registry: registry, now: time.Now}
}

// Export forces a fresh session load and reports the user's profile, every
// affinity row and the top categories.
func (e *Exporter) Export(ctx context.Context, userID string) (*models.PreferenceExport, error) {
	sess, err := e.registry.Fresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildExport(sess, e.now()), nil
}

func buildExport(sess *Session, now time.Time) *models.PreferenceExport {
	affinities := sess.Affinities()

	n := len(affinities)
	if n > TopCategoryLimit {
		n = TopCategoryLimit
	}
	top := make([]models.CategorySummary, 0, n)
	for _, a := range affinities[:n] {
		top = append(top, models.CategorySummary{
			CategoryID:   a.CategoryID,
			Name:         a.CategoryName,
			OverallScore: a.OverallScore,
			Interactions: a.Counts.Engagement(),
		})
	}

	return &models.PreferenceExport{
		UserID:         sess.UserID(),
		Profile:        sess.Profile(),
		AffinityScores: affinities,
		TopCategories:  top,
		ExportedAt:     now.UTC(),
	}
}
