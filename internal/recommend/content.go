// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// contentBased scores recent resources from the user's top categories and
// recent active projects against the user's affinities. Projects are not
// filtered by category.
func (e *Engine) contentBased(ctx context.Context, sess Session, n int) ([]models.Candidate, error) {
	top := make([]string, 0, TopCategoryCount)
	for _, id := range sess.TopCategories(TopCategoryCount) {
		if id != "" {
			top = append(top, id)
		}
	}
	if len(top) == 0 {
		return nil, nil
	}

	resources, err := e.catalog.RecentResources(ctx, top, 2*n)
	if err != nil {
		return nil, fmt.Errorf("recent resources: %w", err)
	}
	projects, err := e.catalog.ActiveProjects(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("active projects: %w", err)
	}

	now := e.now()
	candidates := make([]models.Candidate, 0, len(resources)+len(projects))
	for _, items := range [][]models.CatalogItem{resources, projects} {
		for i := range items {
			candidates = append(candidates, e.contentCandidate(sess, &items[i], now))
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}

func (e *Engine) contentCandidate(sess Session, item *models.CatalogItem, now time.Time) models.Candidate {
	name := item.CategoryName
	if name == "" && item.CategoryID != "" {
		if a, ok := sess.Affinity(item.CategoryID); ok {
			name = a.CategoryName
		}
	}
	return models.Candidate{
		Type:         item.Type,
		ID:           item.ID,
		Title:        item.Title,
		CategoryID:   item.CategoryID,
		CategoryName: name,
		CreatedAt:    item.CreatedAt,
		Score:        ContentScore(sess, item, now),
	}
}
