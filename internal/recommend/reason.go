// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import "github.com/tomtom215/permahub-affinity/internal/models"

// Reason returns the user-facing explanation for a candidate.
func Reason(c *models.Candidate) string {
	switch c.Strategy {
	case models.StrategyContent:
		name := c.CategoryName
		if name == "" {
			name = "similar content"
		}
		return "Based on your interest in " + name
	case models.StrategyCollaborative:
		return "Popular with users like you"
	case models.StrategyTrending:
		return "Trending in the community"
	case models.StrategyLocation:
		return "Near your location"
	case models.StrategyRecent:
		return "Recently added"
	default:
		return "Recommended for you"
	}
}
