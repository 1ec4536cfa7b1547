// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"math"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Content score weights. They do not sum to one and the total is not
// normalized; only relative order matters.
const (
	CategoryWeight  = 0.5
	RecencyWeight   = 0.2
	ProximityWeight = 0.3

	// RecencyTimeConstantDays is the e-folding time of the recency term.
	RecencyTimeConstantDays = 30.0

	// ProximityRangeKM is the distance at which the proximity term reaches zero.
	ProximityRangeKM = 100.0

	// EarthRadiusKM is the mean Earth radius used by Haversine.
	EarthRadiusKM = 6371.0
)

// ContentScore rates item for the session's user as the sum of whichever
// terms apply:
//
//   - category: overall_score*0.5 when the user has an affinity row for the
//     item's category
//   - recency: exp(-days/30)*0.2 when the item has a creation time
//   - proximity: max(0, 1-km/100)*0.3 when both the user and the item have
//     coordinates
func ContentScore(sess Session, item *models.CatalogItem, now time.Time) float64 {
	score := 0.0

	if item.CategoryID != "" {
		if a, ok := sess.Affinity(item.CategoryID); ok {
			score += a.OverallScore * CategoryWeight
		}
	}

	if item.CreatedAt != nil {
		days := now.Sub(*item.CreatedAt).Hours() / 24
		score += math.Exp(-days/RecencyTimeConstantDays) * RecencyWeight
	}

	if profile := sess.Profile(); profile.HasLocation() && item.HasLocation() {
		km := Haversine(*profile.Latitude, *profile.Longitude, *item.Latitude, *item.Longitude)
		score += math.Max(0, 1-km/ProximityRangeKM) * ProximityWeight
	}

	return score
}

// Haversine returns the great-circle distance in kilometres between two
// points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
