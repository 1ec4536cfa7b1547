// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"math"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Learning constants.
const (
	// LearningRate is the EMA alpha for engagement_score.
	LearningRate = 0.3

	// FrequencyIncrement is added to frequency_score per interaction.
	FrequencyIncrement = 0.05

	// InitialFrequency is the frequency_score of a new row.
	InitialFrequency = 0.1

	// RecencyDecayFactor is applied once per elapsed day (half-life ~13.5 days).
	RecencyDecayFactor = 0.95

	// SimilarityThreshold is the minimum edge weight, exclusive, that
	// propagation follows.
	SimilarityThreshold = 0.3

	// MinPropagationValue is the smallest value worth propagating.
	MinPropagationValue = 0.01

	// PropagationFactor scales an interaction's value before propagation.
	PropagationFactor = 0.3

	// UnknownActivityWeight is used for activity types not in the table.
	UnknownActivityWeight = 0.1

	// DurationBonusScale multiplies ln(1 + minutes).
	DurationBonusScale = 0.1
)

var activityWeights = map[models.ActivityType]float64{
	models.ActivityCreate:   1.0,
	models.ActivityFavorite: 0.8,
	models.ActivityShare:    0.7,
	models.ActivityComment:  0.6,
	models.ActivityDownload: 0.5,
	models.ActivityClick:    0.3,
	models.ActivityView:     0.2,
	models.ActivitySearch:   0.1,
}

// ActivityWeight returns the base weight of an activity type.
func ActivityWeight(activity models.ActivityType) float64 {
	if w, ok := activityWeights[activity]; ok {
		return w
	}
	return UnknownActivityWeight
}

// ComputeInteractionValue returns the base weight plus a log-damped bonus
// for time spent. The result is not bounded above.
func ComputeInteractionValue(activity models.ActivityType, durationSeconds *float64) float64 {
	value := ActivityWeight(activity)
	if durationSeconds != nil && *durationSeconds > 0 {
		value += math.Log(1+*durationSeconds/60) * DurationBonusScale
	}
	return value
}

// blend folds one interaction into an existing row.
func blend(a models.Affinity, value float64, activity models.ActivityType, now time.Time) models.Affinity {
	a.EngagementScore = math.Min(1.0, a.EngagementScore*(1-LearningRate)+value*LearningRate)
	a.FrequencyScore = math.Min(1.0, a.FrequencyScore+FrequencyIncrement)
	a.RecencyScore = 1.0
	a.Counts.Increment(activity)
	a.LastInteraction = now
	a.UpdatedAt = now
	return a
}

// newAffinity builds the first row for a category. Engagement is the raw
// value and is not clamped.
func newAffinity(userID, categoryID string, value float64, activity models.ActivityType, now time.Time) models.Affinity {
	a := models.Affinity{
		UserID:          userID,
		CategoryID:      categoryID,
		EngagementScore: value,
		FrequencyScore:  InitialFrequency,
		RecencyScore:    1.0,
		LastInteraction: now,
		UpdatedAt:       now,
	}
	a.Counts.Increment(activity)
	return a
}

// decayedRecency applies RecencyDecayFactor per elapsed day, floored at 0.
func decayedRecency(recency, days float64) float64 {
	return math.Max(0, recency*math.Pow(RecencyDecayFactor, days))
}
