// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"sort"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

const (
	// DiversityThreshold is the per-type candidate count above which the
	// diversity penalty applies.
	DiversityThreshold = 3

	// DiversityPenalty multiplies every candidate of an over-represented type.
	DiversityPenalty = 0.9

	// DefaultStrategyWeight applies to strategies without an explicit weight.
	DefaultStrategyWeight = 0.5
)

var strategyWeights = map[models.Strategy]float64{
	models.StrategyContent:       1.0,
	models.StrategyCollaborative: 0.9,
	models.StrategyTrending:      0.8,
}

// StrategyWeight returns the ranking multiplier for a strategy.
func StrategyWeight(s models.Strategy) float64 {
	if w, ok := strategyWeights[s]; ok {
		return w
	}
	return DefaultStrategyWeight
}

// rankCandidates deduplicates on Key, keeping the higher raw score, sets
// FinalScore from the strategy weight and the diversity penalty, and sorts
// by FinalScore descending. Equal final scores keep first-seen order.
func rankCandidates(candidates []models.Candidate) []models.Candidate {
	index := make(map[string]int, len(candidates))
	unique := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		key := candidates[i].Key()
		if j, ok := index[key]; ok {
			if candidates[i].Score > unique[j].Score {
				unique[j] = candidates[i]
			}
			continue
		}
		index[key] = len(unique)
		unique = append(unique, candidates[i])
	}

	perType := make(map[models.ContentType]int)
	for i := range unique {
		perType[unique[i].Type]++
	}

	for i := range unique {
		final := unique[i].Score * StrategyWeight(unique[i].Strategy)
		if perType[unique[i].Type] > DiversityThreshold {
			final *= DiversityPenalty
		}
		unique[i].FinalScore = final
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].FinalScore > unique[j].FinalScore
	})
	return unique
}
