// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import "github.com/tomtom215/permahub-affinity/internal/models"

// Result is the outcome of one recommendation request.
type Result struct {
	UserID string             `json:"user_id"`
	Items  []models.Candidate `json:"items"`

	// Strategies reports each generator in fan-out order.
	Strategies []StrategyOutcome `json:"strategies"`

	// Partial is true when at least one generator failed.
	Partial bool `json:"partial"`

	// TotalCandidates is the number of candidates before deduplication.
	TotalCandidates int `json:"total_candidates"`
}

// StrategyOutcome reports a single generator run.
type StrategyOutcome struct {
	Strategy   models.Strategy `json:"strategy"`
	Requested  int             `json:"requested"`
	Returned   int             `json:"returned"`
	DurationMS int64           `json:"duration_ms"`
	Error      string          `json:"error,omitempty"`

	// Err wraps preference.ErrGeneratorFailed when the generator failed.
	Err error `json:"-"`
}

// Failed reports whether the generator failed.
func (o *StrategyOutcome) Failed() bool {
	return o.Err != nil
}

// Failures returns the outcomes of failed generators.
func (r *Result) Failures() []StrategyOutcome {
	var out []StrategyOutcome
	for _, o := range r.Strategies {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
