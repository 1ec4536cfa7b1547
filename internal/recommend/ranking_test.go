// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

func cand(ct models.ContentType, id string, score float64, s models.Strategy) models.Candidate {
	return models.Candidate{Type: ct, ID: id, Score: score, Strategy: s}
}

func TestRankCandidates_DedupKeepsHigherScore(t *testing.T) {
	t.Parallel()

	got := rankCandidates([]models.Candidate{
		cand(models.ContentResource, "r1", 0.4, models.StrategyContent),
		cand(models.ContentResource, "r1", 0.7, models.StrategyTrending),
		cand(models.ContentProject, "r1", 0.1, models.StrategyContent),
	})

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 (same id, different type is distinct)", len(got))
	}
	if got[0].Key() != "resource:r1" || got[0].Strategy != models.StrategyTrending || got[0].Score != 0.7 {
		t.Errorf("survivor = %+v, want the trending copy with score 0.7", got[0])
	}
	if math.Abs(got[0].FinalScore-0.56) > epsilon {
		t.Errorf("FinalScore = %v, want 0.56", got[0].FinalScore)
	}
}

func TestRankCandidates_DedupKeepsFirstOnTie(t *testing.T) {
	t.Parallel()

	got := rankCandidates([]models.Candidate{
		cand(models.ContentResource, "r1", 0.5, models.StrategyContent),
		cand(models.ContentResource, "r1", 0.5, models.StrategyCollaborative),
	})
	if len(got) != 1 || got[0].Strategy != models.StrategyContent {
		t.Errorf("got %+v, want the first copy", got)
	}
}

func TestRankCandidates_StrategyWeights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strategy models.Strategy
		want     float64
	}{
		{models.StrategyContent, 1.0},
		{models.StrategyCollaborative, 0.9},
		{models.StrategyTrending, 0.8},
		{models.StrategyLocation, 0.5},
		{models.Strategy("experimental"), 0.5},
	}

	for _, tt := range tests {
		got := rankCandidates([]models.Candidate{cand(models.ContentResource, "r1", 1, tt.strategy)})
		if math.Abs(got[0].FinalScore-tt.want) > epsilon {
			t.Errorf("%s FinalScore = %v, want %v", tt.strategy, got[0].FinalScore, tt.want)
		}
	}
}

func TestRankCandidates_DiversityPenalty(t *testing.T) {
	t.Parallel()

	in := []models.Candidate{
		cand(models.ContentResource, "r1", 1, models.StrategyContent),
		cand(models.ContentResource, "r2", 1, models.StrategyContent),
		cand(models.ContentResource, "r3", 1, models.StrategyContent),
		cand(models.ContentResource, "r4", 1, models.StrategyContent),
		cand(models.ContentProject, "p1", 1, models.StrategyContent),
		cand(models.ContentProject, "p2", 1, models.StrategyContent),
		cand(models.ContentProject, "p3", 1, models.StrategyContent),
	}

	got := rankCandidates(in)
	for _, c := range got {
		want := 1.0
		if c.Type == models.ContentResource {
			want = 0.9
		}
		if math.Abs(c.FinalScore-want) > epsilon {
			t.Errorf("%s FinalScore = %v, want %v", c.Key(), c.FinalScore, want)
		}
	}
	for i := 0; i < 3; i++ {
		if got[i].Type != models.ContentProject {
			t.Errorf("position %d = %s, want projects first", i, got[i].Key())
		}
	}
}

func TestRankCandidates_DiversityCountsAfterDedup(t *testing.T) {
	t.Parallel()

	got := rankCandidates([]models.Candidate{
		cand(models.ContentResource, "r1", 1, models.StrategyContent),
		cand(models.ContentResource, "r1", 1, models.StrategyContent),
		cand(models.ContentResource, "r2", 1, models.StrategyContent),
		cand(models.ContentResource, "r3", 1, models.StrategyContent),
	})
	for _, c := range got {
		if c.FinalScore != 1 {
			t.Errorf("%s FinalScore = %v, want no penalty for 3 unique resources", c.Key(), c.FinalScore)
		}
	}
}

func TestRankCandidates_SortsDescending(t *testing.T) {
	t.Parallel()

	got := rankCandidates([]models.Candidate{
		cand(models.ContentResource, "low", 0.2, models.StrategyContent),
		cand(models.ContentProject, "high", 0.9, models.StrategyContent),
		cand(models.ContentWikiGuide, "mid", 0.6, models.StrategyTrending),
	})
	order := []string{"high", "mid", "low"}
	for i, id := range order {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		c    models.Candidate
		want string
	}{
		{models.Candidate{Strategy: models.StrategyContent, CategoryName: "Water Harvesting"}, "Based on your interest in Water Harvesting"},
		{models.Candidate{Strategy: models.StrategyContent}, "Based on your interest in similar content"},
		{models.Candidate{Strategy: models.StrategyCollaborative}, "Popular with users like you"},
		{models.Candidate{Strategy: models.StrategyTrending}, "Trending in the community"},
		{models.Candidate{Strategy: models.StrategyLocation}, "Near your location"},
		{models.Candidate{Strategy: models.StrategyRecent}, "Recently added"},
		{models.Candidate{Strategy: "other"}, "Recommended for you"},
	}

	for _, tt := range tests {
		if got := Reason(&tt.c); got != tt.want {
			t.Errorf("Reason(%s) = %q, want %q", tt.c.Strategy, got, tt.want)
		}
	}
}
