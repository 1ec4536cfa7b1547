// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package models

import "time"

// Profile is the read-only user record the scorer needs. Location is optional.
type Profile struct {
	ID          string                 `json:"id"`
	DisplayName string                 `json:"display_name,omitempty"`
	Latitude    *float64               `json:"latitude,omitempty"`
	Longitude   *float64               `json:"longitude,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// HasLocation reports whether both coordinates are present.
func (p *Profile) HasLocation() bool {
	return p != nil && p.Latitude != nil && p.Longitude != nil
}

// CategoryEdge is one co-occurrence row: Source -> Target with Weight in [0,1].
type CategoryEdge struct {
	Source string  `json:"category1"`
	Target string  `json:"category2"`
	Weight float64 `json:"correlation_score"`
}

// CategoryGraph is a directed weighted similarity graph keyed by source
// category. A nil or empty graph is valid and has no edges.
type CategoryGraph map[string]map[string]float64

// NewCategoryGraph builds a graph from co-occurrence rows. Edges keep their
// stored direction.
func NewCategoryGraph(edges []CategoryEdge) CategoryGraph {
	g := make(CategoryGraph)
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		out, ok := g[e.Source]
		if !ok {
			out = make(map[string]float64)
			g[e.Source] = out
		}
		out[e.Target] = e.Weight
	}
	return g
}

// Neighbors returns the outgoing edges of category.
func (g CategoryGraph) Neighbors(category string) map[string]float64 {
	return g[category]
}

// Empty reports whether the graph has no source nodes.
func (g CategoryGraph) Empty() bool {
	return len(g) == 0
}

// SimilarUser is one row of find_similar_users.
type SimilarUser struct {
	UserID          string  `json:"user_id"`
	SimilarityScore float64 `json:"similarity_score"`
}
