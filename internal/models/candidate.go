// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package models

import "time"

// Strategy names the generator that produced a candidate.
type Strategy string

const (
	StrategyContent       Strategy = "content"
	StrategyCollaborative Strategy = "collaborative"
	StrategyTrending      Strategy = "trending"
	StrategyLocation      Strategy = "location"
	StrategyRecent        Strategy = "recent"
)

// CatalogItem is a row from resources, projects or wiki_guides, reduced to
// the fields the content score reads.
type CatalogItem struct {
	Type       ContentType `json:"type"`
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	CategoryID string      `json:"category_id,omitempty"`

	// CategoryName is joined from the category table when available.
	CategoryName string `json:"category_name,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
}

// HasLocation reports whether both coordinates are present.
func (i *CatalogItem) HasLocation() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// Candidate is a request-scoped recommendation. Score is the raw generator
// score; FinalScore is set by ranking.
type Candidate struct {
	Type         ContentType `json:"type"`
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	CategoryID   string      `json:"category_id,omitempty"`
	CategoryName string      `json:"category_name,omitempty"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
	Score        float64     `json:"score"`
	FinalScore   float64     `json:"final_score"`
	Strategy     Strategy    `json:"strategy"`
	Reason       string      `json:"reason,omitempty"`
}

// Key is the deduplication key "type:id".
func (c *Candidate) Key() string {
	return string(c.Type) + ":" + c.ID
}

// RemoteCandidate is a row returned by get_collaborative_recommendations or
// get_trending_content. Score is the similarity or trend score.
type RemoteCandidate struct {
	ContentType ContentType `json:"content_type"`
	ContentID   string      `json:"content_id"`
	Title       string      `json:"title"`
	Score       float64     `json:"score"`
}
