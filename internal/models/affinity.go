// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package models

import "time"

// ActivityType is the closed set of interaction kinds the platform records.
type ActivityType string

const (
	ActivityCreate   ActivityType = "create"
	ActivityFavorite ActivityType = "favorite"
	ActivityShare    ActivityType = "share"
	ActivityComment  ActivityType = "comment"
	ActivityDownload ActivityType = "download"
	ActivityClick    ActivityType = "click"
	ActivityView     ActivityType = "view"
	ActivitySearch   ActivityType = "search"
)

// ActivityTypes lists every known activity type in descending signal order.
var ActivityTypes = []ActivityType{
	ActivityCreate,
	ActivityFavorite,
	ActivityShare,
	ActivityComment,
	ActivityDownload,
	ActivityClick,
	ActivityView,
	ActivitySearch,
}

// Valid reports whether a is one of the known activity types.
func (a ActivityType) Valid() bool {
	for _, known := range ActivityTypes {
		if a == known {
			return true
		}
	}
	return false
}

// ContentType identifies the catalog collection an item belongs to.
type ContentType string

const (
	ContentProject   ContentType = "project"
	ContentResource  ContentType = "resource"
	ContentWikiGuide ContentType = "wiki_guide"
)

// Table returns the backing collection for the content type, or "" when the
// type is not recognized.
func (c ContentType) Table() string {
	switch c {
	case ContentProject:
		return "projects"
	case ContentResource:
		return "resources"
	case ContentWikiGuide:
		return "wiki_guides"
	default:
		return ""
	}
}

// ActivityCounts holds one counter per activity type.
// Counters only ever increase.
type ActivityCounts struct {
	View     int `json:"view_count"`
	Click    int `json:"click_count"`
	Create   int `json:"create_count"`
	Favorite int `json:"favorite_count"`
	Share    int `json:"share_count"`
	Comment  int `json:"comment_count"`
	Download int `json:"download_count"`
	Search   int `json:"search_count"`
}

// Increment bumps the counter for activity by one. Unknown activity types
// are ignored and reported as false.
func (c *ActivityCounts) Increment(activity ActivityType) bool {
	switch activity {
	case ActivityView:
		c.View++
	case ActivityClick:
		c.Click++
	case ActivityCreate:
		c.Create++
	case ActivityFavorite:
		c.Favorite++
	case ActivityShare:
		c.Share++
	case ActivityComment:
		c.Comment++
	case ActivityDownload:
		c.Download++
	case ActivitySearch:
		c.Search++
	default:
		return false
	}
	return true
}

// Engagement returns view+click+create+favorite, the interaction total used
// by preference exports.
func (c ActivityCounts) Engagement() int {
	return c.View + c.Click + c.Create + c.Favorite
}

// Affinity is one user's interest bundle for one category.
// There is exactly one row per (UserID, CategoryID).
type Affinity struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	CategoryID      string         `json:"category_id"`
	CategoryName    string         `json:"category_name,omitempty"`
	EngagementScore float64        `json:"engagement_score"`
	FrequencyScore  float64        `json:"frequency_score"`
	RecencyScore    float64        `json:"recency_score"`
	Counts          ActivityCounts `json:"counts"`
	OverallScore    float64        `json:"overall_score"`
	LastInteraction time.Time      `json:"last_interaction"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Version is the optimistic concurrency token; the store bumps it on
	// every successful update.
	Version int64 `json:"version"`
}

// CategorySummary is one line of the top-categories section of an export.
type CategorySummary struct {
	CategoryID   string  `json:"category_id"`
	Name         string  `json:"category"`
	OverallScore float64 `json:"score"`
	Interactions int     `json:"interactions"`
}
