// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package models

import "time"

// InteractionEvent is one observed user interaction. It is validated at the
// API and consumer boundaries; CategoryID may be empty, in which case no
// affinity is learned.
type InteractionEvent struct {
	UserID          string       `json:"user_id" validate:"required,uuid"`
	ActivityType    ActivityType `json:"activity_type" validate:"required,activity_type"`
	ContentType     ContentType  `json:"content_type" validate:"omitempty,content_type"`
	ContentID       string       `json:"content_id,omitempty" validate:"omitempty,uuid"`
	CategoryID      string       `json:"category_id,omitempty" validate:"omitempty,uuid"`
	DurationSeconds *float64     `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	OccurredAt      *time.Time   `json:"occurred_at,omitempty"`
}

// PreferenceExport is the read-only report produced by a preference export.
type PreferenceExport struct {
	UserID         string            `json:"user_id"`
	Profile        *Profile          `json:"profile"`
	AffinityScores []Affinity        `json:"affinity_scores"`
	TopCategories  []CategorySummary `json:"top_categories"`
	ExportedAt     time.Time         `json:"exported_at"`
}
