// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import "time"

// Config tunes the preference core. Scoring constants are fixed in
// weights.go and are not configurable.
type Config struct {
	// SessionTTL is how long a session's profile, graph and similar-users
	// list are reused before the session is initialized again.
	SessionTTL time.Duration

	// CooccurrenceUserLimit is passed to the co-occurrence query.
	CooccurrenceUserLimit int

	// MaxConflictRetries bounds re-reads after ErrVersionConflict.
	MaxConflictRetries int

	// RecordActivity appends each learned interaction to the activity log.
	RecordActivity bool

	// CacheSize and IdleTTL bound the session registry.
	CacheSize int
	IdleTTL   time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SessionTTL:            5 * time.Minute,
		CooccurrenceUserLimit: 1000,
		MaxConflictRetries:    3,
		RecordActivity:        true,
		CacheSize:             10000,
		IdleTTL:               30 * time.Minute,
	}
}
