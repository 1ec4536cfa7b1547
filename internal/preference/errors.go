// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import "errors"

var (
	// ErrDataUnavailable means a required read (profile or affinity list)
	// failed. Scoring must not proceed.
	ErrDataUnavailable = errors.New("preference data unavailable")

	// ErrDegradedGraph means the category similarity graph could not be
	// loaded. The session continues with an empty graph.
	ErrDegradedGraph = errors.New("category similarity graph unavailable")

	// ErrGeneratorFailed marks a recommendation strategy that produced no
	// candidates because its query failed.
	ErrGeneratorFailed = errors.New("recommendation generator failed")

	// ErrUnknownContentType is logged when interest is predicted for a
	// content type with no backing collection.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrMissingCategory marks an interaction or propagation target with no
	// category. It is skipped, never returned.
	ErrMissingCategory = errors.New("interaction has no category")

	// ErrVersionConflict is returned by the store when a compare-and-swap
	// on an affinity row loses to a concurrent writer, or when an insert
	// hits an existing (user, category) row.
	ErrVersionConflict = errors.New("affinity version conflict")

	// ErrNotFound is returned by the store for a missing row.
	ErrNotFound = errors.New("not found")
)
