// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by the HTTP handlers and the
// NATS consumer so that an interaction is checked the same way regardless of
// how it arrives. Field names in errors are the JSON names.
//
// # Custom Tags
//
//   - activity_type: one of create, favorite, share, comment, download,
//     click, view, search
//   - content_type: one of project, resource, wiki_guide
//
// Unknown activity types are rejected here at the boundary. The preference
// package still weights them as 0.1 for callers that bypass validation.
//
// # Usage
//
//	if verr := validation.ValidateStruct(&event); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
