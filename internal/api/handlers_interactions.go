// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/validation"
)

// RecordInteraction learns from one interaction event.
//
// The body is a models.InteractionEvent. Unknown activity and content types
// are rejected here so that they never reach the learner.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var event models.InteractionEvent
	if err := decodeJSONBody(w, r, &event); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "request body must be a JSON interaction event", err)
		return
	}
	if verr := validation.ValidateStruct(&event); verr != nil {
		respondValidation(w, r, verr)
		return
	}
	if h.authorizer != nil && !h.authorizer.Authorized(r.Context(), event.UserID) {
		respondError(w, r, http.StatusForbidden, models.ErrCodeForbidden, "cannot record interactions for another user", nil)
		return
	}

	result, err := h.learner.LearnFromInteraction(r.Context(), &event)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result, start)
}
