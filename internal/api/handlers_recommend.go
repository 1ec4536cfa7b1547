// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/validation"
)

// InterestResponse is the payload of the interest endpoint.
type InterestResponse struct {
	UserID      string             `json:"user_id"`
	ContentType models.ContentType `json:"content_type"`
	ContentID   string             `json:"content_id"`
	Score       float64            `json:"score"`
}

// userIDParam validates the {userID} path parameter.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userID")
	if verr := validation.ValidateVar(userID, "required,uuid"); verr != nil {
		respondValidation(w, r, verr)
		return "", false
	}
	return userID, true
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.cfg.RequestTimeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
}

// Recommendations returns up to count ranked items. Strategy failures are
// reported in the payload and do not fail the request.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	count, err := parseCount(r, h.cfg.DefaultCount, h.cfg.MaxCount)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	sess, err := h.sessions.Session(ctx, userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	result, err := h.recommender.GetRecommendations(ctx, sess, count)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result, start)
}

// Interest returns the user's predicted interest in one item. Unknown
// content types and missing items score 0.
func (h *Handler) Interest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	contentType := models.ContentType(chi.URLParam(r, "contentType"))
	contentID := chi.URLParam(r, "contentID")

	ctx, cancel := h.requestContext(r)
	defer cancel()

	sess, err := h.sessions.Session(ctx, userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	score, err := h.recommender.PredictInterest(ctx, sess, contentType, contentID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, InterestResponse{
		UserID:      userID,
		ContentType: contentType,
		ContentID:   contentID,
		Score:       score,
	}, start)
}

// ExportPreferences returns the user's full preference export.
func (h *Handler) ExportPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	export, err := h.exporter.Export(ctx, userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="preferences.json"`)
	respondSuccess(w, r, http.StatusOK, export, start)
}
