// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

// errorStatus maps a domain error to an HTTP status, error code and a
// client-safe message.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, preference.ErrNotFound):
		return http.StatusNotFound, models.ErrCodeNotFound, "user not found"
	case errors.Is(err, preference.ErrDataUnavailable):
		return http.StatusServiceUnavailable, models.ErrCodeDataUnavailable, "preference data is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, models.ErrCodeDataUnavailable, "request timed out"
	case errors.Is(err, preference.ErrVersionConflict):
		return http.StatusConflict, models.ErrCodeConflict, "concurrent update, retry the request"
	default:
		return http.StatusInternalServerError, models.ErrCodeInternal, "internal error"
	}
}
