// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found wins over unavailable", fmt.Errorf("%w: %w", preference.ErrDataUnavailable, preference.ErrNotFound), http.StatusNotFound, models.ErrCodeNotFound},
		{"unavailable", fmt.Errorf("get affinities: %w", preference.ErrDataUnavailable), http.StatusServiceUnavailable, models.ErrCodeDataUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, models.ErrCodeDataUnavailable},
		{"conflict", preference.ErrVersionConflict, http.StatusConflict, models.ErrCodeConflict},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		status, code, msg := errorStatus(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("%s: errorStatus() = (%d, %s), want (%d, %s)", tt.name, status, code, tt.wantStatus, tt.wantCode)
		}
		if msg == "" || msg == tt.err.Error() {
			t.Errorf("%s: message %q must be client-safe", tt.name, msg)
		}
	}
}
