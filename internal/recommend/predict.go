// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

// PredictInterest returns ContentScore for a single item. Unknown content
// types and missing items score 0 without error; only a failed lookup is
// returned.
func (e *Engine) PredictInterest(ctx context.Context, sess Session, contentType models.ContentType, contentID string) (float64, error) {
	if contentType.Table() == "" {
		log := logging.CtxWith(ctx).Str("component", "recommend").Logger()
		log.Debug().
			Err(preference.ErrUnknownContentType).
			Str("content_type", string(contentType)).
			Msg("cannot predict interest")
		return 0, nil
	}

	item, err := e.catalog.GetItem(ctx, contentType, contentID)
	if errors.Is(err, preference.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s %s: %w", contentType, contentID, err)
	}
	return ContentScore(sess, item, e.now()), nil
}
