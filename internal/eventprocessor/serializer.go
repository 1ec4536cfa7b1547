// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/validation"
)

// EncodeInteraction validates event and returns its wire form.
func EncodeInteraction(event *models.InteractionEvent) ([]byte, error) {
	if verr := validation.ValidateStruct(event); verr != nil {
		return nil, fmt.Errorf("validate interaction: %w", verr)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal interaction: %w", err)
	}
	return data, nil
}

// DecodeInteraction parses and validates one message payload. Unknown
// activity and content types are rejected here, before the learner sees them.
func DecodeInteraction(data []byte) (*models.InteractionEvent, error) {
	var event models.InteractionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal interaction: %w", err)
	}
	if verr := validation.ValidateStruct(&event); verr != nil {
		return nil, fmt.Errorf("validate interaction: %w", verr)
	}
	return &event, nil
}
