// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"context"
	"sync"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

const (
	testUserID     = "6f1c2f0e-4a1b-4c5d-9e8f-0a1b2c3d4e5f"
	testCategoryID = "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
)

// scriptedLearner returns errs in order, then succeeds. A nil entry succeeds
// for that call.
type scriptedLearner struct {
	mu     sync.Mutex
	errs   []error
	always error
	panics bool
	events []models.InteractionEvent
}

func (l *scriptedLearner) LearnFromInteraction(_ context.Context, event *models.InteractionEvent) (*preference.LearnResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *event)
	if l.panics {
		panic("learner exploded")
	}
	if l.always != nil {
		return nil, l.always
	}
	if len(l.errs) > 0 {
		err := l.errs[0]
		l.errs = l.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &preference.LearnResult{UserID: event.UserID, CategoryID: event.CategoryID, Value: 0.8}, nil
}

func (l *scriptedLearner) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func validPayload() []byte {
	return []byte(`{"user_id":"` + testUserID + `","activity_type":"favorite","content_type":"resource","content_id":"2b7f0e1a-3c4d-4e5f-8a9b-0c1d2e3f4a5b","category_id":"` + testCategoryID + `"}`)
}
