// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

// Learner is the part of preference.Learner the consumer needs.
type Learner interface {
	LearnFromInteraction(ctx context.Context, event *models.InteractionEvent) (*preference.LearnResult, error)
}

// HandlerStats is a snapshot of the handler counters.
type HandlerStats struct {
	Received  int64
	Learned   int64
	Invalid   int64
	Failed    int64
	LastEvent time.Time
}

// InteractionHandler learns from one interaction message.
type InteractionHandler struct {
	learner Learner
	logger  zerolog.Logger

	received  atomic.Int64
	learned   atomic.Int64
	invalid   atomic.Int64
	failed    atomic.Int64
	lastEvent atomic.Int64
}

// NewInteractionHandler returns a handler feeding learner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInteractionHandler(learner Learner, logger zerolog.Logger) *InteractionHandler {
	return &InteractionHandler{
		learner: learner,
		logger:  logger.With().Str("component", "interaction-consumer").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc.
//
// Returning nil acks the message. Permanent errors go to the poison subject
// without a retry; anything else is retried by the router.
func (h *InteractionHandler) Handle(msg *message.Message) error {
	start := time.Now()
	h.received.Add(1)
	h.lastEvent.Store(start.UnixNano())

	event, err := DecodeInteraction(msg.Payload)
	if err != nil {
		h.invalid.Add(1)
		metrics.RecordNATSMessage("invalid", time.Since(start))
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("rejecting malformed interaction")
		return NewPermanentError("invalid interaction", err)
	}

	ctx := logging.ContextWithCorrelationID(msg.Context(), msg.UUID)
	ctx = logging.ContextWithUserID(ctx, event.UserID)

	if _, err := h.learner.LearnFromInteraction(ctx, event); err != nil {
		h.failed.Add(1)
		metrics.RecordNATSMessage("failed", time.Since(start))
		log := logging.Ctx(ctx)
		if errors.Is(err, preference.ErrNotFound) {
			log.Warn().Err(err).Msg("interaction for unknown user")
			return NewPermanentError("unknown user", err)
		}
		log.Error().Err(err).Str("activity_type", string(event.ActivityType)).Msg("learning from interaction failed")
		return err
	}

	h.learned.Add(1)
	metrics.RecordNATSMessage("learned", time.Since(start))
	return nil
}

// Stats returns the current counters.
func (h *InteractionHandler) Stats() HandlerStats {
	stats := HandlerStats{
		Received: h.received.Load(),
		Learned:  h.learned.Load(),
		Invalid:  h.invalid.Load(),
		Failed:   h.failed.Load(),
	}
	if ns := h.lastEvent.Load(); ns != 0 {
		stats.LastEvent = time.Unix(0, ns)
	}
	return stats
}
