// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package services

import (
	"context"
	"fmt"
	"time"
)

// IngestionRunner is satisfied by *eventprocessor.Components.
type IngestionRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// IngestionService runs the NATS interaction consumer under supervision.
// A failed Start (NATS unreachable, stream misconfigured) is returned so that
// suture retries with backoff while the HTTP API keeps serving.
type IngestionService struct {
	components      IngestionRunner
	shutdownTimeout time.Duration
	name            string
}

// NewIngestionService wraps components.
func NewIngestionService(components IngestionRunner, shutdownTimeout time.Duration) *IngestionService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &IngestionService{
		components:      components,
		shutdownTimeout: shutdownTimeout,
		name:            "interaction-ingestion",
	}
}

// Serve implements suture.Service.
func (s *IngestionService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("start interaction ingestion: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *IngestionService) String() string {
	return s.name
}
