// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
	"github.com/tomtom215/permahub-affinity/internal/recommend"
)

// Learner applies interactions. *preference.Learner implements it.
type Learner interface {
	LearnFromInteraction(ctx context.Context, event *models.InteractionEvent) (*preference.LearnResult, error)
}

// Recommender ranks content for a session. *recommend.Engine implements it.
type Recommender interface {
	GetRecommendations(ctx context.Context, sess recommend.Session, count int) (*recommend.Result, error)
	PredictInterest(ctx context.Context, sess recommend.Session, contentType models.ContentType, contentID string) (float64, error)
}

// Sessions resolves a user's scoring session.
type Sessions interface {
	Session(ctx context.Context, userID string) (recommend.Session, error)
}

// Exporter produces preference exports. *preference.Exporter implements it.
type Exporter interface {
	Export(ctx context.Context, userID string) (*models.PreferenceExport, error)
}

// Authorizer decides whether the caller may act for a user.
// *auth.Middleware implements it.
type Authorizer interface {
	Authorized(ctx context.Context, userID string) bool
}

// Pinger is the readiness dependency. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig carries request limits.
type HandlerConfig struct {
	DefaultCount   int
	MaxCount       int
	RequestTimeout time.Duration
	Version        string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_interactions.go: interaction ingestion
//   - handlers_recommend.go: recommendations, interest and export
type Handler struct {
	learner     Learner
	recommender Recommender
	sessions    Sessions
	exporter    Exporter
	authorizer  Authorizer
	db          Pinger
	cfg         HandlerConfig
	startTime   time.Time
}

// Deps groups the handler's collaborators.
type Deps struct {
	Learner     Learner
	Recommender Recommender
	Sessions    Sessions
	Exporter    Exporter
	Authorizer  Authorizer
	DB          Pinger
}

// NewHandler creates the API handler.
func NewHandler(deps Deps, cfg HandlerConfig) *Handler {
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 10
	}
	if cfg.MaxCount < cfg.DefaultCount {
		cfg.MaxCount = cfg.DefaultCount
	}
	return &Handler{
		learner:     deps.Learner,
		recommender: deps.Recommender,
		sessions:    deps.Sessions,
		exporter:    deps.Exporter,
		authorizer:  deps.Authorizer,
		db:          deps.DB,
		cfg:         cfg,
		startTime:   time.Now(),
	}
}

// registrySessions adapts *preference.Registry to Sessions.
type registrySessions struct {
	registry *preference.Registry
}

// SessionsFromRegistry exposes registry sessions as recommend.Session values.
func SessionsFromRegistry(registry *preference.Registry) Sessions {
	return registrySessions{registry: registry}
}

func (s registrySessions) Session(ctx context.Context, userID string) (recommend.Session, error) {
	sess, err := s.registry.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
