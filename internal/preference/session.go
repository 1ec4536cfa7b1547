// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Session holds one user's cached scoring inputs: profile, affinity list,
// category similarity graph and, while the session is valid, the
// similar-users list. It is safe for concurrent use.
//
// The affinity list is never patched in place; callers reload it after
// every mutation.
type Session struct {
	userID            string
	store             Store
	ttl               time.Duration
	cooccurrenceLimit int
	logger            zerolog.Logger
	now               func() time.Time

	// initMu serializes Initialize so concurrent callers of Ensure do not
	// all hit the store.
	initMu sync.Mutex

	mu            sync.RWMutex
	profile       *models.Profile
	affinities    []models.Affinity
	byCategory    map[string]int
	graph         models.CategoryGraph
	graphDegraded bool
	similarUsers  []models.SimilarUser
	similarLoaded bool
	initializedAt time.Time
}

// NewSession returns an uninitialized session for userID.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSession(userID string, store Store, cfg Config, logger zerolog.Logger) *Session {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultConfig().SessionTTL
	}
	return &Session{
		userID:            userID,
		store:             store,
		ttl:               ttl,
		cooccurrenceLimit: cfg.CooccurrenceUserLimit,
		logger:            logger.With().Str("component", "preference_session").Str("user_id", userID).Logger(),
		now:               time.Now,
		byCategory:        map[string]int{},
		graph:             models.CategoryGraph{},
	}
}

// UserID returns the session's user.
func (s *Session) UserID() string {
	return s.userID
}

// Initialize loads the profile, the affinity list and the similarity graph
// and stamps the session. Profile and affinity failures return an error
// wrapping ErrDataUnavailable and leave the previous state untouched. A graph
// failure is logged as ErrDegradedGraph and leaves the graph empty.
func (s *Session) Initialize(ctx context.Context) error {
	profile, err := s.store.GetProfile(ctx, s.userID)
	if err != nil {
		metrics.SessionInitErrors.WithLabelValues("profile").Inc()
		return fmt.Errorf("%w: load profile for %s: %w", ErrDataUnavailable, s.userID, err)
	}

	affinities, err := s.store.ListAffinities(ctx, s.userID)
	if err != nil {
		metrics.SessionInitErrors.WithLabelValues("affinities").Inc()
		return fmt.Errorf("%w: load affinities for %s: %w", ErrDataUnavailable, s.userID, err)
	}

	graph := models.CategoryGraph{}
	degraded := false
	edges, err := s.store.CategoryCooccurrences(ctx, s.cooccurrenceLimit)
	if err != nil {
		metrics.SessionInitErrors.WithLabelValues("graph").Inc()
		s.logger.Warn().Err(errors.Join(ErrDegradedGraph, err)).Msg("continuing with empty similarity graph")
		degraded = true
	} else {
		graph = models.NewCategoryGraph(edges)
	}

	s.mu.Lock()
	s.profile = profile
	s.setAffinitiesLocked(affinities)
	s.graph = graph
	s.graphDegraded = degraded
	s.similarUsers = nil
	s.similarLoaded = false
	s.initializedAt = s.now()
	s.mu.Unlock()

	s.logger.Debug().
		Int("affinities", len(affinities)).
		Int("graph_sources", len(graph)).
		Bool("graph_degraded", degraded).
		Msg("session initialized")
	return nil
}

// Ensure initializes the session unless it is already valid.
func (s *Session) Ensure(ctx context.Context) error {
	if s.IsValid() {
		return nil
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.IsValid() {
		return nil
	}
	return s.Initialize(ctx)
}

// IsValid reports whether the session was initialized less than the TTL ago.
func (s *Session) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	if s.initializedAt.IsZero() {
		return false
	}
	return s.now().Sub(s.initializedAt) < s.ttl
}

// ReloadAffinities refetches the affinity list unconditionally.
func (s *Session) ReloadAffinities(ctx context.Context) error {
	affinities, err := s.store.ListAffinities(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("%w: reload affinities for %s: %w", ErrDataUnavailable, s.userID, err)
	}
	s.mu.Lock()
	s.setAffinitiesLocked(affinities)
	s.mu.Unlock()
	return nil
}

// setAffinitiesLocked stores the list ordered by overall_score descending.
// The store already orders it; sorting again keeps fakes honest.
func (s *Session) setAffinitiesLocked(affinities []models.Affinity) {
	sorted := make([]models.Affinity, len(affinities))
	copy(sorted, affinities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})

	index := make(map[string]int, len(sorted))
	for i := range sorted {
		index[sorted[i].CategoryID] = i
	}
	s.affinities = sorted
	s.byCategory = index
}

// Profile returns the cached profile, or nil before Initialize.
func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Affinities returns a copy of the cached affinity list.
func (s *Session) Affinities() []models.Affinity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Affinity, len(s.affinities))
	copy(out, s.affinities)
	return out
}

// Affinity returns the cached row for categoryID.
func (s *Session) Affinity(categoryID string) (models.Affinity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byCategory[categoryID]
	if !ok {
		return models.Affinity{}, false
	}
	return s.affinities[i], true
}

// TopCategories returns up to n category IDs in affinity order.
func (s *Session) TopCategories(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.affinities) {
		n = len(s.affinities)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.affinities[i].CategoryID)
	}
	return out
}

// Graph returns the similarity graph. It is replaced, never mutated, so the
// returned map may be read without locking.
func (s *Session) Graph() models.CategoryGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// GraphDegraded reports whether the last Initialize fell back to an empty graph.
func (s *Session) GraphDegraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphDegraded
}

// SimilarUsers returns the cached similar-users list if it was fetched
// since the last Initialize and the session is still valid.
func (s *Session) SimilarUsers() ([]models.SimilarUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.similarLoaded || !s.validLocked() {
		return nil, false
	}
	return s.similarUsers, true
}

// SetSimilarUsers caches the similar-users list. An empty list is cached too.
func (s *Session) SetSimilarUsers(users []models.SimilarUser) {
	s.mu.Lock()
	s.similarUsers = users
	s.similarLoaded = true
	s.mu.Unlock()
}
