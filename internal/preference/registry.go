// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/cache"
	"github.com/tomtom215/permahub-affinity/internal/metrics"
)

// Registry hands out one Session per user, kept in a bounded LRU with idle
// expiry. Sessions past their TTL are initialized again on next use.
type Registry struct {
	store    Store
	cfg      Config
	logger   zerolog.Logger
	sessions *cache.LRU[*Session]

	// now overrides the session clock, for tests.
	now func() time.Time
}

// NewRegistry creates a session registry over store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRegistry(store Store, cfg Config, logger zerolog.Logger) *Registry {
	return &Registry{
		store:  store,
		cfg:    cfg,
		logger: logger,
		sessions: cache.NewLRU[*Session](cfg.CacheSize, cfg.IdleTTL,
			cache.WithEvictCallback(func(string, *Session) {
				metrics.SessionCacheEvictions.Inc()
			}),
		),
	}
}

// Session returns an initialized, valid session for userID.
func (r *Registry) Session(ctx context.Context, userID string) (*Session, error) {
	sess := r.lookup(userID)
	if err := sess.Ensure(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Fresh returns the user's session after forcing a full Initialize.
func (r *Registry) Fresh(ctx context.Context, userID string) (*Session, error) {
	sess := r.lookup(userID)
	sess.initMu.Lock()
	defer sess.initMu.Unlock()
	if err := sess.Initialize(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Cached returns the user's session only when it is already cached and
// valid. It never loads from the store or adds to the cache.
func (r *Registry) Cached(userID string) (*Session, bool) {
	sess, ok := r.sessions.Get(userID)
	if !ok || !sess.IsValid() {
		return nil, false
	}
	return sess, true
}

// Affinities returns an uncached session holding only the user's affinity
// list. Profile and graph are not loaded, so it is suitable for sweeps that
// touch affinity rows and nothing else.
func (r *Registry) Affinities(ctx context.Context, userID string) (*Session, error) {
	sess := r.newSession(userID)
	if err := sess.ReloadAffinities(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// Forget drops the user's session so the next call rebuilds it.
func (r *Registry) Forget(userID string) {
	r.sessions.Remove(userID)
}

// Sweep drops sessions that have been idle past IdleTTL.
func (r *Registry) Sweep() int {
	return r.sessions.CleanupExpired()
}

// Len returns the number of cached sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) lookup(userID string) *Session {
	created := false
	sess := r.sessions.GetOrCreate(userID, func() *Session {
		created = true
		return r.newSession(userID)
	})
	if created {
		metrics.SessionCacheMisses.Inc()
	} else {
		metrics.SessionCacheHits.Inc()
	}
	return sess
}

func (r *Registry) newSession(userID string) *Session {
	sess := NewSession(userID, r.store, r.cfg, r.logger)
	if r.now != nil {
		sess.now = r.now
	}
	return sess
}
