// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package preference

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// memStore is an in-memory Store with the same compare-and-swap semantics
// as the Postgres implementation.
type memStore struct {
	mu sync.Mutex

	profiles map[string]*models.Profile
	rows     map[string]*models.Affinity // key: user|category
	edges    []models.CategoryEdge
	nextID   int

	profileErr error
	listErr    error
	edgesErr   error
	writeErr   error
	recordErr  error

	// conflicts makes the next N UpdateAffinity calls lose to a simulated
	// concurrent writer that bumps the stored row first.
	conflicts int

	profileCalls int
	listCalls    int
	edgeCalls    int
	updates      []models.Affinity
	inserts      []models.Affinity
	recorded     []models.InteractionEvent
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[string]*models.Profile{},
		rows:     map[string]*models.Affinity{},
	}
}

func rowKey(userID, categoryID string) string { return userID + "|" + categoryID }

func overall(a *models.Affinity) float64 {
	return a.EngagementScore*0.5 + a.FrequencyScore*0.2 + a.RecencyScore*0.3
}

// seed stores a row directly, bypassing CAS.
func (m *memStore) seed(a models.Affinity) models.Affinity {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if a.ID == "" {
		a.ID = "aff-" + strconv.Itoa(m.nextID)
	}
	if a.Version == 0 {
		a.Version = 1
	}
	a.OverallScore = overall(&a)
	m.rows[rowKey(a.UserID, a.CategoryID)] = &a
	return a
}

func (m *memStore) row(userID, categoryID string) (models.Affinity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[rowKey(userID, categoryID)]
	if !ok {
		return models.Affinity{}, false
	}
	return *a, true
}

func (m *memStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileCalls++
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListAffinities(_ context.Context, userID string) ([]models.Affinity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Affinity
	for _, a := range m.rows {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OverallScore != out[j].OverallScore {
			return out[i].OverallScore > out[j].OverallScore
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

func (m *memStore) GetAffinity(_ context.Context, userID, categoryID string) (*models.Affinity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[rowKey(userID, categoryID)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) InsertAffinity(_ context.Context, a *models.Affinity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	key := rowKey(a.UserID, a.CategoryID)
	if _, exists := m.rows[key]; exists {
		return ErrVersionConflict
	}
	m.nextID++
	a.ID = "aff-" + strconv.Itoa(m.nextID)
	a.Version = 1
	a.OverallScore = overall(a)
	cp := *a
	m.rows[key] = &cp
	m.inserts = append(m.inserts, cp)
	return nil
}

func (m *memStore) UpdateAffinity(_ context.Context, a *models.Affinity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	stored, ok := m.rows[rowKey(a.UserID, a.CategoryID)]
	if !ok || stored.ID != a.ID {
		return ErrVersionConflict
	}
	if m.conflicts > 0 {
		m.conflicts--
		// Another writer got there first.
		stored.EngagementScore = 0.5
		stored.Counts.View++
		stored.Version++
		stored.OverallScore = overall(stored)
		return ErrVersionConflict
	}
	if stored.Version != a.Version {
		return ErrVersionConflict
	}
	a.Version++
	a.OverallScore = overall(a)
	cp := *a
	m.rows[rowKey(a.UserID, a.CategoryID)] = &cp
	m.updates = append(m.updates, cp)
	return nil
}

func (m *memStore) UpdateRecency(_ context.Context, id string, version int64, recency float64, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, a := range m.rows {
		if a.ID != id {
			continue
		}
		if a.Version != version {
			return ErrVersionConflict
		}
		a.RecencyScore = recency
		a.UpdatedAt = updatedAt
		a.Version++
		a.OverallScore = overall(a)
		return nil
	}
	return ErrVersionConflict
}

func (m *memStore) CategoryCooccurrences(_ context.Context, _ int) ([]models.CategoryEdge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edgeCalls++
	if m.edgesErr != nil {
		return nil, m.edgesErr
	}
	return m.edges, nil
}

func (m *memStore) RecordActivity(_ context.Context, event *models.InteractionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, *event)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

const testUser = "user-1"

// newTestSession returns an initialized session over store.
func newTestSession(t interface{ Fatalf(string, ...any) }, store *memStore, clock *fakeClock) *Session {
	if _, ok := store.profiles[testUser]; !ok {
		store.profiles[testUser] = &models.Profile{ID: testUser}
	}
	sess := NewSession(testUser, store, DefaultConfig(), testLogger)
	if clock != nil {
		sess.now = clock.Now
	}
	if err := sess.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return sess
}
