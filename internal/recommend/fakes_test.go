// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

var (
	testLogger = zerolog.Nop()
	testNow    = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
)

const epsilon = 1e-9

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

// fakeSession is an in-memory Session. affinities must be ordered by
// OverallScore descending.
type fakeSession struct {
	mu         sync.Mutex
	userID     string
	profile    *models.Profile
	affinities []models.Affinity
	similar    []models.SimilarUser
	similarOK  bool
	setCalls   int
}

func newFakeSession(affinities ...models.Affinity) *fakeSession {
	return &fakeSession{
		userID:     "user-1",
		profile:    &models.Profile{ID: "user-1"},
		affinities: affinities,
	}
}

func (s *fakeSession) UserID() string { return s.userID }

func (s *fakeSession) Profile() *models.Profile { return s.profile }

func (s *fakeSession) Affinity(categoryID string) (models.Affinity, bool) {
	for _, a := range s.affinities {
		if a.CategoryID == categoryID {
			return a, true
		}
	}
	return models.Affinity{}, false
}

func (s *fakeSession) TopCategories(n int) []string {
	if n > len(s.affinities) {
		n = len(s.affinities)
	}
	out := make([]string, 0, n)
	for _, a := range s.affinities[:n] {
		out = append(out, a.CategoryID)
	}
	return out
}

func (s *fakeSession) SimilarUsers() ([]models.SimilarUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.similar, s.similarOK
}

func (s *fakeSession) SetSimilarUsers(users []models.SimilarUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.similar = users
	s.similarOK = true
	s.setCalls++
}

type fakeCatalog struct {
	mu sync.Mutex

	resources []models.CatalogItem
	projects  []models.CatalogItem
	items     map[string]*models.CatalogItem // key: type:id

	resourcesErr error
	projectsErr  error
	itemErr      error

	resourceCalls      int
	projectCalls       int
	itemCalls          int
	resourceLimit      int
	projectLimit       int
	resourceCategories []string
}

func (c *fakeCatalog) RecentResources(_ context.Context, categoryIDs []string, limit int) ([]models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resourceCalls++
	c.resourceLimit = limit
	c.resourceCategories = categoryIDs
	if c.resourcesErr != nil {
		return nil, c.resourcesErr
	}
	return head(c.resources, limit), nil
}

func (c *fakeCatalog) ActiveProjects(_ context.Context, limit int) ([]models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectCalls++
	c.projectLimit = limit
	if c.projectsErr != nil {
		return nil, c.projectsErr
	}
	return head(c.projects, limit), nil
}

func (c *fakeCatalog) GetItem(_ context.Context, contentType models.ContentType, id string) (*models.CatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemCalls++
	if c.itemErr != nil {
		return nil, c.itemErr
	}
	item, ok := c.items[string(contentType)+":"+id]
	if !ok {
		return nil, preference.ErrNotFound
	}
	return item, nil
}

func head(items []models.CatalogItem, limit int) []models.CatalogItem {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.CatalogItem, len(items))
	copy(out, items)
	return out
}

type fakeProcedures struct {
	mu sync.Mutex

	similar       []models.SimilarUser
	collaborative []models.RemoteCandidate
	trending      []models.RemoteCandidate

	similarErr       error
	collaborativeErr error
	trendingErr      error

	similarCalls       int
	similarLimit       int
	collaborativeCalls int
	collaborativeLimit int
	collaborativeUsers []string
	trendingCalls      int
	trendingDays       int
	trendingLimit      int
}

func (p *fakeProcedures) FindSimilarUsers(_ context.Context, _ string, limit int) ([]models.SimilarUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.similarCalls++
	p.similarLimit = limit
	if p.similarErr != nil {
		return nil, p.similarErr
	}
	return p.similar, nil
}

func (p *fakeProcedures) CollaborativeRecommendations(_ context.Context, _ string, similarUserIDs []string, limit int) ([]models.RemoteCandidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.collaborativeCalls++
	p.collaborativeLimit = limit
	p.collaborativeUsers = similarUserIDs
	if p.collaborativeErr != nil {
		return nil, p.collaborativeErr
	}
	return p.collaborative, nil
}

func (p *fakeProcedures) TrendingContent(_ context.Context, days, limit int) ([]models.RemoteCandidate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trendingCalls++
	p.trendingDays = days
	p.trendingLimit = limit
	if p.trendingErr != nil {
		return nil, p.trendingErr
	}
	return p.trending, nil
}

func newTestEngine(catalog *fakeCatalog, procs *fakeProcedures) *Engine {
	e := NewEngine(catalog, procs, DefaultConfig(), testLogger)
	e.now = func() time.Time { return testNow }
	return e
}
