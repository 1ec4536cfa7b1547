// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/permahub-affinity/internal/auth"
	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
	"github.com/tomtom215/permahub-affinity/internal/recommend"
)

const (
	testUserID  = "6f1c2f0e-4a1b-4c5d-9e8f-0a1b2c3d4e5f"
	otherUserID = "0b9a8c7d-6e5f-4a3b-8c1d-2e3f4a5b6c7d"
	testSecret  = "this_is_a_very_long_secret_key_with_32_plus_characters"
)

type stubSession struct {
	userID string
}

func (s *stubSession) UserID() string { return s.userID }
func (s *stubSession) Profile() *models.Profile { return &models.Profile{ID: s.userID} }
func (s *stubSession) Affinity(string) (models.Affinity, bool) { return models.Affinity{}, false }
func (s *stubSession) TopCategories(int) []string { return nil }
func (s *stubSession) SimilarUsers() ([]models.SimilarUser, bool) { return nil, false }
func (s *stubSession) SetSimilarUsers([]models.SimilarUser) {}

type fakeSessions struct {
	err error
}

func (f *fakeSessions) Session(_ context.Context, userID string) (recommend.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stubSession{userID: userID}, nil
}

type fakeLearner struct {
	mu     sync.Mutex
	err    error
	events []models.InteractionEvent
}

func (f *fakeLearner) LearnFromInteraction(_ context.Context, event *models.InteractionEvent) (*preference.LearnResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	if f.err != nil {
		return nil, f.err
	}
	return &preference.LearnResult{UserID: event.UserID, CategoryID: event.CategoryID, Value: 0.8, Propagated: 1}, nil
}

type fakeRecommender struct {
	mu        sync.Mutex
	err       error
	score     float64
	counts    []int
	predicted []string
}

func (f *fakeRecommender) GetRecommendations(_ context.Context, sess recommend.Session, count int) (*recommend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = append(f.counts, count)
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Result{
		UserID: sess.UserID(),
		Items: []models.Candidate{{
			Type:       models.ContentResource,
			ID:         "res-1",
			Title:      "Swales",
			Score:      0.8,
			FinalScore: 0.8,
			Strategy:   models.StrategyContent,
			Reason:     "Based on your interest in Water",
		}},
	}, nil
}

func (f *fakeRecommender) PredictInterest(_ context.Context, _ recommend.Session, contentType models.ContentType, contentID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicted = append(f.predicted, string(contentType)+":"+contentID)
	return f.score, f.err
}

type fakeExporter struct {
	err error
}

func (f *fakeExporter) Export(_ context.Context, userID string) (*models.PreferenceExport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PreferenceExport{UserID: userID, ExportedAt: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)}, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

type testServer struct {
	handler     http.Handler
	learner     *fakeLearner
	recommender *fakeRecommender
	sessions    *fakeSessions
	exporter    *fakeExporter
	db          *fakePinger
	jwt         *auth.JWTManager
}

// newTestServer builds the full router. authMode is "none" or "jwt".
func newTestServer(t *testing.T, authMode string) *testServer {
	t.Helper()

	secCfg := &config.SecurityConfig{AuthMode: authMode, JWTSecret: testSecret}
	authMW, err := auth.NewMiddleware(secCfg)
	if err != nil {
		t.Fatalf("auth.NewMiddleware() error = %v", err)
	}

	ts := &testServer{
		learner:     &fakeLearner{},
		recommender: &fakeRecommender{score: 0.42},
		sessions:    &fakeSessions{},
		exporter:    &fakeExporter{},
		db:          &fakePinger{},
	}
	if authMode == "jwt" {
		if ts.jwt, err = auth.NewJWTManager(secCfg); err != nil {
			t.Fatal(err)
		}
	}

	h := NewHandler(Deps{
		Learner:     ts.learner,
		Recommender: ts.recommender,
		Sessions:    ts.sessions,
		Exporter:    ts.exporter,
		Authorizer:  authMW,
		DB:          ts.db,
	}, HandlerConfig{DefaultCount: 10, MaxCount: 100, RequestTimeout: 5 * time.Second, Version: "test"})

	chiMW := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	ts.handler = NewRouter(h, authMW, chiMW).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp models.APIResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, resp
}
