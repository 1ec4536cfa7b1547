// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

func newTestRouter(t *testing.T, mode string) (http.Handler, *JWTManager) {
	t.Helper()
	cfg := &config.SecurityConfig{AuthMode: mode, JWTSecret: testSecret}
	mw, err := NewMiddleware(cfg)
	if err != nil {
		t.Fatalf("NewMiddleware() error = %v", err)
	}

	r := chi.NewRouter()
	r.Use(mw.Authenticate)
	r.With(mw.RequireUser("userID")).Get("/users/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var m *JWTManager
	if mode == "jwt" {
		m = newTestManager(t, "")
	}
	return r, m
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	router, m := newTestRouter(t, "jwt")
	valid, err := m.GenerateToken("user-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "own data", path: "/users/user-1", header: "Bearer " + valid, wantStatus: http.StatusNoContent},
		{name: "lowercase scheme", path: "/users/user-1", header: "bearer " + valid, wantStatus: http.StatusNoContent},
		{name: "other user", path: "/users/user-2", header: "Bearer " + valid, wantStatus: http.StatusForbidden, wantCode: models.ErrCodeForbidden},
		{name: "missing header", path: "/users/user-1", wantStatus: http.StatusUnauthorized, wantCode: models.ErrCodeUnauthorized},
		{name: "basic scheme", path: "/users/user-1", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantCode: models.ErrCodeUnauthorized},
		{name: "bad token", path: "/users/user-1", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantCode: models.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				return
			}
			var resp models.APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, "none")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/anyone", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestAuthorized(t *testing.T) {
	t.Parallel()

	mw, err := NewMiddleware(&config.SecurityConfig{AuthMode: "jwt", JWTSecret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	ctx := ContextWithSubject(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &Subject{UserID: "user-1"})

	if !mw.Authorized(ctx, "user-1") {
		t.Error("Authorized(self) = false")
	}
	if mw.Authorized(ctx, "user-2") {
		t.Error("Authorized(other) = true")
	}
	if mw.Authorized(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "user-1") {
		t.Error("Authorized without subject = true")
	}
}
