// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Middleware authenticates requests and enforces per-user access.
type Middleware struct {
	mode   AuthMode
	jwt    *JWTManager
	logger zerolog.Logger
}

// NewMiddleware builds the middleware for the configured auth mode.
func NewMiddleware(cfg *config.SecurityConfig) (*Middleware, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	m := &Middleware{mode: mode, logger: logging.WithComponent("auth")}
	if mode == AuthModeJWT {
		if m.jwt, err = NewJWTManager(cfg); err != nil {
			return nil, err
		}
	}
	m.logger.Info().Str("mode", string(mode)).Msg("authentication configured")
	return m, nil
}

// Mode returns the active auth mode.
func (m *Middleware) Mode() AuthMode {
	return m.mode
}

// Authenticate validates the bearer token and attaches the Subject.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r)
		if err != nil {
			writeAuthError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, "authentication required")
			return
		}

		subject, err := m.jwt.ValidateToken(token)
		if err != nil {
			log := logging.Ctx(r.Context())
			log.Debug().Err(err).Msg("token rejected")
			msg := "invalid token"
			if errors.Is(err, ErrExpiredCredentials) {
				msg = "token expired"
			}
			writeAuthError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, msg)
			return
		}

		ctx := ContextWithSubject(r.Context(), subject)
		ctx = logging.ContextWithUserID(ctx, subject.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests whose chi URL parameter param is not the
// authenticated user.
func (m *Middleware) RequireUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.Authorized(r.Context(), chi.URLParam(r, param)) {
				writeAuthError(w, r, http.StatusForbidden, models.ErrCodeForbidden, "access to another user's data is not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorized reports whether the caller in ctx may act for userID. With auth
// disabled every caller may.
func (m *Middleware) Authorized(ctx context.Context, userID string) bool {
	if m.mode == AuthModeNone {
		return true
	}
	s, ok := SubjectFromContext(ctx)
	return ok && userID != "" && s.UserID == userID
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidCredentials
	}
	return strings.TrimSpace(token), nil
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="permahub"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: code, Message: message},
	})
}
