// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package logging provides the zerolog-based structured logging used across
// the service.
//
// # Overview
//
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production, console output for development
//   - Context helpers that attach request, correlation and user IDs
//   - Adapters so sutureslog (slog) and Watermill log through the same sink
//
// # Usage
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logger := logging.WithComponent("learner")
//	logger.Info().Str("category_id", id).Msg("affinity updated")
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("generator failed")
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging
