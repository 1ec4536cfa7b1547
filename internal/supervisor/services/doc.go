// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package services adapts the long-running parts of the affinity service to
// suture.Service so that the supervisor tree can restart them.
//
//   - HTTPServerService: the REST API server
//   - IngestionService: the NATS interaction consumer (eventprocessor.Components)
//   - RecencyDecayService: the periodic recency-decay sweep
//   - SessionSweepService: evicts idle preference sessions
//
// Every service blocks in Serve until its context is canceled and returns
// ctx.Err() on a clean stop, which suture treats as a normal exit.
package services
