// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package eventprocessor ingests interaction events from NATS JetStream and
// feeds them to the preference learner.
//
// Producers (the web front end, mobile clients, batch importers) publish one
// JSON models.InteractionEvent per message on the configured subject,
// "interactions.recorded" by default. A Watermill router consumes the durable
// queue group and runs each message through:
//
//	Throttle -> PoisonQueue -> Retry (transient errors only) -> Recoverer -> InteractionHandler
//
// Malformed payloads, events that fail validation and events for unknown
// users are permanent failures: they skip the retry loop and go straight to
// the poison subject. Store outages are retried with exponential backoff and
// end up on the poison subject only after the retries are exhausted.
//
// Single-node installs can run an embedded NATS server with JetStream
// (nats.embedded_server); Components wires the server, the stream, the
// publisher used for the poison queue, the subscriber and the router.
//
// # Message format
//
//	{
//	  "user_id": "6f1c2f0e-4a1b-4c5d-9e8f-0a1b2c3d4e5f",
//	  "activity_type": "favorite",
//	  "content_type": "resource",
//	  "content_id": "2b7f0e1a-3c4d-4e5f-8a9b-0c1d2e3f4a5b",
//	  "category_id": "9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a"
//	}
//
// The Watermill message UUID becomes the correlation ID of every log line
// written while the event is learned.
package eventprocessor
