// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

// Package database is the Postgres store behind the preference core and the
// recommendation engine.
//
// # Connection
//
// New opens a lib/pq connection pool from config.DatabaseConfig, pings the
// server and, when AutoMigrate is set, applies the embedded migrations. Every
// call runs under the caller's context; calls without a deadline get the
// configured query timeout.
//
// # Schema
//
// The migrations in migrations/ are applied in version order and recorded in
// schema_migrations:
//
//   - 001_schema.sql: users, category tables, content tables, the activity
//     log and user_affinity_scores with its generated overall_score
//   - 002_procedures.sql: find_similar_users, get_category_cooccurrences,
//     get_collaborative_recommendations and get_trending_content
//
// # Concurrency
//
// Affinity rows carry a version column. UpdateAffinity and UpdateRecency
// only write when the stored version matches and report
// preference.ErrVersionConflict otherwise. InsertAffinity maps a unique
// violation on (user_id, category_id) to the same error so the caller can
// retry as an update.
//
// # Queries
//
// Dynamic SELECTs are built with squirrel using Dollar placeholders.
// Statements with a fixed shape are plain SQL constants.
package database
