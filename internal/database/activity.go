// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// RecordActivity implements preference.ActivityRecorder. Empty optional
// fields are stored as NULL.
func (db *DB) RecordActivity(ctx context.Context, event *models.InteractionEvent) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("record_activity", "user_activity", &err)()

	occurred := time.Now().UTC()
	if event.OccurredAt != nil {
		occurred = *event.OccurredAt
	}

	query, args, err := db.sb.Insert("user_activity").
		Columns("user_id", "activity_type", "content_type", "content_id", "category_id", "duration_seconds", "created_at").
		Values(
			event.UserID,
			string(event.ActivityType),
			nullString(string(event.ContentType)),
			nullString(event.ContentID),
			nullString(event.CategoryID),
			event.DurationSeconds,
			occurred,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build activity insert: %w", err)
	}

	if _, err = db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// nullString maps "" to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
