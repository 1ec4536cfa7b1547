// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

const affinityTable = "user_affinity_scores"

// affinityColumns is the select list shared by every affinity read.
var affinityColumns = []string{
	"a.id", "a.user_id", "a.category_id",
	"COALESCE(rc.name, wc.name, '')",
	"a.engagement_score", "a.frequency_score", "a.recency_score", "a.overall_score",
	"a.view_count", "a.click_count", "a.create_count", "a.favorite_count",
	"a.share_count", "a.comment_count", "a.download_count", "a.search_count",
	"a.last_interaction", "a.updated_at", "a.version",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAffinity(row rowScanner) (models.Affinity, error) {
	var a models.Affinity
	err := row.Scan(
		&a.ID, &a.UserID, &a.CategoryID, &a.CategoryName,
		&a.EngagementScore, &a.FrequencyScore, &a.RecencyScore, &a.OverallScore,
		&a.Counts.View, &a.Counts.Click, &a.Counts.Create, &a.Counts.Favorite,
		&a.Counts.Share, &a.Counts.Comment, &a.Counts.Download, &a.Counts.Search,
		&a.LastInteraction, &a.UpdatedAt, &a.Version,
	)
	return a, err
}

func (db *DB) selectAffinities() sq.SelectBuilder {
	return db.sb.Select(affinityColumns...).
		From(affinityTable + " a").
		LeftJoin("resource_categories rc ON rc.id = a.category_id").
		LeftJoin("wiki_categories wc ON wc.id = a.category_id")
}

// ListAffinities implements preference.Store.
func (db *DB) ListAffinities(ctx context.Context, userID string) (_ []models.Affinity, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("list_affinities", affinityTable, &err)()

	query, args, err := db.selectAffinities().
		Where(sq.Eq{"a.user_id": userID}).
		OrderBy("a.overall_score DESC", "a.category_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build affinity query: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list affinities: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.Affinity
	for rows.Next() {
		a, scanErr := scanAffinity(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan affinity: %w", scanErr)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate affinities: %w", err)
	}
	return out, nil
}

// GetAffinity implements preference.Store.
func (db *DB) GetAffinity(ctx context.Context, userID, categoryID string) (_ *models.Affinity, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("get_affinity", affinityTable, &err)()

	query, args, err := db.selectAffinities().
		Where(sq.Eq{"a.user_id": userID, "a.category_id": categoryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build affinity query: %w", err)
	}

	a, err := scanAffinity(db.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// InsertAffinity implements preference.Store. A concurrent insert for the
// same (user, category) surfaces as ErrVersionConflict so the caller
// re-reads and blends into the winner's row.
func (db *DB) InsertAffinity(ctx context.Context, a *models.Affinity) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("insert_affinity", affinityTable, &err)()

	query, args, err := db.sb.Insert(affinityTable).
		Columns(
			"user_id", "category_id",
			"engagement_score", "frequency_score", "recency_score",
			"view_count", "click_count", "create_count", "favorite_count",
			"share_count", "comment_count", "download_count", "search_count",
			"last_interaction", "created_at", "updated_at",
		).
		Values(
			a.UserID, a.CategoryID,
			a.EngagementScore, a.FrequencyScore, a.RecencyScore,
			a.Counts.View, a.Counts.Click, a.Counts.Create, a.Counts.Favorite,
			a.Counts.Share, a.Counts.Comment, a.Counts.Download, a.Counts.Search,
			a.LastInteraction, a.UpdatedAt, a.UpdatedAt,
		).
		Suffix("RETURNING id, version, overall_score").
		ToSql()
	if err != nil {
		return fmt.Errorf("build affinity insert: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Version, &a.OverallScore)
	if err != nil {
		if isUniqueViolation(err) {
			return preference.ErrVersionConflict
		}
		return fmt.Errorf("insert affinity: %w", err)
	}
	return nil
}

// UpdateAffinity implements preference.Store.
func (db *DB) UpdateAffinity(ctx context.Context, a *models.Affinity) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("update_affinity", affinityTable, &err)()

	query, args, err := db.sb.Update(affinityTable).
		SetMap(map[string]any{
			"engagement_score": a.EngagementScore,
			"frequency_score":  a.FrequencyScore,
			"recency_score":    a.RecencyScore,
			"view_count":       a.Counts.View,
			"click_count":      a.Counts.Click,
			"create_count":     a.Counts.Create,
			"favorite_count":   a.Counts.Favorite,
			"share_count":      a.Counts.Share,
			"comment_count":    a.Counts.Comment,
			"download_count":   a.Counts.Download,
			"search_count":     a.Counts.Search,
			"last_interaction": a.LastInteraction,
			"updated_at":       a.UpdatedAt,
			"version":          sq.Expr("version + 1"),
		}).
		Where(sq.Eq{"id": a.ID, "version": a.Version}).
		Suffix("RETURNING version, overall_score").
		ToSql()
	if err != nil {
		return fmt.Errorf("build affinity update: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&a.Version, &a.OverallScore)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return preference.ErrVersionConflict
	case err != nil:
		return fmt.Errorf("update affinity: %w", err)
	}
	return nil
}

// UpdateRecency implements preference.Store.
func (db *DB) UpdateRecency(ctx context.Context, id string, version int64, recency float64, updatedAt time.Time) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("update_recency", affinityTable, &err)()

	query, args, err := db.sb.Update(affinityTable).
		Set("recency_score", recency).
		Set("updated_at", updatedAt).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": id, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build recency update: %w", err)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recency: %w", err)
	}
	if n == 0 {
		return preference.ErrVersionConflict
	}
	return nil
}

// ListAffinityUsers returns every user that holds at least one affinity row.
// The decay sweep walks this list.
func (db *DB) ListAffinityUsers(ctx context.Context) (_ []string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("list_affinity_users", affinityTable, &err)()

	rows, err := db.conn.QueryContext(ctx,
		"SELECT DISTINCT user_id FROM "+affinityTable+" ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list affinity users: %w", err)
	}
	defer closeQuietly(rows)

	var users []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate affinity users: %w", err)
	}
	return users, nil
}
