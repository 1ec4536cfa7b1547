// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

const (
	findSimilarUsersSQL = `SELECT user_id, similarity_score FROM find_similar_users($1, $2)`

	categoryCooccurrencesSQL = `SELECT category1, category2, correlation_score FROM get_category_cooccurrences($1)`

	collaborativeSQL = `SELECT content_type, content_id, title, similarity_score
FROM get_collaborative_recommendations($1, $2::uuid[], $3)`

	trendingSQL = `SELECT content_type, content_id, title, trend_score FROM get_trending_content($1, $2)`
)

// FindSimilarUsers implements recommend.Procedures.
func (db *DB) FindSimilarUsers(ctx context.Context, userID string, limit int) (_ []models.SimilarUser, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("find_similar_users", "user_affinity_scores", &err)()

	rows, err := db.conn.QueryContext(ctx, findSimilarUsersSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar users: %w", err)
	}
	defer closeQuietly(rows)

	var users []models.SimilarUser
	for rows.Next() {
		var u models.SimilarUser
		if err := rows.Scan(&u.UserID, &u.SimilarityScore); err != nil {
			return nil, fmt.Errorf("scan similar user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar users: %w", err)
	}
	return users, nil
}

// CategoryCooccurrences implements preference.Store.
func (db *DB) CategoryCooccurrences(ctx context.Context, limitUsers int) (_ []models.CategoryEdge, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("category_cooccurrences", "user_affinity_scores", &err)()

	rows, err := db.conn.QueryContext(ctx, categoryCooccurrencesSQL, limitUsers)
	if err != nil {
		return nil, fmt.Errorf("category co-occurrences: %w", err)
	}
	defer closeQuietly(rows)

	var edges []models.CategoryEdge
	for rows.Next() {
		var e models.CategoryEdge
		if err := rows.Scan(&e.Source, &e.Target, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan co-occurrence: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate co-occurrences: %w", err)
	}
	return edges, nil
}

// CollaborativeRecommendations implements recommend.Procedures.
func (db *DB) CollaborativeRecommendations(ctx context.Context, userID string, similarUserIDs []string, limit int) (_ []models.RemoteCandidate, err error) {
	if len(similarUserIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("collaborative_recommendations", "user_activity", &err)()

	rows, err := db.conn.QueryContext(ctx, collaborativeSQL, userID, pq.Array(similarUserIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("collaborative recommendations: %w", err)
	}
	return scanRemoteCandidates(rows)
}

// TrendingContent implements recommend.Procedures.
func (db *DB) TrendingContent(ctx context.Context, days, limit int) (_ []models.RemoteCandidate, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("trending_content", "user_activity", &err)()

	rows, err := db.conn.QueryContext(ctx, trendingSQL, days, limit)
	if err != nil {
		return nil, fmt.Errorf("trending content: %w", err)
	}
	return scanRemoteCandidates(rows)
}

func scanRemoteCandidates(rows *sql.Rows) ([]models.RemoteCandidate, error) {
	defer closeQuietly(rows)

	var out []models.RemoteCandidate
	for rows.Next() {
		var (
			c     models.RemoteCandidate
			ct    string
			title sql.NullString
		)
		if err := rows.Scan(&ct, &c.ContentID, &title, &c.Score); err != nil {
			return nil, fmt.Errorf("scan remote candidate: %w", err)
		}
		c.ContentType = models.ContentType(ct)
		c.Title = title.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate remote candidates: %w", err)
	}
	return out, nil
}
