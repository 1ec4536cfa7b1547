// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// collaborative returns items liked by the user's nearest neighbours.
func (e *Engine) collaborative(ctx context.Context, sess Session, n int) ([]models.Candidate, error) {
	similar, err := e.similarUsers(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	ids := make([]string, len(similar))
	for i, u := range similar {
		ids[i] = u.UserID
	}

	rows, err := e.procedures.CollaborativeRecommendations(ctx, sess.UserID(), ids, n)
	if err != nil {
		return nil, fmt.Errorf("collaborative recommendations: %w", err)
	}
	return remoteCandidates(rows), nil
}

// similarUsers returns the session's cached neighbours, querying and
// caching them when the cache is empty or stale. Failed lookups are not
// cached.
func (e *Engine) similarUsers(ctx context.Context, sess Session) ([]models.SimilarUser, error) {
	if users, ok := sess.SimilarUsers(); ok {
		return users, nil
	}
	users, err := e.procedures.FindSimilarUsers(ctx, sess.UserID(), e.cfg.NearestNeighbors)
	if err != nil {
		return nil, fmt.Errorf("find similar users: %w", err)
	}
	if users == nil {
		users = []models.SimilarUser{}
	}
	sess.SetSimilarUsers(users)
	return users, nil
}

// trending returns the most active items across all users in the window.
func (e *Engine) trending(ctx context.Context, _ Session, n int) ([]models.Candidate, error) {
	rows, err := e.procedures.TrendingContent(ctx, e.cfg.TrendingDays, n)
	if err != nil {
		return nil, fmt.Errorf("trending content: %w", err)
	}
	return remoteCandidates(rows), nil
}

func remoteCandidates(rows []models.RemoteCandidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Candidate{
			Type:  r.ContentType,
			ID:    r.ContentID,
			Title: r.Title,
			Score: r.Score,
		})
	}
	return out
}
