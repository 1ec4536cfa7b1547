// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// Session is the per-user state the engine reads. *preference.Session
// implements it.
type Session interface {
	UserID() string
	Profile() *models.Profile
	Affinity(categoryID string) (models.Affinity, bool)
	TopCategories(n int) []string

	// SimilarUsers returns the cached list and whether it may be reused.
	SimilarUsers() ([]models.SimilarUser, bool)
	SetSimilarUsers(users []models.SimilarUser)
}

// Catalog reads the content tables.
type Catalog interface {
	// RecentResources returns available resources in any of categoryIDs,
	// newest first.
	RecentResources(ctx context.Context, categoryIDs []string, limit int) ([]models.CatalogItem, error)

	// ActiveProjects returns active projects, newest first.
	ActiveProjects(ctx context.Context, limit int) ([]models.CatalogItem, error)

	// GetItem returns one item, or preference.ErrNotFound.
	GetItem(ctx context.Context, contentType models.ContentType, id string) (*models.CatalogItem, error)
}

// Procedures are the server-side similarity and popularity queries.
type Procedures interface {
	FindSimilarUsers(ctx context.Context, userID string, limit int) ([]models.SimilarUser, error)
	CollaborativeRecommendations(ctx context.Context, userID string, similarUserIDs []string, limit int) ([]models.RemoteCandidate, error)
	TrendingContent(ctx context.Context, days, limit int) ([]models.RemoteCandidate, error)
}
