// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

var catalogRowColumns = []string{"id", "title", "category_id", "category_name", "created_at", "latitude", "longitude"}

func TestRecentResources(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM resources t LEFT JOIN resource_categories c ON c.id = t.category_id WHERE t.category_id IN \(\$1,\$2\) AND t.is_available = \$3 ORDER BY t.created_at DESC LIMIT 6`).
		WithArgs("cat-1", "cat-2", true).
		WillReturnRows(sqlmock.NewRows(catalogRowColumns).
			AddRow("res-1", "Keyline design", "cat-1", "Water", testTime, 45.5, -122.6).
			AddRow("res-2", "Seed saving", "cat-2", "Seeds", nil, nil, nil))

	items, err := db.RecentResources(context.Background(), []string{"cat-1", "cat-2"}, 6)
	if err != nil {
		t.Fatalf("RecentResources() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("RecentResources() returned %d items, want 2", len(items))
	}
	first := items[0]
	if first.Type != models.ContentResource || first.CategoryName != "Water" || !first.HasLocation() || first.CreatedAt == nil {
		t.Errorf("first item = %+v", first)
	}
	second := items[1]
	if second.HasLocation() || second.CreatedAt != nil {
		t.Errorf("second item should have no location or timestamp: %+v", second)
	}
	expectationsMet(t, mock)
}

func TestRecentResourcesNoCategories(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	items, err := db.RecentResources(context.Background(), nil, 10)
	if err != nil || items != nil {
		t.Errorf("RecentResources(nil) = %v, %v; want nil, nil", items, err)
	}
	expectationsMet(t, mock)
}

func TestActiveProjects(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM projects t WHERE t.is_active = \$1 ORDER BY t.created_at DESC LIMIT 3`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(catalogRowColumns).
			AddRow("proj-1", "Food forest", "", "", testTime, nil, nil))

	items, err := db.ActiveProjects(context.Background(), 3)
	if err != nil {
		t.Fatalf("ActiveProjects() error = %v", err)
	}
	if len(items) != 1 || items[0].Type != models.ContentProject || items[0].Title != "Food forest" {
		t.Errorf("ActiveProjects() = %+v", items)
	}
	expectationsMet(t, mock)
}

const testItemID = "6f1c2a4e-8b3d-4c5e-9a7f-0d1e2b3c4d5e"

func TestGetItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType models.ContentType
		pattern     string
	}{
		{name: "project", contentType: models.ContentProject, pattern: `SELECT t.id, t.name, .* FROM projects t WHERE t.id = \$1`},
		{name: "resource", contentType: models.ContentResource, pattern: `SELECT t.id, t.title, .* FROM resources t LEFT JOIN resource_categories c`},
		{name: "wiki guide", contentType: models.ContentWikiGuide, pattern: `SELECT t.id, t.title, .* FROM wiki_guides t LEFT JOIN wiki_categories c`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			mock.ExpectQuery(tt.pattern).
				WithArgs(testItemID).
				WillReturnRows(sqlmock.NewRows(catalogRowColumns).
					AddRow(testItemID, "Item", "cat-1", "Cat", testTime, nil, nil))

			item, err := db.GetItem(context.Background(), tt.contentType, testItemID)
			if err != nil {
				t.Fatalf("GetItem() error = %v", err)
			}
			if item.Type != tt.contentType || item.ID != testItemID {
				t.Errorf("GetItem() = %+v", item)
			}
			expectationsMet(t, mock)
		})
	}
}

func TestGetItemErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM resources t`).WillReturnError(sql.ErrNoRows)

		_, err := db.GetItem(context.Background(), models.ContentResource, testItemID)
		if !errors.Is(err, preference.ErrNotFound) {
			t.Errorf("GetItem() error = %v, want ErrNotFound", err)
		}
		expectationsMet(t, mock)
	})

	t.Run("malformed id is not found without a query", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"nope", "", "wg-1", "not-a-uuid-at-all-0000000000000000"} {
			db, mock := newMockDB(t)

			_, err := db.GetItem(context.Background(), models.ContentWikiGuide, id)
			if !errors.Is(err, preference.ErrNotFound) {
				t.Errorf("GetItem(%q) error = %v, want ErrNotFound", id, err)
			}
			expectationsMet(t, mock)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		_, err := db.GetItem(context.Background(), models.ContentType("event"), "x")
		if !errors.Is(err, preference.ErrUnknownContentType) {
			t.Errorf("GetItem() error = %v, want ErrUnknownContentType", err)
		}
		expectationsMet(t, mock)
	})
}
