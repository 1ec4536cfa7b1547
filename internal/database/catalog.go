// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

// catalogSource describes how one content table maps onto CatalogItem.
type catalogSource struct {
	table         string
	titleColumn   string
	categoryTable string
}

var catalogSources = map[models.ContentType]catalogSource{
	models.ContentProject:   {table: "projects", titleColumn: "name"},
	models.ContentResource:  {table: "resources", titleColumn: "title", categoryTable: "resource_categories"},
	models.ContentWikiGuide: {table: "wiki_guides", titleColumn: "title", categoryTable: "wiki_categories"},
}

func (db *DB) selectCatalog(src catalogSource) sq.SelectBuilder {
	categoryName := "''"
	if src.categoryTable != "" {
		categoryName = "COALESCE(c.name, '')"
	}
	b := db.sb.Select(
		"t.id",
		"t."+src.titleColumn,
		"COALESCE(t.category_id::text, '')",
		categoryName,
		"t.created_at",
		"t.latitude",
		"t.longitude",
	).From(src.table + " t")
	if src.categoryTable != "" {
		b = b.LeftJoin(src.categoryTable + " c ON c.id = t.category_id")
	}
	return b
}

func scanCatalogItem(row rowScanner, contentType models.ContentType) (models.CatalogItem, error) {
	var (
		item     models.CatalogItem
		created  sql.NullTime
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&item.ID, &item.Title, &item.CategoryID, &item.CategoryName, &created, &lat, &lon); err != nil {
		return item, err
	}
	item.Type = contentType
	if created.Valid {
		t := created.Time
		item.CreatedAt = &t
	}
	if lat.Valid {
		v := lat.Float64
		item.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		item.Longitude = &v
	}
	return item, nil
}

func (db *DB) queryCatalog(ctx context.Context, b sq.SelectBuilder, contentType models.ContentType) ([]models.CatalogItem, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", contentType.Table(), err)
	}
	defer closeQuietly(rows)

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows, contentType)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", contentType, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", contentType.Table(), err)
	}
	return items, nil
}

// RecentResources implements recommend.Catalog.
func (db *DB) RecentResources(ctx context.Context, categoryIDs []string, limit int) (_ []models.CatalogItem, err error) {
	if len(categoryIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("recent_resources", "resources", &err)()

	b := db.selectCatalog(catalogSources[models.ContentResource]).
		Where(sq.Eq{"t.category_id": categoryIDs, "t.is_available": true}).
		OrderBy("t.created_at DESC").
		Limit(uint64(limit))
	return db.queryCatalog(ctx, b, models.ContentResource)
}

// ActiveProjects implements recommend.Catalog.
func (db *DB) ActiveProjects(ctx context.Context, limit int) (_ []models.CatalogItem, err error) {
	if limit <= 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("active_projects", "projects", &err)()

	b := db.selectCatalog(catalogSources[models.ContentProject]).
		Where(sq.Eq{"t.is_active": true}).
		OrderBy("t.created_at DESC").
		Limit(uint64(limit))
	return db.queryCatalog(ctx, b, models.ContentProject)
}

// GetItem implements recommend.Catalog.
func (db *DB) GetItem(ctx context.Context, contentType models.ContentType, id string) (_ *models.CatalogItem, err error) {
	src, ok := catalogSources[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", preference.ErrUnknownContentType, contentType)
	}
	// Catalog ids are UUID columns; anything else cannot match a row and
	// would fail the cast server-side.
	if _, perr := uuid.Parse(id); perr != nil {
		return nil, preference.ErrNotFound
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("get_item", src.table, &err)()

	query, args, err := db.selectCatalog(src).Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}
	item, err := scanCatalogItem(db.conn.QueryRowContext(ctx, query, args...), contentType)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}
