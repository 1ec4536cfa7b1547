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
	"github.com/goccy/go-json"

	"github.com/tomtom215/permahub-affinity/internal/models"
)

// GetProfile implements preference.Store.
func (db *DB) GetProfile(ctx context.Context, userID string) (_ *models.Profile, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer track("get_profile", "users", &err)()

	query, args, err := db.sb.
		Select("id", "COALESCE(display_name, '')", "latitude", "longitude", "attributes", "created_at").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}

	var (
		p        models.Profile
		lat, lon sql.NullFloat64
		attrs    []byte
	)
	err = db.conn.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.DisplayName, &lat, &lon, &attrs, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if lat.Valid {
		p.Latitude = &lat.Float64
	}
	if lon.Valid {
		p.Longitude = &lon.Float64
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
			return nil, fmt.Errorf("decode profile attributes: %w", err)
		}
	}
	return &p, nil
}
