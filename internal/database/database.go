// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/config"
	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/preference"
	"github.com/tomtom215/permahub-affinity/internal/recommend"
)

// DB wraps the Postgres pool and implements preference.Store,
// preference.ActivityRecorder, recommend.Catalog and recommend.Procedures.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	sb     sq.StatementBuilderType
	logger zerolog.Logger
}

var (
	_ preference.Store            = (*DB)(nil)
	_ preference.ActivityRecorder = (*DB)(nil)
	_ recommend.Catalog           = (*DB)(nil)
	_ recommend.Procedures        = (*DB)(nil)
)

// New opens the pool, verifies connectivity and applies migrations when
// cfg.AutoMigrate is set.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := NewWithConn(conn, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db.logger.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Dur("conn_max_lifetime", cfg.ConnMaxLifetime).
		Msg("database connected")
	return db, nil
}

// NewWithConn wraps an existing pool. Tests pass a sqlmock connection.
func NewWithConn(conn *sql.DB, cfg *config.DatabaseConfig) *DB {
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &DB{
		conn:   conn,
		cfg:    cfg,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logging.WithComponent("database"),
	}
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks connectivity. The readiness probe calls it.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Stats publishes pool usage to metrics and returns it.
func (db *DB) Stats() sql.DBStats {
	stats := db.conn.Stats()
	metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	return stats
}

// ensureContext applies the query timeout when ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline || db.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.cfg.QueryTimeout)
}

// track starts timing one query. The returned func records the duration and
// the final value of *errp:
//
//	defer track("get_affinity", affinityTable, &err)()
func track(operation, table string, errp *error) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(operation, table, time.Since(start), *errp)
	}
}
