// Package datastore persists link bundles in SQLite.
package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/aleister1102/urlist/internal/common"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const dsnParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS link_bundles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		vanity_url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_link_bundles_user ON link_bundles (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		bundle_id TEXT NOT NULL REFERENCES link_bundles (id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_bundle ON links (bundle_id, sort_order)`,
}

// DB wraps the SQLite connection holding bundles and their links.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewDB opens the database at path, creating its directory and schema when missing.
func NewDB(path string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "BundleStore").Logger()
	logger.Info().Str("db_path", path).Msg("Opening bundle database")

	if dir := filepath.Dir(path); dir != "" {
		if err := common.NewFileManager(logger).EnsureDirectory(dir, 0755); err != nil {
			logger.Error().Err(err).Str("directory", dir).Msg("Failed to create database directory")
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	// A single connection serializes writers and keeps pragmas on one handle.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB, logger: logger}
	if err := d.InitSchema(context.Background()); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("db_path", path).Msg("Bundle database ready")
	return d, nil
}

// InitSchema creates the bundle and link tables if they don't already exist.
func (d *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			d.logger.Error().Err(err).Msg("Failed to initialize schema")
			return err
		}
	}
	return nil
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
