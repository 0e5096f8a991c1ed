// Package db provides PostgreSQL persistence for the curation pipeline:
// products seen, issued short links, sent messages and run history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and bootstraps the schema. The
// store owns its schema; bootstrap is idempotent and safe on every start.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *DB) ensureSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS products_seen (
  item_id              TEXT PRIMARY KEY,
  first_seen_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_seen_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_price_min       DOUBLE PRECISION,
  last_discount_rate   DOUBLE PRECISION,
  last_commission      DOUBLE PRECISION,
  last_commission_rate DOUBLE PRECISION,
  last_score           DOUBLE PRECISION,
  raw_json             JSONB
);
CREATE INDEX IF NOT EXISTS idx_products_seen_last_seen ON products_seen(last_seen_at);

CREATE TABLE IF NOT EXISTS links (
  id           BIGSERIAL PRIMARY KEY,
  origin_url   TEXT UNIQUE NOT NULL,
  short_link   TEXT NOT NULL,
  sub_ids_json JSONB,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_used_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_links_created ON links(created_at);

CREATE TABLE IF NOT EXISTS sent_messages (
  id         BIGSERIAL PRIMARY KEY,
  item_id    TEXT NOT NULL REFERENCES products_seen(item_id),
  group_id   TEXT NOT NULL,
  short_link TEXT NOT NULL,
  sent_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  batch_id   TEXT
);
CREATE INDEX IF NOT EXISTS idx_sent_item_group ON sent_messages(item_id, group_id);
CREATE INDEX IF NOT EXISTS idx_sent_batch ON sent_messages(batch_id);

CREATE TABLE IF NOT EXISTS runs (
  id             BIGSERIAL PRIMARY KEY,
  run_type       TEXT NOT NULL,
  started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  ended_at       TIMESTAMPTZ,
  items_fetched  INTEGER NOT NULL DEFAULT 0,
  items_approved INTEGER NOT NULL DEFAULT 0,
  items_sent     INTEGER NOT NULL DEFAULT 0,
  error_summary  TEXT,
  success        BOOLEAN NOT NULL DEFAULT true
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`
	_, err := db.pool.Exec(ctx, schema)
	return err
}
