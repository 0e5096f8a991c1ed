package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetCachedLink looks up a cached short link by origin URL, honoring the
// freshness window: links created more than freshDays ago are treated as
// stale and not returned. Returns nil on a miss.
func (db *DB) GetCachedLink(ctx context.Context, originURL string, freshDays int) (*Link, error) {
	var l Link
	err := db.pool.QueryRow(ctx,
		`SELECT id, origin_url, short_link, sub_ids_json, created_at, last_used_at
		 FROM links
		 WHERE origin_url = $1
		   AND created_at > now() - make_interval(days => $2)`,
		originURL, freshDays,
	).Scan(&l.ID, &l.OriginURL, &l.ShortLink, &l.SubIDsJSON, &l.CreatedAt, &l.LastUsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up cached link: %w", err)
	}
	return &l, nil
}

// CreateLink persists a freshly generated short link. A regenerated link for
// an origin URL whose cached entry went stale replaces the old row, keeping
// origin_url unique.
func (db *DB) CreateLink(ctx context.Context, originURL, shortLink string, subIDs []string) (*Link, error) {
	subIDsJSON, err := json.Marshal(subIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sub ids: %w", err)
	}

	var l Link
	err = db.pool.QueryRow(ctx,
		`INSERT INTO links (origin_url, short_link, sub_ids_json, created_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (origin_url) DO UPDATE SET
		   short_link   = EXCLUDED.short_link,
		   sub_ids_json = EXCLUDED.sub_ids_json,
		   created_at   = now(),
		   last_used_at = NULL
		 RETURNING id, origin_url, short_link, sub_ids_json, created_at, last_used_at`,
		originURL, shortLink, subIDsJSON,
	).Scan(&l.ID, &l.OriginURL, &l.ShortLink, &l.SubIDsJSON, &l.CreatedAt, &l.LastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return &l, nil
}

// TouchLinkUsed refreshes last_used_at on a cache hit.
func (db *DB) TouchLinkUsed(ctx context.Context, linkID int64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE links SET last_used_at = now() WHERE id = $1`, linkID)
	if err != nil {
		return fmt.Errorf("failed to touch link %d: %w", linkID, err)
	}
	return nil
}
