package db

import (
	"context"
	"fmt"
)

// WasSentRecently reports whether the (item, group) pair has a delivery
// recorded within the trailing window of the given number of days. The
// window is anchored at the database's wall-clock now, evaluated per call.
func (db *DB) WasSentRecently(ctx context.Context, itemID, groupID string, days int) (bool, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sent_messages
		 WHERE item_id = $1
		   AND group_id = $2
		   AND sent_at > now() - make_interval(days => $3)`,
		itemID, groupID, days,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check sent history for %s: %w", itemID, err)
	}
	return count > 0, nil
}

// MarkSent appends one delivery event. The item must already exist in
// products_seen; the foreign key enforces that callers persist the offer
// before marking it sent.
func (db *DB) MarkSent(ctx context.Context, itemID, groupID, shortLink, batchID string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sent_messages (item_id, group_id, short_link, sent_at, batch_id)
		 VALUES ($1, $2, $3, now(), $4)`,
		itemID, groupID, shortLink, batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark %s sent: %w", itemID, err)
	}
	return nil
}
