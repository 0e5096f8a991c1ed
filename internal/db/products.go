package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mariabico/offer-curator/internal/types"
)

// UpsertSeenProduct records an observation of a product. The first
// observation inserts the row; every re-observation refreshes last_seen_at
// and the snapshot fields while first_seen_at stays untouched.
func (db *DB) UpsertSeenProduct(ctx context.Context, offer types.ScoredOffer) error {
	raw, err := json.Marshal(offer)
	if err != nil {
		return fmt.Errorf("failed to marshal offer %s: %w", offer.ItemID, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO products_seen (
		   item_id, first_seen_at, last_seen_at,
		   last_price_min, last_discount_rate,
		   last_commission, last_commission_rate,
		   last_score, raw_json
		 ) VALUES ($1, now(), now(), $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (item_id) DO UPDATE SET
		   last_seen_at         = now(),
		   last_price_min       = EXCLUDED.last_price_min,
		   last_discount_rate   = EXCLUDED.last_discount_rate,
		   last_commission      = EXCLUDED.last_commission,
		   last_commission_rate = EXCLUDED.last_commission_rate,
		   last_score           = EXCLUDED.last_score,
		   raw_json             = EXCLUDED.raw_json`,
		offer.ItemID, offer.PriceMin, offer.DiscountPct,
		offer.Commission, offer.CommissionRate, offer.Score, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", offer.ItemID, err)
	}
	return nil
}

// GetSeenProduct retrieves one seen-product row, or nil when the item was
// never observed.
func (db *DB) GetSeenProduct(ctx context.Context, itemID string) (*SeenProduct, error) {
	var p SeenProduct
	err := db.pool.QueryRow(ctx,
		`SELECT item_id, first_seen_at, last_seen_at,
		        last_price_min, last_discount_rate,
		        last_commission, last_commission_rate,
		        last_score, raw_json
		 FROM products_seen WHERE item_id = $1`,
		itemID,
	).Scan(&p.ItemID, &p.FirstSeenAt, &p.LastSeenAt,
		&p.LastPriceMin, &p.LastDiscountRate,
		&p.LastCommission, &p.LastCommissionRate,
		&p.LastScore, &p.RawJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %s: %w", itemID, err)
	}
	return &p, nil
}
