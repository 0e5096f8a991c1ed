// Package dedup suppresses re-delivery of offers already sent to a group
// within a trailing time window.
package dedup

import (
	"context"
	"log/slog"

	"github.com/mariabico/offer-curator/internal/types"
)

// DefaultWindowDays is the default trailing dedup window.
const DefaultWindowDays = 7

// SentStore is the slice of the persistent store the deduplicator needs.
type SentStore interface {
	WasSentRecently(ctx context.Context, itemID, groupID string, days int) (bool, error)
	MarkSent(ctx context.Context, itemID, groupID, shortLink, batchID string) error
}

// Deduplicator tracks which (item, group) pairs were delivered recently.
type Deduplicator struct {
	store SentStore
	days  int
	log   *slog.Logger
}

// New creates a Deduplicator. A non-positive window falls back to the
// default.
func New(store SentStore, days int) *Deduplicator {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return &Deduplicator{
		store: store,
		days:  days,
		log:   slog.With("component", "dedup"),
	}
}

// IsDuplicate reports whether the item was sent to the group within the
// window. Each check is anchored at wall-clock now, not at batch start.
func (d *Deduplicator) IsDuplicate(ctx context.Context, itemID, groupID string) (bool, error) {
	return d.store.WasSentRecently(ctx, itemID, groupID, d.days)
}

// FilterDuplicates removes every offer already sent to the group within the
// window, preserving the order of survivors. Offers without an item id are
// silently dropped.
func (d *Deduplicator) FilterDuplicates(ctx context.Context, offers []types.ScoredOffer, groupID string) ([]types.ScoredOffer, error) {
	kept := make([]types.ScoredOffer, 0, len(offers))
	duplicates := 0

	for _, offer := range offers {
		if offer.ItemID == "" {
			continue
		}
		dup, err := d.IsDuplicate(ctx, offer.ItemID, groupID)
		if err != nil {
			return nil, err
		}
		if dup {
			duplicates++
			continue
		}
		kept = append(kept, offer)
	}

	d.log.Info("deduplication finished",
		"duplicates", duplicates, "remaining", len(kept), "window_days", d.days)
	return kept, nil
}

// MarkSent records one delivery event for the item.
func (d *Deduplicator) MarkSent(ctx context.Context, itemID, groupID, shortLink, batchID string) error {
	return d.store.MarkSent(ctx, itemID, groupID, shortLink, batchID)
}
