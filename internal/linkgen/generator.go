package linkgen

import (
	"context"
	"log/slog"
	"time"

	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/types"
)

// DefaultFreshnessDays bounds how long a cached short link is reused before
// a fresh one is generated.
const DefaultFreshnessDays = 30

// ShortLinkClient is the slice of the affiliate client the generator needs.
type ShortLinkClient interface {
	GenerateShortLink(ctx context.Context, originURL string, subIDs []string) (string, error)
}

// LinkStore is the slice of the persistent store the generator needs.
type LinkStore interface {
	GetCachedLink(ctx context.Context, originURL string, freshDays int) (*db.Link, error)
	CreateLink(ctx context.Context, originURL, shortLink string, subIDs []string) (*db.Link, error)
	TouchLinkUsed(ctx context.Context, linkID int64) error
}

// Generator resolves short links, consulting the cache before the remote
// API so equally-fresh requests for one origin URL cost one network call.
type Generator struct {
	client      ShortLinkClient
	store       LinkStore
	channelHash string
	freshDays   int
	log         *slog.Logger
}

// New creates a Generator. A non-positive freshness window falls back to
// the default.
func New(client ShortLinkClient, store LinkStore, channelHash string, freshDays int) *Generator {
	if freshDays <= 0 {
		freshDays = DefaultFreshnessDays
	}
	return &Generator{
		client:      client,
		store:       store,
		channelHash: channelHash,
		freshDays:   freshDays,
		log:         slog.With("component", "linkgen"),
	}
}

// GetOrCreate returns a trackable short link for the origin URL. A fresh
// cached link is reused without a network call, refreshing last_used_at; a
// miss generates a new link and persists it.
func (g *Generator) GetOrCreate(ctx context.Context, originURL, campaignType, tag string) (string, error) {
	cached, err := g.store.GetCachedLink(ctx, originURL, g.freshDays)
	if err != nil {
		return "", err
	}
	if cached != nil {
		if err := g.store.TouchLinkUsed(ctx, cached.ID); err != nil {
			return "", err
		}
		g.log.Debug("link cache hit", "origin_url", originURL)
		return cached.ShortLink, nil
	}

	subIDs := BuildSubIDs(campaignType, g.channelHash, time.Time{}, tag)
	shortLink, err := g.client.GenerateShortLink(ctx, originURL, subIDs)
	if err != nil {
		return "", err
	}

	if _, err := g.store.CreateLink(ctx, originURL, shortLink, subIDs); err != nil {
		return "", err
	}
	return shortLink, nil
}

// GenerateBatch resolves a short link for every offer, using the offer's
// keyword as the tracking tag, and returns a new slice with links attached.
// A per-offer failure falls back to the raw origin URL instead of failing
// the batch.
func (g *Generator) GenerateBatch(ctx context.Context, offers []types.ScoredOffer, campaignType string) []types.ScoredOffer {
	out := make([]types.ScoredOffer, 0, len(offers))
	for _, offer := range offers {
		if offer.OriginURL == "" {
			g.log.Warn("offer has no origin url", "item_id", offer.ItemID)
			out = append(out, offer)
			continue
		}

		shortLink, err := g.GetOrCreate(ctx, offer.OriginURL, campaignType, offer.Keyword)
		if err != nil {
			g.log.Error("failed to generate short link, falling back to origin url",
				"item_id", offer.ItemID, "error", err)
			shortLink = offer.OriginURL
		}
		offer.ShortLink = shortLink
		out = append(out, offer)
	}
	return out
}
