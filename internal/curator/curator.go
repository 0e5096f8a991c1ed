// Package curator composes the affiliate client, scoring engine,
// deduplicator, link generator and persistent store into the sequential
// curation pipeline: fetch, filter, rank, dedup, truncate, link, persist.
package curator

import (
	"context"
	"log/slog"

	"github.com/mariabico/offer-curator/internal/dedup"
	"github.com/mariabico/offer-curator/internal/linkgen"
	"github.com/mariabico/offer-curator/internal/scoring"
	"github.com/mariabico/offer-curator/internal/shopee"
	"github.com/mariabico/offer-curator/internal/types"
)

// Defaults for pipeline knobs.
const (
	DefaultTopN      = 10
	DefaultMaxPages  = 5
	DefaultPageLimit = 50
)

// SearchClient is the slice of the affiliate client the curator needs.
type SearchClient interface {
	Search(ctx context.Context, params shopee.SearchParams) ([]shopee.ProductOffer, error)
}

// ProductStore is the slice of the persistent store the curator needs.
type ProductStore interface {
	UpsertSeenProduct(ctx context.Context, offer types.ScoredOffer) error
}

// Options configures a Curator. Zero numeric fields take the defaults; nil
// weights/thresholds take the production defaults.
type Options struct {
	Client     SearchClient
	Store      ProductStore
	Dedup      *dedup.Deduplicator
	Links      *linkgen.Generator
	GroupID    string
	TopN       int
	MaxPages   int
	PageLimit  int
	Weights    *scoring.Weights
	Thresholds *scoring.Thresholds
}

// Curator runs the curation pipeline for one target group.
type Curator struct {
	client     SearchClient
	store      ProductStore
	dedup      *dedup.Deduplicator
	links      *linkgen.Generator
	groupID    string
	topN       int
	maxPages   int
	pageLimit  int
	weights    scoring.Weights
	thresholds scoring.Thresholds
	log        *slog.Logger
}

// New creates a Curator from Options.
func New(opts Options) *Curator {
	c := &Curator{
		client:     opts.Client,
		store:      opts.Store,
		dedup:      opts.Dedup,
		links:      opts.Links,
		groupID:    opts.GroupID,
		topN:       opts.TopN,
		maxPages:   opts.MaxPages,
		pageLimit:  opts.PageLimit,
		weights:    scoring.DefaultWeights(),
		thresholds: scoring.DefaultThresholds(),
		log:        slog.With("component", "curator"),
	}
	if c.topN <= 0 {
		c.topN = DefaultTopN
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxPages
	}
	if c.pageLimit <= 0 {
		c.pageLimit = DefaultPageLimit
	}
	if opts.Weights != nil {
		c.weights = *opts.Weights
	}
	if opts.Thresholds != nil {
		c.thresholds = *opts.Thresholds
	}
	return c
}

// FilterStats tallies pass/fail outcomes of the filter stage, keyed by the
// first threshold check each rejected offer failed.
type FilterStats struct {
	Total  int                          `json:"total"`
	Passed int                          `json:"passed"`
	Failed map[scoring.FilterReason]int `json:"failed"`
}

// Result is the aggregate outcome of one pipeline execution.
type Result struct {
	Fetched     int                 `json:"fetched"`
	Approved    int                 `json:"approved"`
	AfterDedup  int                 `json:"after_dedup"`
	Final       int                 `json:"final"`
	Products    []types.ScoredOffer `json:"products"`
	FilterStats FilterStats         `json:"filter_stats"`
}

// fetchOffers pulls pages for every keyword sequentially. An empty page
// stops paging for that keyword; a page error is logged and the next page
// is tried, so a single page failure never aborts the keyword or the run.
func (c *Curator) fetchOffers(ctx context.Context, keywords []string, categories []int64) []types.Offer {
	var all []types.Offer

	var categoryID int64
	if len(categories) > 0 {
		// The API accepts one category per search request.
		categoryID = categories[0]
	}

	for _, keyword := range keywords {
		c.log.Info("fetching offers", "keyword", keyword)

		for page := 1; page <= c.maxPages; page++ {
			raws, err := c.client.Search(ctx, shopee.SearchParams{
				Keywords:   []string{keyword},
				Limit:      c.pageLimit,
				Page:       page,
				CategoryID: categoryID,
			})
			if err != nil {
				c.log.Error("page fetch failed",
					"keyword", keyword, "page", page, "error", err)
				continue
			}
			if len(raws) == 0 {
				c.log.Info("empty page, stopping keyword", "keyword", keyword, "page", page)
				break
			}

			for _, raw := range raws {
				all = append(all, NormalizeOffer(raw, keyword))
			}
			c.log.Info("fetched page", "keyword", keyword, "page", page, "offers", len(raws))
		}
	}

	c.log.Info("fetch finished", "total", len(all))
	return all
}

// filterOffers applies the threshold filters, tallying the first failed
// check per rejected offer.
func (c *Curator) filterOffers(offers []types.Offer) ([]types.Offer, FilterStats) {
	stats := FilterStats{
		Total:  len(offers),
		Failed: make(map[scoring.FilterReason]int),
	}

	kept := make([]types.Offer, 0, len(offers))
	for _, offer := range offers {
		ok, reason := scoring.CheckFilters(offer, c.thresholds)
		if ok {
			kept = append(kept, offer)
			stats.Passed++
			continue
		}
		stats.Failed[reason]++
	}

	c.log.Info("filtering finished", "passed", stats.Passed, "total", stats.Total)
	return kept, stats
}

// Curate executes one full pipeline run and returns its aggregate outcome.
// Every fetched offer is persisted to the seen history, not just survivors,
// so the history stays complete regardless of filtering.
func (c *Curator) Curate(ctx context.Context, keywords []string, categories []int64) (*Result, error) {
	c.log.Info("starting curation", "keywords", keywords)

	// 1. Fetch and normalize.
	fetched := c.fetchOffers(ctx, keywords, categories)

	// 2. Filter.
	filtered, filterStats := c.filterOffers(fetched)

	// 3. Rank by score descending.
	ranked := scoring.Rank(filtered, c.weights)

	// 4. Drop items already sent to the group within the window.
	afterDedup, err := c.dedup.FilterDuplicates(ctx, ranked, c.groupID)
	if err != nil {
		return nil, err
	}

	// 5. Keep the top N.
	final := afterDedup
	if len(final) > c.topN {
		final = final[:c.topN]
	}

	// 6. Attach short links; per-item failures fall back to origin URLs.
	final = c.links.GenerateBatch(ctx, final, linkgen.CampaignCuration)

	// 7. Persist every fetched offer.
	for _, offer := range fetched {
		scored := types.ScoredOffer{Offer: offer, Score: scoring.Score(offer, c.weights)}
		if err := c.store.UpsertSeenProduct(ctx, scored); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Fetched:     len(fetched),
		Approved:    len(filtered),
		AfterDedup:  len(afterDedup),
		Final:       len(final),
		Products:    final,
		FilterStats: filterStats,
	}

	c.log.Info("curation finished",
		"fetched", result.Fetched, "approved", result.Approved, "final", result.Final)
	return result, nil
}
