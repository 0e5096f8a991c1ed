package curator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/dedup"
	"github.com/mariabico/offer-curator/internal/linkgen"
	"github.com/mariabico/offer-curator/internal/scoring"
	"github.com/mariabico/offer-curator/internal/shopee"
	"github.com/mariabico/offer-curator/internal/types"
)

type fakeSearchClient struct {
	pages map[string][][]shopee.ProductOffer // keyword -> pages
	errs  map[string]map[int]error           // keyword -> page -> error
	calls []shopee.SearchParams
}

func (f *fakeSearchClient) Search(ctx context.Context, params shopee.SearchParams) ([]shopee.ProductOffer, error) {
	f.calls = append(f.calls, params)
	keyword := ""
	if len(params.Keywords) > 0 {
		keyword = params.Keywords[0]
	}
	if err := f.errs[keyword][params.Page]; err != nil {
		return nil, err
	}
	pages := f.pages[keyword]
	if params.Page > len(pages) {
		return nil, nil
	}
	return pages[params.Page-1], nil
}

type fakeProductStore struct {
	upserted []string
	err      error
}

func (f *fakeProductStore) UpsertSeenProduct(ctx context.Context, offer types.ScoredOffer) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, offer.ItemID)
	return nil
}

type fakeSentStore struct {
	sent map[string]bool
}

func (f *fakeSentStore) WasSentRecently(ctx context.Context, itemID, groupID string, days int) (bool, error) {
	return f.sent[itemID], nil
}

func (f *fakeSentStore) MarkSent(ctx context.Context, itemID, groupID, shortLink, batchID string) error {
	return nil
}

type fakeShortLinkClient struct{ calls int }

func (f *fakeShortLinkClient) GenerateShortLink(ctx context.Context, originURL string, subIDs []string) (string, error) {
	f.calls++
	return "https://s.shopee.com.br/short", nil
}

type fakeLinkStore struct{}

func (fakeLinkStore) GetCachedLink(ctx context.Context, originURL string, freshDays int) (*db.Link, error) {
	return nil, nil
}

func (fakeLinkStore) CreateLink(ctx context.Context, originURL, shortLink string, subIDs []string) (*db.Link, error) {
	return &db.Link{ID: 1, OriginURL: originURL, ShortLink: shortLink}, nil
}

func (fakeLinkStore) TouchLinkUsed(ctx context.Context, linkID int64) error { return nil }

// goodOffer clears every default threshold.
func goodOffer(id string) shopee.ProductOffer {
	return shopee.ProductOffer{
		ItemID:            shopee.Flex(id),
		ProductName:       "Produto " + id,
		OfferLink:         "https://shopee.com.br/p/" + id,
		PriceMin:          "100.00",
		PriceDiscountRate: "20",
		CommissionRate:    "0.10",
		Commission:        "10.00",
	}
}

// badOffer fails the commission rate threshold.
func badOffer(id string) shopee.ProductOffer {
	o := goodOffer(id)
	o.CommissionRate = "0.01"
	return o
}

type curatorFixture struct {
	curator *Curator
	client  *fakeSearchClient
	store   *fakeProductStore
	sent    *fakeSentStore
	links   *fakeShortLinkClient
}

func newFixture(pages map[string][][]shopee.ProductOffer, opts Options) *curatorFixture {
	f := &curatorFixture{
		client: &fakeSearchClient{pages: pages},
		store:  &fakeProductStore{},
		sent:   &fakeSentStore{sent: map[string]bool{}},
		links:  &fakeShortLinkClient{},
	}
	opts.Client = f.client
	opts.Store = f.store
	opts.Dedup = dedup.New(f.sent, 7)
	opts.Links = linkgen.New(f.links, fakeLinkStore{}, "g1", 0)
	opts.GroupID = "-100"
	f.curator = New(opts)
	return f
}

func TestCurate(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1"), badOffer("2"), goodOffer("3")}},
	}, Options{})

	result, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 2, result.Approved)
	assert.Equal(t, 2, result.Final)
	require.Len(t, result.Products, 2)
	for _, p := range result.Products {
		assert.Equal(t, "https://s.shopee.com.br/short", p.ShortLink)
	}

	// Every fetched offer lands in the seen history, rejected ones included.
	assert.ElementsMatch(t, []string{"1", "2", "3"}, f.store.upserted)
}

func TestCurate_OneSearchPerKeyword(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone":       {{goodOffer("1")}},
		"smartwatch": {{goodOffer("2")}},
		"cabo":       {{goodOffer("3")}},
	}, Options{})

	_, err := f.curator.Curate(context.Background(), []string{"fone", "smartwatch", "cabo"}, nil)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, call := range f.client.calls {
		require.Len(t, call.Keywords, 1)
		seen[call.Keywords[0]] = true
	}
	assert.Len(t, seen, 3)
}

func TestCurate_EmptyPageStopsKeyword(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1")}, {}}, // page 2 is empty
	}, Options{MaxPages: 5})

	_, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	// Page 1 with offers, page 2 empty, then stop. Never pages 3-5.
	assert.Len(t, f.client.calls, 2)
}

func TestCurate_PageErrorContinues(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1")}, {goodOffer("2")}, {goodOffer("3")}},
	}, Options{MaxPages: 3})
	f.client.errs = map[string]map[int]error{
		"fone": {2: errors.New("page 2 failed")},
	}

	result, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	// Pages 1 and 3 still contribute.
	assert.Equal(t, 2, result.Fetched)
	assert.Len(t, f.client.calls, 3)
}

func TestCurate_DedupExcludesRecentlySent(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1"), goodOffer("2"), goodOffer("3")}},
	}, Options{})
	f.sent.sent["2"] = true

	result, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Approved)
	assert.Equal(t, 2, result.AfterDedup)
	for _, p := range result.Products {
		assert.NotEqual(t, "2", p.ItemID)
	}
}

func TestCurate_TruncatesToTopN(t *testing.T) {
	var offers []shopee.ProductOffer
	for i := 0; i < 8; i++ {
		o := goodOffer(fmt.Sprintf("%d", i))
		// Higher ids get higher commission, so they rank first.
		o.Commission = shopee.Flex(fmt.Sprintf("%d.00", 10+i))
		offers = append(offers, o)
	}

	f := newFixture(map[string][][]shopee.ProductOffer{"fone": {offers}}, Options{TopN: 3})

	result, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Approved)
	require.Len(t, result.Products, 3)
	assert.Equal(t, "7", result.Products[0].ItemID)
	assert.Equal(t, "6", result.Products[1].ItemID)
	assert.Equal(t, "5", result.Products[2].ItemID)

	// Short links are only generated for the survivors.
	assert.Equal(t, 3, f.links.calls)
}

func TestCurate_CategoryPassedThrough(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1")}},
	}, Options{})

	_, err := f.curator.Curate(context.Background(), []string{"fone"}, []int64{11001, 22002})
	require.NoError(t, err)

	require.NotEmpty(t, f.client.calls)
	assert.Equal(t, int64(11001), f.client.calls[0].CategoryID)
}

func TestCurate_FilterStatsTallyFirstFailure(t *testing.T) {
	low := goodOffer("1")
	low.CommissionRate = "0.01"
	cheap := goodOffer("2")
	cheap.Commission = "1.00"
	cheap.PriceMin = "10.00"
	cheap.CommissionRate = "0.05"

	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{low, cheap, goodOffer("3")}},
	}, Options{})

	result, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.FilterStats.Total)
	assert.Equal(t, 1, result.FilterStats.Passed)
	assert.Equal(t, 1, result.FilterStats.Failed[scoring.ReasonCommissionRate])
	assert.Equal(t, 1, result.FilterStats.Failed[scoring.ReasonCommission])
}

func TestCurate_StoreErrorAborts(t *testing.T) {
	f := newFixture(map[string][][]shopee.ProductOffer{
		"fone": {{goodOffer("1")}},
	}, Options{})
	f.store.err = errors.New("db down")

	_, err := f.curator.Curate(context.Background(), []string{"fone"}, nil)
	assert.Error(t, err)
}
