package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariabico/offer-curator/internal/curator"
	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/dedup"
	"github.com/mariabico/offer-curator/internal/types"
)

type fakeRunStore struct {
	mu       sync.Mutex
	started  []string
	outcomes []db.RunOutcome
	endErr   error
}

func (f *fakeRunStore) StartRun(ctx context.Context, kind string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, kind)
	return int64(len(f.started)), nil
}

func (f *fakeRunStore) EndRun(ctx context.Context, runID int64, outcome db.RunOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
	return f.endErr
}

type fakePipeline struct {
	result  *curator.Result
	err     error
	block   chan struct{} // when set, Curate waits until closed
	started chan struct{} // closed when Curate begins
}

func (f *fakePipeline) Curate(ctx context.Context, keywords []string, categories []int64) (*curator.Result, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

type fakeDeliverer struct {
	delivered []string
	err       error
}

func (f *fakeDeliverer) Deliver(ctx context.Context, groupID, message string) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, message)
	return nil
}

type recordingSentStore struct {
	marked []string
}

func (r *recordingSentStore) WasSentRecently(ctx context.Context, itemID, groupID string, days int) (bool, error) {
	return false, nil
}

func (r *recordingSentStore) MarkSent(ctx context.Context, itemID, groupID, shortLink, batchID string) error {
	r.marked = append(r.marked, itemID)
	return nil
}

func resultWithProducts(ids ...string) *curator.Result {
	result := &curator.Result{Fetched: 10, Approved: len(ids)}
	for _, id := range ids {
		result.Products = append(result.Products, types.ScoredOffer{
			Offer:     types.Offer{ItemID: id},
			ShortLink: "https://s.shopee.com.br/" + id,
		})
	}
	result.Final = len(result.Products)
	return result
}

func newTestRunner(store *fakeRunStore, pipeline Pipeline, deliverer Deliverer, sent *recordingSentStore) *Runner {
	return New(Options{
		Store:     store,
		Pipeline:  pipeline,
		Dedup:     dedup.New(sent, 7),
		Deliverer: deliverer,
		GroupID:   "-100",
		Keywords:  []string{"fone"},
	})
}

func TestRun(t *testing.T) {
	store := &fakeRunStore{}
	sent := &recordingSentStore{}
	deliverer := &fakeDeliverer{}
	r := newTestRunner(store, &fakePipeline{result: resultWithProducts("1", "2")}, deliverer, sent)

	result, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Final)

	require.Len(t, deliverer.delivered, 1)
	assert.ElementsMatch(t, []string{"1", "2"}, sent.marked)

	require.Len(t, store.outcomes, 1)
	outcome := store.outcomes[0]
	assert.True(t, outcome.Success)
	assert.Equal(t, 10, outcome.ItemsFetched)
	assert.Equal(t, 2, outcome.ItemsSent)
}

func TestRun_RefusesConcurrentRuns(t *testing.T) {
	store := &fakeRunStore{}
	pipeline := &fakePipeline{
		result:  resultWithProducts(),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	r := newTestRunner(store, pipeline, nil, &recordingSentStore{})

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), db.RunKindScheduled, nil, nil)
		done <- err
	}()

	<-pipeline.started
	_, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(pipeline.block)
	require.NoError(t, <-done)

	// Only the first run opened a record.
	assert.Len(t, store.started, 1)
}

func TestRun_FinalizesRecordOnFailure(t *testing.T) {
	store := &fakeRunStore{}
	pipeline := &fakePipeline{err: errors.New("fetch exploded")}
	r := newTestRunner(store, pipeline, nil, &recordingSentStore{})

	_, err := r.Run(context.Background(), db.RunKindScheduled, nil, nil)
	require.Error(t, err)

	require.Len(t, store.outcomes, 1)
	assert.False(t, store.outcomes[0].Success)
	assert.Equal(t, "fetch exploded", store.outcomes[0].ErrorSummary)
}

func TestRun_NothingMarkedWhenDeliveryFails(t *testing.T) {
	store := &fakeRunStore{}
	sent := &recordingSentStore{}
	deliverer := &fakeDeliverer{err: errors.New("telegram down")}
	r := newTestRunner(store, &fakePipeline{result: resultWithProducts("1", "2")}, deliverer, sent)

	_, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	require.Error(t, err)
	assert.Empty(t, sent.marked)

	require.Len(t, store.outcomes, 1)
	assert.False(t, store.outcomes[0].Success)
	assert.Zero(t, store.outcomes[0].ItemsSent)
}

func TestRun_NilDelivererSkipsSend(t *testing.T) {
	store := &fakeRunStore{}
	sent := &recordingSentStore{}
	r := newTestRunner(store, &fakePipeline{result: resultWithProducts("1")}, nil, sent)

	result, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Final)
	assert.Empty(t, sent.marked)
}

func TestRun_EmptyResultSkipsDelivery(t *testing.T) {
	store := &fakeRunStore{}
	deliverer := &fakeDeliverer{}
	r := newTestRunner(store, &fakePipeline{result: resultWithProducts()}, deliverer, &recordingSentStore{})

	_, err := r.Run(context.Background(), db.RunKindScheduled, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, deliverer.delivered)
}

func TestRun_SkipsItemsWithoutLinkOrID(t *testing.T) {
	store := &fakeRunStore{}
	sent := &recordingSentStore{}
	deliverer := &fakeDeliverer{}

	result := resultWithProducts("1")
	result.Products = append(result.Products,
		types.ScoredOffer{Offer: types.Offer{ItemID: ""}, ShortLink: "https://x"},
		types.ScoredOffer{Offer: types.Offer{ItemID: "3"}},
	)
	r := newTestRunner(store, &fakePipeline{result: result}, deliverer, sent)

	_, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, sent.marked)
}

func TestRun_EndRunErrorDoesNotFailRun(t *testing.T) {
	store := &fakeRunStore{endErr: errors.New("db hiccup")}
	r := newTestRunner(store, &fakePipeline{result: resultWithProducts()}, nil, &recordingSentStore{})

	_, err := r.Run(context.Background(), db.RunKindManual, nil, nil)
	assert.NoError(t, err)
}
