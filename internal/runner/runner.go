// Package runner wraps the curation pipeline in its caller obligations:
// the Run record lifecycle, digest delivery, marking delivered items sent,
// and the guarantee that at most one run executes at a time.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/mariabico/offer-curator/internal/curator"
	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/dedup"
	"github.com/mariabico/offer-curator/internal/digest"
)

// ErrRunInProgress is returned when a run is requested while another one is
// still executing. Concurrent runs would double-count dedup windows and
// race the link cache, so they are refused rather than queued.
var ErrRunInProgress = errors.New("runner: a curation run is already in progress")

// RunStore is the slice of the persistent store the runner needs.
type RunStore interface {
	StartRun(ctx context.Context, kind string) (int64, error)
	EndRun(ctx context.Context, runID int64, outcome db.RunOutcome) error
}

// Pipeline is the curation entry point the runner drives.
type Pipeline interface {
	Curate(ctx context.Context, keywords []string, categories []int64) (*curator.Result, error)
}

// Deliverer publishes one formatted digest to the target group.
type Deliverer interface {
	Deliver(ctx context.Context, groupID, message string) error
}

// Options configures a Runner.
type Options struct {
	Store      RunStore
	Pipeline   Pipeline
	Dedup      *dedup.Deduplicator
	Deliverer  Deliverer // nil disables delivery (dry runs)
	GroupID    string
	Keywords   []string
	Categories []int64
}

// Runner executes complete curation runs.
type Runner struct {
	store      RunStore
	pipeline   Pipeline
	dedup      *dedup.Deduplicator
	deliverer  Deliverer
	groupID    string
	keywords   []string
	categories []int64
	lock       *semaphore.Weighted
	log        *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	return &Runner{
		store:      opts.Store,
		pipeline:   opts.Pipeline,
		dedup:      opts.Dedup,
		deliverer:  opts.Deliverer,
		groupID:    opts.GroupID,
		keywords:   opts.Keywords,
		categories: opts.Categories,
		lock:       semaphore.NewWeighted(1),
		log:        slog.With("component", "runner"),
	}
}

// Run executes one complete curation run of the given kind. Empty keywords
// fall back to the configured list. The Run record is always finalized,
// success or failure; no run is left open.
func (r *Runner) Run(ctx context.Context, kind string, keywords []string, categories []int64) (*curator.Result, error) {
	if !r.lock.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer r.lock.Release(1)

	if len(keywords) == 0 {
		keywords = r.keywords
	}
	if len(categories) == 0 {
		categories = r.categories
	}

	runID, err := r.store.StartRun(ctx, kind)
	if err != nil {
		return nil, err
	}

	result, sent, runErr := r.execute(ctx, keywords, categories, kind)

	outcome := db.RunOutcome{Success: runErr == nil, ItemsSent: sent}
	if result != nil {
		outcome.ItemsFetched = result.Fetched
		outcome.ItemsApproved = result.Approved
	}
	if runErr != nil {
		outcome.ErrorSummary = runErr.Error()
	}
	if endErr := r.store.EndRun(ctx, runID, outcome); endErr != nil {
		r.log.Error("failed to finalize run record", "run_id", runID, "error", endErr)
	}

	if runErr != nil {
		r.log.Error("run failed", "run_id", runID, "kind", kind, "error", runErr)
		return result, runErr
	}
	r.log.Info("run finished", "run_id", runID, "kind", kind, "sent", sent)
	return result, nil
}

// execute performs curate -> deliver -> mark-sent. Items are only marked
// sent after the digest was actually delivered.
func (r *Runner) execute(ctx context.Context, keywords []string, categories []int64, kind string) (*curator.Result, int, error) {
	result, err := r.pipeline.Curate(ctx, keywords, categories)
	if err != nil {
		return nil, 0, err
	}
	if len(result.Products) == 0 {
		r.log.Info("nothing to deliver", "kind", kind)
		return result, 0, nil
	}
	if r.deliverer == nil {
		r.log.Info("delivery disabled, skipping send", "final", len(result.Products))
		return result, 0, nil
	}

	message := digest.FormatDigest(result, time.Now())
	if err := r.deliverer.Deliver(ctx, r.groupID, message); err != nil {
		return result, 0, err
	}

	batchID := uuid.NewString()
	sent := 0
	for _, p := range result.Products {
		if p.ItemID == "" || p.ShortLink == "" {
			continue
		}
		if err := r.dedup.MarkSent(ctx, p.ItemID, r.groupID, p.ShortLink, batchID); err != nil {
			return result, sent, err
		}
		sent++
	}
	return result, sent, nil
}
