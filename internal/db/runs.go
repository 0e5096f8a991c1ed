package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// StartRun creates a run record with open end fields and returns its id.
func (db *DB) StartRun(ctx context.Context, kind string) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO runs (run_type, started_at) VALUES ($1, now()) RETURNING id`,
		kind,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// EndRun finalizes a run exactly once, success or failure. No run is left
// perpetually in progress: callers invoke this on every exit path.
func (db *DB) EndRun(ctx context.Context, runID int64, outcome RunOutcome) error {
	var summary *string
	if outcome.ErrorSummary != "" {
		summary = &outcome.ErrorSummary
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE runs SET
		   ended_at       = now(),
		   items_fetched  = $1,
		   items_approved = $2,
		   items_sent     = $3,
		   error_summary  = $4,
		   success        = $5
		 WHERE id = $6`,
		outcome.ItemsFetched, outcome.ItemsApproved, outcome.ItemsSent,
		summary, outcome.Success, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to end run %d: %w", runID, err)
	}
	return nil
}

// GetLastRun returns the most recently started run, or nil when none exist.
func (db *DB) GetLastRun(ctx context.Context) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_type, started_at, ended_at,
		        items_fetched, items_approved, items_sent,
		        error_summary, success
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.RunType, &r.StartedAt, &r.EndedAt,
		&r.ItemsFetched, &r.ItemsApproved, &r.ItemsSent,
		&r.ErrorSummary, &r.Success)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	return &r, nil
}

// GetAggregateStats returns store-wide counters for status reporting.
func (db *DB) GetAggregateStats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(items_fetched), 0),
		        COALESCE(SUM(items_approved), 0),
		        COALESCE(SUM(items_sent), 0)
		 FROM runs`,
	).Scan(&s.TotalRuns, &s.TotalFetched, &s.TotalApproved, &s.TotalSent)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate run stats: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM products_seen),
		        (SELECT COUNT(*) FROM links),
		        (SELECT COUNT(*) FROM sent_messages)`,
	).Scan(&s.UniqueProducts, &s.TotalLinks, &s.TotalMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate table stats: %w", err)
	}
	return &s, nil
}
