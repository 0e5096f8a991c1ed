package db

import "time"

// SeenProduct is one row of products_seen: a distinct item ever observed,
// with its most recent snapshot. first_seen_at never changes after insert.
type SeenProduct struct {
	ItemID             string     `json:"item_id"`
	FirstSeenAt        time.Time  `json:"first_seen_at"`
	LastSeenAt         time.Time  `json:"last_seen_at"`
	LastPriceMin       *float64   `json:"last_price_min"`
	LastDiscountRate   *float64   `json:"last_discount_rate"`
	LastCommission     *float64   `json:"last_commission"`
	LastCommissionRate *float64   `json:"last_commission_rate"`
	LastScore          *float64   `json:"last_score"`
	RawJSON            []byte     `json:"raw_json"`
}

// Link is one cached short link keyed by its unique origin URL.
type Link struct {
	ID         int64      `json:"id"`
	OriginURL  string     `json:"origin_url"`
	ShortLink  string     `json:"short_link"`
	SubIDsJSON []byte     `json:"sub_ids_json"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// SentMessage is one (item, group, batch) delivery event. Append-only.
type SentMessage struct {
	ID        int64     `json:"id"`
	ItemID    string    `json:"item_id"`
	GroupID   string    `json:"group_id"`
	ShortLink string    `json:"short_link"`
	SentAt    time.Time `json:"sent_at"`
	BatchID   string    `json:"batch_id"`
}

// Run kinds.
const (
	RunKindScheduled = "scheduled"
	RunKindManual    = "manual"
)

// Run is one pipeline execution record.
type Run struct {
	ID            int64      `json:"id"`
	RunType       string     `json:"run_type"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at"`
	ItemsFetched  int        `json:"items_fetched"`
	ItemsApproved int        `json:"items_approved"`
	ItemsSent     int        `json:"items_sent"`
	ErrorSummary  *string    `json:"error_summary"`
	Success       bool       `json:"success"`
}

// RunOutcome carries the final counts and status written when a run ends.
type RunOutcome struct {
	ItemsFetched  int
	ItemsApproved int
	ItemsSent     int
	ErrorSummary  string // empty means no error
	Success       bool
}

// Stats aggregates store-wide counters for status reporting.
type Stats struct {
	TotalRuns      int64 `json:"total_runs"`
	TotalFetched   int64 `json:"total_fetched"`
	TotalApproved  int64 `json:"total_approved"`
	TotalSent      int64 `json:"total_sent"`
	UniqueProducts int64 `json:"unique_products"`
	TotalLinks     int64 `json:"total_links"`
	TotalMessages  int64 `json:"total_sent_messages"`
}
