// Package config provides configuration loading and validation for the
// curator. Values come from the environment (a .env file is honored by the
// entry point), with an optional JSON config file for the pipeline knobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mariabico/offer-curator/internal/scoring"
)

// Config holds everything the curator needs at startup. There is no hidden
// global state; the loaded value is passed into constructors explicitly.
type Config struct {
	// Shopee affiliate API credentials.
	ShopeeAppID  string `json:"shopee_app_id" validate:"required,numeric"`
	ShopeeSecret string `json:"shopee_secret" validate:"required,min=32"`

	// Postgres connection URL.
	DatabaseURL string `json:"database_url" validate:"required"`

	// Delivery target.
	TargetGroupID    string `json:"target_group_id" validate:"required"`
	GroupHash        string `json:"group_hash"`
	TelegramBotToken string `json:"telegram_bot_token"`

	// Scheduling.
	ScheduleCron string `json:"schedule_cron"`

	// Curation inputs.
	Keywords   []string `json:"keywords"`
	Categories []int64  `json:"categories"`

	// Pipeline knobs. Zero means "use the component default".
	TopN              int `json:"top_n" validate:"gte=0"`
	MaxPages          int `json:"max_pages" validate:"gte=0"`
	PageLimit         int `json:"page_limit" validate:"gte=0,lte=100"`
	DedupDays         int `json:"dedup_days" validate:"gte=0"`
	LinkFreshnessDays int `json:"link_freshness_days" validate:"gte=0"`

	// Scoring weights.
	WeightCommission float64 `json:"weight_commission"`
	WeightDiscount   float64 `json:"weight_discount"`
	WeightPrice      float64 `json:"weight_price"`

	// Filter thresholds.
	CommissionRateMin float64 `json:"commission_rate_min" validate:"gte=0,lte=1"`
	CommissionMin     float64 `json:"commission_min" validate:"gte=0"`
	DiscountMinPct    float64 `json:"discount_min_pct" validate:"gte=0,lte=100"`
	PriceMax          float64 `json:"price_max" validate:"gte=0"`
	SalesMin          int64   `json:"sales_min" validate:"gte=0"`
	RatingMin         float64 `json:"rating_min" validate:"gte=0,lte=5"`
}

// defaultKeywords drive scheduled runs when none are configured.
var defaultKeywords = []string{
	"fone bluetooth", "smartwatch", "carregador rápido", "cabo usb", "fone ouvido",
}

// FromEnv loads configuration from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ShopeeAppID:      os.Getenv("SHOPEE_APP_ID"),
		ShopeeSecret:     os.Getenv("SHOPEE_SECRET"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TargetGroupID:    os.Getenv("TARGET_GROUP_ID"),
		GroupHash:        envString("GROUP_HASH", "default"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		ScheduleCron:     envString("SCHEDULE_CRON", "0 */12 * * *"),
		Keywords:         defaultKeywords,
	}

	if raw := os.Getenv("KEYWORDS"); raw != "" {
		cfg.Keywords = splitList(raw)
	}
	if raw := os.Getenv("CATEGORIES"); raw != "" {
		for _, part := range splitList(raw) {
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("CATEGORIES must be a comma-separated list of integers: %q", part)
			}
			cfg.Categories = append(cfg.Categories, id)
		}
	}

	var err error
	if cfg.TopN, err = envInt("TOP_N", 0); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = envInt("MAX_PAGES", 0); err != nil {
		return nil, err
	}
	if cfg.PageLimit, err = envInt("PAGE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.DedupDays, err = envInt("DEDUP_DAYS", 0); err != nil {
		return nil, err
	}
	if cfg.LinkFreshnessDays, err = envInt("LINK_FRESHNESS_DAYS", 0); err != nil {
		return nil, err
	}

	if cfg.WeightCommission, err = envFloat("WEIGHT_COMMISSION", 0); err != nil {
		return nil, err
	}
	if cfg.WeightDiscount, err = envFloat("WEIGHT_DISCOUNT", 0); err != nil {
		return nil, err
	}
	if cfg.WeightPrice, err = envFloat("WEIGHT_PRICE", 0); err != nil {
		return nil, err
	}
	if cfg.CommissionRateMin, err = envFloat("COMMISSION_RATE_MIN", 0); err != nil {
		return nil, err
	}
	if cfg.CommissionMin, err = envFloat("COMMISSION_MIN", 0); err != nil {
		return nil, err
	}
	if cfg.DiscountMinPct, err = envFloat("DISCOUNT_MIN_PCT", 0); err != nil {
		return nil, err
	}
	if cfg.PriceMax, err = envFloat("PRICE_MAX", 0); err != nil {
		return nil, err
	}
	if cfg.SalesMin, err = envInt64("SALES_MIN", 0); err != nil {
		return nil, err
	}
	if cfg.RatingMin, err = envFloat("RATING_MIN", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads a JSON config file and overlays its non-zero values on top
// of the receiver. Flags and files override the environment, not the other
// way around.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var overlay Config
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}
	c.merge(&overlay)
	return nil
}

func (c *Config) merge(o *Config) {
	if o.ShopeeAppID != "" {
		c.ShopeeAppID = o.ShopeeAppID
	}
	if o.ShopeeSecret != "" {
		c.ShopeeSecret = o.ShopeeSecret
	}
	if o.DatabaseURL != "" {
		c.DatabaseURL = o.DatabaseURL
	}
	if o.TargetGroupID != "" {
		c.TargetGroupID = o.TargetGroupID
	}
	if o.GroupHash != "" {
		c.GroupHash = o.GroupHash
	}
	if o.TelegramBotToken != "" {
		c.TelegramBotToken = o.TelegramBotToken
	}
	if o.ScheduleCron != "" {
		c.ScheduleCron = o.ScheduleCron
	}
	if len(o.Keywords) > 0 {
		c.Keywords = o.Keywords
	}
	if len(o.Categories) > 0 {
		c.Categories = o.Categories
	}
	if o.TopN != 0 {
		c.TopN = o.TopN
	}
	if o.MaxPages != 0 {
		c.MaxPages = o.MaxPages
	}
	if o.PageLimit != 0 {
		c.PageLimit = o.PageLimit
	}
	if o.DedupDays != 0 {
		c.DedupDays = o.DedupDays
	}
	if o.LinkFreshnessDays != 0 {
		c.LinkFreshnessDays = o.LinkFreshnessDays
	}
	if o.WeightCommission != 0 {
		c.WeightCommission = o.WeightCommission
	}
	if o.WeightDiscount != 0 {
		c.WeightDiscount = o.WeightDiscount
	}
	if o.WeightPrice != 0 {
		c.WeightPrice = o.WeightPrice
	}
	if o.CommissionRateMin != 0 {
		c.CommissionRateMin = o.CommissionRateMin
	}
	if o.CommissionMin != 0 {
		c.CommissionMin = o.CommissionMin
	}
	if o.DiscountMinPct != 0 {
		c.DiscountMinPct = o.DiscountMinPct
	}
	if o.PriceMax != 0 {
		c.PriceMax = o.PriceMax
	}
	if o.SalesMin != 0 {
		c.SalesMin = o.SalesMin
	}
	if o.RatingMin != 0 {
		c.RatingMin = o.RatingMin
	}
}

// Validate checks the configuration using the validator tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, v)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", key, v)
	}
	return f, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ScoringWeights returns the configured weights, or nil when none were set
// so the production defaults apply.
func (c *Config) ScoringWeights() *scoring.Weights {
	if c.WeightCommission == 0 && c.WeightDiscount == 0 && c.WeightPrice == 0 {
		return nil
	}
	return &scoring.Weights{
		Commission: c.WeightCommission,
		Discount:   c.WeightDiscount,
		Price:      c.WeightPrice,
	}
}

// FilterThresholds returns the configured thresholds, or nil when none were
// set so the production defaults apply.
func (c *Config) FilterThresholds() *scoring.Thresholds {
	if c.CommissionRateMin == 0 && c.CommissionMin == 0 && c.DiscountMinPct == 0 &&
		c.PriceMax == 0 && c.SalesMin == 0 && c.RatingMin == 0 {
		return nil
	}
	return &scoring.Thresholds{
		CommissionRateMin: c.CommissionRateMin,
		CommissionMin:     c.CommissionMin,
		DiscountMinPct:    c.DiscountMinPct,
		PriceMax:          c.PriceMax,
		SalesMin:          c.SalesMin,
		RatingMin:         c.RatingMin,
	}
}
