package main

import (
	"context"
	"fmt"

	"github.com/mariabico/offer-curator/internal/config"
	"github.com/mariabico/offer-curator/internal/curator"
	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/dedup"
	"github.com/mariabico/offer-curator/internal/linkgen"
	"github.com/mariabico/offer-curator/internal/runner"
	"github.com/mariabico/offer-curator/internal/shopee"
	"github.com/mariabico/offer-curator/internal/telegram"
)

// loadConfig builds the effective configuration: environment first, then an
// optional JSON config file overlay.
func loadConfig(configFile string) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the wired components of one curator process.
type app struct {
	cfg    *config.Config
	db     *db.DB
	runner *runner.Runner
}

// buildApp connects the store and assembles the pipeline. When deliver is
// true a Telegram sender is wired in; otherwise runs are dry and nothing is
// marked sent.
func buildApp(ctx context.Context, cfg *config.Config, deliver bool) (*app, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	client := shopee.NewClient(shopee.Config{
		AppID:  cfg.ShopeeAppID,
		Secret: cfg.ShopeeSecret,
	})
	deduper := dedup.New(database, cfg.DedupDays)
	links := linkgen.New(client, database, cfg.GroupHash, cfg.LinkFreshnessDays)

	pipeline := curator.New(curator.Options{
		Client:     client,
		Store:      database,
		Dedup:      deduper,
		Links:      links,
		GroupID:    cfg.TargetGroupID,
		TopN:       cfg.TopN,
		MaxPages:   cfg.MaxPages,
		PageLimit:  cfg.PageLimit,
		Weights:    cfg.ScoringWeights(),
		Thresholds: cfg.FilterThresholds(),
	})

	var deliverer runner.Deliverer
	if deliver {
		if cfg.TelegramBotToken == "" {
			database.Close()
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required to deliver digests")
		}
		sender, err := telegram.NewSender(cfg.TelegramBotToken)
		if err != nil {
			database.Close()
			return nil, err
		}
		deliverer = sender
	}

	run := runner.New(runner.Options{
		Store:      database,
		Pipeline:   pipeline,
		Dedup:      deduper,
		Deliverer:  deliverer,
		GroupID:    cfg.TargetGroupID,
		Keywords:   cfg.Keywords,
		Categories: cfg.Categories,
	})

	return &app{cfg: cfg, db: database, runner: run}, nil
}

func (a *app) close() {
	a.db.Close()
}
