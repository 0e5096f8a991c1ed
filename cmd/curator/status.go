package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/digest"
)

var statusConfigFile string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run and aggregate store counters",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusConfigFile, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(statusConfigFile)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	lastRun, err := database.GetLastRun(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last run: %w", err)
	}
	stats, err := database.GetAggregateStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	// The status command runs outside the daemon, so there is no live
	// scheduler to ask for the next trigger time.
	fmt.Println(digest.FormatStatus(lastRun, stats, time.Time{}))
	return nil
}
