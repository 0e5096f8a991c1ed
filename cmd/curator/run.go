package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mariabico/offer-curator/internal/db"
)

var (
	runConfigFile string
	runKeywords   []string
	runCategories []int64
	runDryRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one curation run now",
	Long:  "Fetches offers for the configured (or given) keywords, filters, ranks and deduplicates them, generates short links and sends the digest to the target group. With --dry-run nothing is delivered or marked sent.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigFile, "config", "c", "", "Path to JSON config file")
	runCmd.Flags().StringSliceVarP(&runKeywords, "keyword", "k", nil, "Keyword to search (repeatable, overrides configured list)")
	runCmd.Flags().Int64SliceVar(&runCategories, "category", nil, "Category ID to restrict the search to")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Run the pipeline without delivering or marking items sent")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(runConfigFile)
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, !runDryRun)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.runner.Run(ctx, db.RunKindManual, runKeywords, runCategories)
	if err != nil {
		return fmt.Errorf("curation run failed: %w", err)
	}

	fmt.Printf("Fetched:  %d\n", result.Fetched)
	fmt.Printf("Approved: %d\n", result.Approved)
	fmt.Printf("Final:    %d\n", result.Final)
	for i, p := range result.Products {
		name := p.Name
		if len([]rune(name)) > 60 {
			name = string([]rune(name)[:60])
		}
		fmt.Printf("%2d. [%.2f] %s\n    %s\n", i+1, p.Score, strings.TrimSpace(name), p.ShortLink)
	}
	return nil
}
