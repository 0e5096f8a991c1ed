package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/runner"
	"github.com/mariabico/offer-curator/internal/scheduler"
)

var serveConfigFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the curator as a scheduled daemon",
	Long:  "Starts the cron scheduler and executes a curation run on every tick until interrupted. A tick that fires while a run is still in progress is skipped.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(serveConfigFile)
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(cfg.ScheduleCron, func(jobCtx context.Context) error {
		_, err := a.runner.Run(jobCtx, db.RunKindScheduled, nil, nil)
		if errors.Is(err, runner.ErrRunInProgress) {
			slog.Warn("previous run still in progress, skipping tick")
			return nil
		}
		return err
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("Curator running. Schedule: %s, next run: %s\n",
		cfg.ScheduleCron, sched.NextRun().Format("02/01/2006 15:04"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("shutting down", "signal", sig.String())
	sched.Stop()
	return nil
}
