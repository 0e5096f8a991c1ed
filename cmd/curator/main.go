// Package main provides the entry point for the offer curator CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Shopee affiliate offer curator",
	Long:  "Curates product offers from the Shopee affiliate API, ranks and deduplicates them, attaches trackable short links and delivers a digest to a Telegram group on a schedule or on demand.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	setupLogging()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs the process-wide structured logger. LOG_LEVEL
// accepts debug/info/warn/error; the default is info.
func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
