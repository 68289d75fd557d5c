/*
Package main is the entry point for the autopredict CLI.

autopredict is a local predictive automation engine: it records user
actions and system metrics, trains behavior and load models on the
accumulated history, and derives automation recommendations.

Usage:
  autopredict [command]

Available Commands:
  record      Record a user action
  collect     Record system metric snapshots
  monitor     Continuously record system metrics
  train       Train the prediction models
  predict     Predict the next action or the next CPU load
  recommend   Show automation recommendations
  stats       Show engine statistics
  export      Export the activity history snapshot
  clear       Delete all recorded history and trained models
  help        Help about any command

Examples:
  # Record an action and check history size
  autopredict record app_launch chrome

  # Train both models once enough history exists
  autopredict train all

  # Ask for automation recommendations
  autopredict recommend
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/autopredict/internal/cli"
	"github.com/ndkhanh/autopredict/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "autopredict",
		Short: "Predictive automation engine - learn usage patterns, predict the next move",
		Long: `autopredict learns from recorded user actions and system metrics.

It keeps an append-only activity history, trains two models on it
(a behavior classifier over action types and a one-step-ahead CPU load
regressor) and mines the raw history for automation recommendations.

All data stays local: a JSON snapshot (or SQLite append log) plus one
persisted bundle per trained model.`,
		Version: version.GetVersion(),
	}

	// Add subcommands
	rootCmd.AddCommand(cli.NewRecordCmd())
	rootCmd.AddCommand(cli.NewCollectCmd())
	rootCmd.AddCommand(cli.NewMonitorCmd())
	rootCmd.AddCommand(cli.NewTrainCmd())
	rootCmd.AddCommand(cli.NewPredictCmd())
	rootCmd.AddCommand(cli.NewRecommendCmd())
	rootCmd.AddCommand(cli.NewStatsCmd())
	rootCmd.AddCommand(cli.NewExportCmd())
	rootCmd.AddCommand(cli.NewClearCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
