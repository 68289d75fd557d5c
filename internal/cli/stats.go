package cli

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the 'stats' command.
func NewStatsCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool
	var patterns bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show engine statistics",
		Example: `  autopredict stats
  autopredict stats --json
  autopredict stats --patterns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(configPath, jsonOutput, patterns)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVarP(&patterns, "patterns", "p", false, "Include behavior pattern analysis")

	return cmd
}

func runStats(configPath string, jsonOutput, patterns bool) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	stats := eng.Statistics()

	if jsonOutput {
		out := map[string]any{"statistics": stats}
		if patterns {
			out["patterns"] = eng.Patterns()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Predictive Engine Status")
	fmt.Println("========================")
	fmt.Printf("Actions recorded: %d\n", stats.ActionCount)
	fmt.Printf("Metrics recorded: %d\n", stats.MetricCount)

	if stats.BehaviorTrained {
		fmt.Printf("Behavior model:   trained at %s (test accuracy %.3f)\n",
			stats.BehaviorTrainedAt.Format("2006-01-02 15:04"), *stats.BehaviorAccuracy)
	} else {
		fmt.Println("Behavior model:   not trained")
	}
	if stats.LoadTrained {
		fmt.Printf("Load model:       trained at %s (test MSE %.3f)\n",
			stats.LoadTrainedAt.Format("2006-01-02 15:04"), *stats.LoadMSE)
	} else {
		fmt.Println("Load model:       not trained")
	}

	if patterns {
		p := eng.Patterns()
		fmt.Printf("\nBehavior patterns (%d actions, success rate %.1f%%):\n",
			p.TotalActions, p.SuccessRate*100)
		for hour := 0; hour < 24; hour++ {
			if count := p.HourlyActivity[hour]; count > 0 {
				fmt.Printf("  %02d:00  %d actions\n", hour, count)
			}
		}
	}
	return nil
}
