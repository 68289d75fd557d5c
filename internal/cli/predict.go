package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/autopredict/internal/feature"
)

// NewPredictCmd creates the 'predict' command.
func NewPredictCmd() *cobra.Command {
	var configPath string
	var hour, day int
	var duration float64

	cmd := &cobra.Command{
		Use:       "predict [behavior|load]",
		Short:     "Predict the next action or the next CPU load",
		Example: `  autopredict predict behavior
  autopredict predict behavior --hour 9 --day 0
  autopredict predict load`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"behavior", "load"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, configPath, args[0], hour, day, duration)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVar(&hour, "hour", -1, "Hour of day (default: now)")
	cmd.Flags().IntVar(&day, "day", -1, "Day of week, 0=Monday (default: today)")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Expected action duration in seconds")

	return cmd
}

func runPredict(cmd *cobra.Command, configPath, target string, hour, day int, duration float64) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	switch target {
	case "behavior":
		ctx := feature.DefaultContext()
		if cmd.Flags().Changed("hour") {
			ctx.Hour = hour
		}
		if cmd.Flags().Changed("day") {
			ctx.DayOfWeek = day
		}
		ctx.Duration = duration

		prediction, err := eng.PredictBehavior(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Predicted behavior: %s (confidence %.3f)\n",
			prediction.Predicted, prediction.Confidence)

		labels := make([]string, 0, len(prediction.Probabilities))
		for label := range prediction.Probabilities {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Printf("  %-24s %.3f\n", label, prediction.Probabilities[label])
		}
		return nil

	case "load":
		prediction, err := eng.PredictLoad(nil)
		if err != nil {
			return err
		}
		fmt.Printf("Predicted CPU load: %.1f%% (current %.1f%%)\n",
			prediction.PredictedCPULoad, prediction.CurrentCPULoad)
		return nil

	default:
		return fmt.Errorf("unknown model %q (want behavior or load)", target)
	}
}
