package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/autopredict/internal/engine"
	"github.com/ndkhanh/autopredict/internal/predictor"
)

// NewTrainCmd creates the 'train' command for fitting the models.
func NewTrainCmd() *cobra.Command {
	var configPath string
	var minSamples int
	var synthetic bool

	cmd := &cobra.Command{
		Use:       "train [behavior|load|all]",
		Short:     "Train the prediction models",
		Long:      `Fit the behavior classifier and/or the system-load regressor on the recorded history. Training blocks for the duration of the fit.`,
		Example: `  autopredict train all
  autopredict train behavior --min-samples 50
  autopredict train behavior --synthetic-labels
  autopredict train load`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"behavior", "load", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(configPath, args[0], minSamples, synthetic)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&minSamples, "min-samples", "m", 0, "Minimum history size (default: config value)")
	cmd.Flags().BoolVar(&synthetic, "synthetic-labels", false, "Train the behavior model on activity buckets instead of action types")

	return cmd
}

func runTrain(configPath, target string, minSamples int, synthetic bool) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	if synthetic {
		eng.SetBehaviorLabelMode(predictor.LabelSynthetic)
	}

	switch target {
	case "behavior":
		return trainBehavior(eng, minSamples)
	case "load":
		return trainLoad(eng, minSamples)
	case "all":
		if err := trainBehavior(eng, minSamples); err != nil {
			return err
		}
		return trainLoad(eng, 0)
	default:
		return fmt.Errorf("unknown model %q (want behavior, load or all)", target)
	}
}

func trainBehavior(eng *engine.Engine, minSamples int) error {
	report, err := eng.TrainBehaviorModel(minSamples)
	if err != nil {
		return err
	}
	fmt.Printf("Behavior model trained (run %s)\n", report.RunID)
	fmt.Printf("  train accuracy: %.3f\n", report.TrainAccuracy)
	fmt.Printf("  test accuracy:  %.3f\n", report.TestAccuracy)
	fmt.Printf("  samples used:   %d\n", report.SamplesUsed)
	return nil
}

func trainLoad(eng *engine.Engine, minSamples int) error {
	report, err := eng.TrainLoadModel(minSamples)
	if err != nil {
		return err
	}
	fmt.Printf("Load model trained (run %s)\n", report.RunID)
	fmt.Printf("  train MSE:    %.3f\n", report.TrainMSE)
	fmt.Printf("  test MSE:     %.3f\n", report.TestMSE)
	fmt.Printf("  samples used: %d\n", report.SamplesUsed)
	return nil
}
