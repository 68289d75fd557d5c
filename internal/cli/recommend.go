package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd() *cobra.Command {
	var configPath string
	var anomalies bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show automation recommendations",
		Long:  `Mine the recorded action history for frequent patterns worth automating. Pure frequency analysis; the trained models are not consulted.`,
		Example: `  autopredict recommend
  autopredict recommend --anomalies`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(configPath, anomalies)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&anomalies, "anomalies", false, "Also list behavior anomalies flagged by the trained model")

	return cmd
}

func runRecommend(configPath string, anomalies bool) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	recs := eng.Recommendations()
	fmt.Printf("Recommendations (%d):\n", len(recs))
	for _, r := range recs {
		fmt.Printf("  [%s] %s\n", r.Kind, r.Message)
	}

	if anomalies {
		found := eng.DetectAnomalies(0)
		fmt.Printf("\nAnomalies (%d):\n", len(found))
		for _, a := range found {
			fmt.Printf("  %s %s/%s score %.3f\n",
				a.Timestamp.Format("2006-01-02 15:04"), a.ActionType, a.Application, a.Score)
		}
	}
	return nil
}
