package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecordCmd creates the 'record' command for recording one user action.
func NewRecordCmd() *cobra.Command {
	var configPath string
	var duration float64
	var failed bool

	cmd := &cobra.Command{
		Use:   "record <action_type> <application>",
		Short: "Record a user action",
		Long:  `Record one user interaction into the activity history, sampling live CPU and memory.`,
		Example: `  autopredict record app_launch chrome
  autopredict record file_open notepad --duration 2.5
  autopredict record app_launch outlook --failed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(configPath, args[0], args[1], duration, !failed)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Action duration in seconds")
	cmd.Flags().BoolVar(&failed, "failed", false, "Mark the action as unsuccessful")

	return cmd
}

func runRecord(configPath, actionType, application string, duration float64, success bool) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	eng.RecordAction(actionType, application, duration, success)

	stats := eng.Statistics()
	fmt.Printf("Recorded %s/%s (%d actions in history)\n", actionType, application, stats.ActionCount)
	return nil
}
