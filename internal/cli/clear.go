package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/autopredict/internal/config"
)

// NewClearCmd creates the 'clear' command deleting all engine data.
func NewClearCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded history and trained models",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("This will delete all activity data and trained models. Continue? (y/N): ")
			var response string
			fmt.Scanln(&response)

			if response != "y" && response != "Y" {
				fmt.Println("Cancelled")
				return nil
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			removed := 0
			for _, path := range []string{
				cfg.SnapshotPath(),
				cfg.DatabasePath(),
				cfg.BehaviorBundlePath(),
				cfg.LoadBundlePath(),
			} {
				if err := os.Remove(path); err != nil {
					if os.IsNotExist(err) {
						continue
					}
					return fmt.Errorf("failed to delete %s: %w", path, err)
				}
				removed++
			}

			if removed == 0 {
				fmt.Println("No data found")
				return nil
			}
			fmt.Printf("Deleted %d file(s)\n", removed)
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
