package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndkhanh/autopredict/internal/config"
)

// NewExportCmd creates the 'export' command writing the activity
// snapshot to a chosen location.
func NewExportCmd() *cobra.Command {
	var configPath string
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the activity history snapshot",
		Long:  `Write the JSON activity snapshot. For the SQLite backend this is the compaction step that materializes the snapshot file from the append log.`,
		Example: `  autopredict export
  autopredict export --output history.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(configPath, outputFile)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: the configured snapshot path)")

	return cmd
}

func runExport(configPath, outputFile string) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	if err := eng.Save(); err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	snapshotPath := cfg.SnapshotPath()

	if outputFile != "" && outputFile != snapshotPath {
		data, err := os.ReadFile(snapshotPath)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Printf("Exported snapshot to %s\n", outputFile)
		return nil
	}

	fmt.Printf("Exported snapshot to %s\n", snapshotPath)
	return nil
}
