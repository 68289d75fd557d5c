/*
Package cli provides the autopredict command implementations.

Each command is in its own file with a New<X>Cmd constructor, mirroring
the engine's operational surface: recording activity, collecting
metrics, training, predicting, recommendations and statistics.
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ndkhanh/autopredict/internal/config"
	"github.com/ndkhanh/autopredict/internal/engine"
)

// addConfigFlag registers the shared --config flag on a command.
func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Config file (default: built-in defaults)")
}

// openEngine loads configuration and wires an engine for one command
// invocation. The caller must Close the engine and Sync the logger.
func openEngine(configPath string) (*engine.Engine, *zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	eng, err := engine.Open(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return eng, logger, nil
}
