package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// NewMonitorCmd creates the 'monitor' command running the background
// metric collector until interrupted.
func NewMonitorCmd() *cobra.Command {
	var configPath string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuously record system metrics",
		Long:  `Run the background metric monitor until interrupted (Ctrl+C).`,
		Example: `  autopredict monitor
  autopredict monitor --interval 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(configPath, interval)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Sampling interval (default: config value)")

	return cmd
}

func runMonitor(configPath string, interval time.Duration) error {
	eng, logger, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer logger.Sync()

	// A flag override polls directly; otherwise the engine's monitor
	// runs with the configured interval.
	if interval > 0 {
		fmt.Printf("Monitoring every %s, Ctrl+C to stop\n", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		eng.RecordSystemMetrics()
		for {
			select {
			case <-ticker.C:
				eng.RecordSystemMetrics()
			case <-sigChan:
				return nil
			}
		}
	}

	eng.Monitor().Start()
	fmt.Println("Monitoring with configured interval, Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	eng.Monitor().Stop()
	return nil
}
