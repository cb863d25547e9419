package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	watchdogQuery string
	watchdogHours float64
	watchdogRum   bool
)

var watchdogCmd = &cobra.Command{
	Use:   "watchdog",
	Short: "List automatic anomaly insights for the window",
	Long: `Fetches the backend's automatic anomaly detections (error spikes,
latency regressions) for the lookback window.

Example:
  ddwatch watchdog --hours 24 -q "service:checkout"`,
	RunE: runWatchdog,
}

func init() {
	watchdogCmd.Flags().StringVarP(&watchdogQuery, "query", "q", "", "search query scoping the insights")
	watchdogCmd.Flags().Float64Var(&watchdogHours, "hours", 24, "lookback window in hours")
	watchdogCmd.Flags().BoolVar(&watchdogRum, "rum", false, "insights over RUM events instead of logs")
	rootCmd.AddCommand(watchdogCmd)
}

func runWatchdog(cmd *cobra.Command, _ []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	source := domain.SourceLogs
	if watchdogRum {
		source = domain.SourceRUM
	}

	raw, err := client.WatchdogInsights(cmd.Context(), source, watchdogQuery, watchdogHours)
	if err != nil {
		return fmt.Errorf("watchdog lookup failed: %w", err)
	}
	return printRaw(cmd, raw)
}
