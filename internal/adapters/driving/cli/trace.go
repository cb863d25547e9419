package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	traceHours float64
	traceLimit int
	traceJSON  bool
)

var traceCmd = &cobra.Command{
	Use:   "trace [trace-id]",
	Short: "List the log events correlated with one trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().Float64Var(&traceHours, "hours", 4, "lookback window in hours")
	traceCmd.Flags().IntVarP(&traceLimit, "limit", "n", 100, "maximum number of events")
	traceCmd.Flags().BoolVar(&traceJSON, "json", false, "output events as JSON")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	events, err := client.TraceLogs(cmd.Context(), args[0], traceHours, traceLimit)
	if err != nil {
		return fmt.Errorf("trace lookup failed: %w", err)
	}

	if traceJSON {
		return printJSON(cmd, events)
	}
	printEvents(cmd, events)
	return nil
}
