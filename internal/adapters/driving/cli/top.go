package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	topQuery string
	topHours float64
	topLimit int
	topRum   bool
	topJSON  bool
)

var topCmd = &cobra.Command{
	Use:   "top [field]",
	Short: "Rank the most frequent values of a field",
	Long: `Aggregates matching events by one field and prints the ranked value
counts exactly as the backend returns them.

Examples:
  # Which services log the most errors
  ddwatch top service -q "status:error"

  # Most common RUM view names
  ddwatch top @view.name --rum`,
	Args: cobra.ExactArgs(1),
	RunE: runTop,
}

func init() {
	topCmd.Flags().StringVarP(&topQuery, "query", "q", "", "search query narrowing which events are counted")
	topCmd.Flags().Float64Var(&topHours, "hours", 4, "lookback window in hours")
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 30, "maximum number of ranked values")
	topCmd.Flags().BoolVar(&topRum, "rum", false, "aggregate RUM events instead of logs")
	topCmd.Flags().BoolVar(&topJSON, "json", false, "output ranked values as JSON")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	q := domain.Query{
		Text:             topQuery,
		Source:           domain.SourceLogs,
		Hours:            topHours,
		Limit:            topLimit,
		AggregationField: args[0],
	}
	if topRum {
		q.Source = domain.SourceRUM
	}

	counts, err := client.Aggregate(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	if topJSON {
		return printJSON(cmd, counts)
	}
	printFieldCounts(cmd, args[0], counts)
	return nil
}
