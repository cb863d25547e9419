package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	deepHours    float64
	deepPageSize int
	deepMax      int
	deepProfile  string
	deepRum      bool
	deepRumType  string
)

var deepCmd = &cobra.Command{
	Use:   "deep [query]",
	Short: "Search and fetch the complete record for every result",
	Long: `Runs a search and then hydrates each result with its complete record
via the single-record endpoint. Hydration fans out with bounded
concurrency; a per-record failure is reported inline without failing the
batch.

Output is a JSON array pairing each simplified event with its full record.

Example:
  ddwatch deep "service:checkout status:error" --max-total 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeep,
}

func init() {
	deepCmd.Flags().Float64Var(&deepHours, "hours", 4, "lookback window in hours")
	deepCmd.Flags().IntVar(&deepPageSize, "page-size", 50, "events requested per page")
	deepCmd.Flags().IntVar(&deepMax, "max-total", 50, "hard cap on hydrated events")
	deepCmd.Flags().StringVar(&deepProfile, "profile", datadog.DefaultProfile, "column profile for log queries")
	deepCmd.Flags().BoolVar(&deepRum, "rum", false, "search RUM events instead of logs")
	deepCmd.Flags().StringVar(&deepRumType, "rum-type", "", "RUM event type filter")
	rootCmd.AddCommand(deepCmd)
}

func runDeep(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	q := domain.Query{
		Text:   text,
		Source: domain.SourceLogs,
		Hours:  deepHours,
		Limit:  deepPageSize,
	}
	if deepRum {
		q.Source = domain.SourceRUM
		q.RumType = domain.RumEventType(deepRumType)
	}

	results, err := client.DeepFetch(cmd.Context(), q, datadog.StreamOptions{
		Profile:  deepProfile,
		MaxTotal: deepMax,
	})
	if err != nil {
		return fmt.Errorf("deep fetch failed: %w", err)
	}

	return printJSON(cmd, results)
}
