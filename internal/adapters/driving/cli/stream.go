package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	streamHours    float64
	streamPageSize int
	streamMax      int
	streamProfile  string
	streamRum      bool
	streamRumType  string
)

var streamCmd = &cobra.Command{
	Use:   "stream [query]",
	Short: "Page through a large result set as NDJSON",
	Long: `Pages through matching events cursor by cursor, printing one JSON
object per line as pages arrive. The time window is fixed when the stream
starts, so long-running streams do not drift.

Examples:
  # Up to 2000 error events, 200 per page
  ddwatch stream "status:error" --max-total 2000 --page-size 200

  # Pipe into jq
  ddwatch stream "service:api" | jq -r .message`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().Float64Var(&streamHours, "hours", 4, "lookback window in hours")
	streamCmd.Flags().IntVar(&streamPageSize, "page-size", 100, "events requested per page")
	streamCmd.Flags().IntVar(&streamMax, "max-total", 1000, "hard cap on streamed events")
	streamCmd.Flags().StringVar(&streamProfile, "profile", datadog.DefaultProfile, "column profile for log queries")
	streamCmd.Flags().BoolVar(&streamRum, "rum", false, "stream RUM events instead of logs")
	streamCmd.Flags().StringVar(&streamRumType, "rum-type", "", "RUM event type filter")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
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
		Hours:  streamHours,
		Limit:  streamPageSize,
	}
	if streamRum {
		q.Source = domain.SourceRUM
		q.RumType = domain.RumEventType(streamRumType)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	stats, err := client.Stream(cmd.Context(), q, datadog.StreamOptions{
		Profile:  streamProfile,
		MaxTotal: streamMax,
	}, func(ev domain.NormalizedEvent) error {
		return enc.Encode(ev)
	})
	if err != nil {
		return fmt.Errorf("stream failed after %d event(s): %w", stats.Events, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d event(s) across %d page(s)\n", stats.Events, stats.Pages)
	return nil
}
