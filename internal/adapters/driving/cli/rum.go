package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	rumHours float64
	rumLimit int
	rumJSON  bool
	rumRaw   bool

	rumStreamPageSize int
	rumStreamMax      int

	rumTopQuery string
)

var rumCmd = &cobra.Command{
	Use:   "rum",
	Short: "Query Real User Monitoring events by type",
	Long: `Shortcuts for RUM queries. Each subcommand scopes the search to one
RUM event type, equivalent to 'ddwatch search --rum --rum-type <type>'.

Examples:
  # Frontend errors from one service
  ddwatch rum errors "service:frontend"

  # Slowest-loading views, as JSON
  ddwatch rum views "@view.loading_time:>3000000000" --json`,
}

func init() {
	for _, sub := range []struct {
		use     string
		short   string
		rumType domain.RumEventType
	}{
		{"sessions [query]", "Search RUM sessions", domain.RumSession},
		{"views [query]", "Search RUM page views", domain.RumView},
		{"actions [query]", "Search RUM user actions", domain.RumAction},
		{"resources [query]", "Search RUM resource loads", domain.RumResource},
		{"errors [query]", "Search RUM frontend errors", domain.RumError},
		{"long-tasks [query]", "Search RUM long tasks", domain.RumLongTask},
	} {
		rumType := sub.rumType
		rumCmd.AddCommand(&cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runRumSearch(cmd, args, rumType)
			},
		})
	}

	rumCmd.PersistentFlags().Float64Var(&rumHours, "hours", 4, "lookback window in hours")
	rumCmd.PersistentFlags().IntVarP(&rumLimit, "limit", "n", 30, "maximum number of events")
	rumCmd.PersistentFlags().BoolVar(&rumJSON, "json", false, "output normalized events as JSON")
	rumCmd.PersistentFlags().BoolVar(&rumRaw, "raw", false, "output the undecoded backend response")

	rumStreamCmd.Flags().IntVar(&rumStreamPageSize, "page-size", 100, "events requested per page")
	rumStreamCmd.Flags().IntVar(&rumStreamMax, "max-total", 1000, "hard cap on streamed events")
	rumCmd.AddCommand(rumStreamCmd)

	rumTopCmd.Flags().StringVarP(&rumTopQuery, "query", "q", "", "search query narrowing which events are counted")
	rumCmd.AddCommand(rumTopCmd)

	rootCmd.AddCommand(rumCmd)
}

func rumQuery(args []string, rumType domain.RumEventType) domain.Query {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	return domain.Query{
		Text:    text,
		Source:  domain.SourceRUM,
		Hours:   rumHours,
		Limit:   rumLimit,
		RumType: rumType,
	}
}

func runRumSearch(cmd *cobra.Command, args []string, rumType domain.RumEventType) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	q := rumQuery(args, rumType)

	if rumRaw {
		raw, err := client.SearchRaw(cmd.Context(), q, datadog.DefaultProfile)
		if err != nil {
			return fmt.Errorf("rum search failed: %w", err)
		}
		return printRaw(cmd, raw)
	}

	events, err := client.Search(cmd.Context(), q, datadog.DefaultProfile)
	if err != nil {
		return fmt.Errorf("rum search failed: %w", err)
	}

	if rumJSON {
		return printJSON(cmd, events)
	}
	printEvents(cmd, events)
	return nil
}

var rumStreamCmd = &cobra.Command{
	Use:   "stream [query]",
	Short: "Page through RUM events as NDJSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newQueryClient()
		if err != nil {
			return err
		}

		q := rumQuery(args, "")
		q.Limit = rumStreamPageSize

		enc := json.NewEncoder(cmd.OutOrStdout())
		stats, err := client.Stream(cmd.Context(), q, datadog.StreamOptions{
			MaxTotal: rumStreamMax,
		}, func(ev domain.NormalizedEvent) error {
			return enc.Encode(ev)
		})
		if err != nil {
			return fmt.Errorf("rum stream failed after %d event(s): %w", stats.Events, err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%d event(s) across %d page(s)\n", stats.Events, stats.Pages)
		return nil
	},
}

var rumTopCmd = &cobra.Command{
	Use:   "top [field]",
	Short: "Rank the most frequent values of a RUM field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newQueryClient()
		if err != nil {
			return err
		}

		q := domain.Query{
			Text:             rumTopQuery,
			Source:           domain.SourceRUM,
			Hours:            rumHours,
			Limit:            rumLimit,
			AggregationField: args[0],
		}

		counts, err := client.Aggregate(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("rum aggregation failed: %w", err)
		}

		if rumJSON {
			return printJSON(cmd, counts)
		}
		printFieldCounts(cmd, args[0], counts)
		return nil
	},
}
