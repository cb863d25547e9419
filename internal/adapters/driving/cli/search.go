package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	searchHours   float64
	searchLimit   int
	searchProfile string
	searchRum     bool
	searchRumType string
	searchAsc     bool
	searchJSON    bool
	searchRaw     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search log or RUM events",
	Long: `Searches events with the same query syntax as the web UI.

By default the most recent page of backend log events is returned, newest
first, as a readable listing. Each result carries a compound id usable with
'ddwatch fetch' to retrieve the complete record.

Examples:
  # Errors from one service over the last 4 hours
  ddwatch search "service:checkout status:error"

  # Frontend errors (RUM), JSON output
  ddwatch search --rum --rum-type error "service:frontend" --json

  # Kubernetes-oriented columns
  ddwatch search "pod_name:api-*" --profile k8s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Float64Var(&searchHours, "hours", 4, "lookback window in hours (fractional allowed)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 30, "maximum number of events")
	searchCmd.Flags().StringVar(&searchProfile, "profile", datadog.DefaultProfile, "column profile for log queries")
	searchCmd.Flags().BoolVar(&searchRum, "rum", false, "search RUM events instead of logs")
	searchCmd.Flags().StringVar(&searchRumType, "rum-type", "", "RUM event type (session, view, action, resource, error, long_task)")
	searchCmd.Flags().BoolVar(&searchAsc, "asc", false, "oldest events first")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output normalized events as JSON")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "output the undecoded backend response")
	rootCmd.AddCommand(searchCmd)
}

func searchQueryFromFlags(args []string) domain.Query {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}

	q := domain.Query{
		Text:   text,
		Source: domain.SourceLogs,
		Hours:  searchHours,
		Limit:  searchLimit,
	}
	if searchRum {
		q.Source = domain.SourceRUM
		q.RumType = domain.RumEventType(searchRumType)
	}
	if searchAsc {
		q.Sort = domain.SortAsc
	}
	return q
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	q := searchQueryFromFlags(args)

	if searchRaw {
		raw, err := client.SearchRaw(cmd.Context(), q, searchProfile)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return printRaw(cmd, raw)
	}

	events, err := client.Search(cmd.Context(), q, searchProfile)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, events)
	}
	printEvents(cmd, events)
	return nil
}
