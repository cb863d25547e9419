package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	fieldsRum   bool
	valuesRum   bool
	valuesQuery string
	valuesHours float64
	facetQuery  string
	facetHours  float64
	facetLimit  int
	facetRum    bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Explore the queryable field catalogue",
}

var fieldsSearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search field names",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFieldsSearch,
}

var fieldsValuesCmd = &cobra.Command{
	Use:   "values [field]",
	Short: "List observed values of one field",
	Args:  cobra.ExactArgs(1),
	RunE:  runFieldsValues,
}

var facetInfoCmd = &cobra.Command{
	Use:   "facet-info [facet-path]",
	Short: "Show metadata and value statistics for one facet",
	Args:  cobra.ExactArgs(1),
	RunE:  runFacetInfo,
}

func init() {
	fieldsSearchCmd.Flags().BoolVar(&fieldsRum, "rum", false, "search the RUM field catalogue")

	fieldsValuesCmd.Flags().BoolVar(&valuesRum, "rum", false, "inspect RUM events")
	fieldsValuesCmd.Flags().StringVarP(&valuesQuery, "query", "q", "", "search query narrowing the events considered")
	fieldsValuesCmd.Flags().Float64Var(&valuesHours, "hours", 4, "lookback window in hours")

	facetInfoCmd.Flags().StringVarP(&facetQuery, "query", "q", "", "search query narrowing the events considered")
	facetInfoCmd.Flags().Float64Var(&facetHours, "hours", 4, "lookback window in hours")
	facetInfoCmd.Flags().IntVarP(&facetLimit, "limit", "n", 30, "maximum facet values")
	facetInfoCmd.Flags().BoolVar(&facetRum, "rum", false, "inspect RUM events")

	fieldsCmd.AddCommand(fieldsSearchCmd)
	fieldsCmd.AddCommand(fieldsValuesCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(facetInfoCmd)
}

func runFieldsSearch(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	keyword := ""
	if len(args) > 0 {
		keyword = args[0]
	}

	source := domain.SourceLogs
	if fieldsRum {
		source = domain.SourceRUM
	}

	raw, err := client.SearchFields(cmd.Context(), source, keyword)
	if err != nil {
		return fmt.Errorf("field search failed: %w", err)
	}
	return printRaw(cmd, raw)
}

func runFieldsValues(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	source := domain.SourceLogs
	if valuesRum {
		source = domain.SourceRUM
	}

	raw, err := client.FieldValues(cmd.Context(), source, args[0], valuesQuery, valuesHours)
	if err != nil {
		return fmt.Errorf("field values lookup failed: %w", err)
	}
	return printRaw(cmd, raw)
}

func runFacetInfo(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	q := domain.Query{
		Text:   facetQuery,
		Source: domain.SourceLogs,
		Hours:  facetHours,
		Limit:  facetLimit,
	}
	if facetRum {
		q.Source = domain.SourceRUM
	}

	raw, err := client.FacetInfo(cmd.Context(), q, args[0])
	if err != nil {
		return fmt.Errorf("facet info failed: %w", err)
	}
	return printRaw(cmd, raw)
}
