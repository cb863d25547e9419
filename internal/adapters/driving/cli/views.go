package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	viewsSearch string
	viewsLimit  int
	viewsRum    bool
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List saved views",
	Long: `Lists the saved views configured in the web UI, which are a useful
source of known-good query strings.`,
	RunE: runViews,
}

func init() {
	viewsCmd.Flags().StringVar(&viewsSearch, "search", "", "filter views by name substring")
	viewsCmd.Flags().IntVarP(&viewsLimit, "limit", "n", 50, "maximum number of views")
	viewsCmd.Flags().BoolVar(&viewsRum, "rum", false, "list RUM views instead of log views")
	rootCmd.AddCommand(viewsCmd)
}

func runViews(cmd *cobra.Command, _ []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	source := domain.SourceLogs
	if viewsRum {
		source = domain.SourceRUM
	}

	raw, err := client.ListViews(cmd.Context(), source, viewsSearch, viewsLimit)
	if err != nil {
		return fmt.Errorf("views lookup failed: %w", err)
	}
	return printRaw(cmd, raw)
}
