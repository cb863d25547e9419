package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	fetchRum      bool
	fetchRecordID string
	fetchFragment string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [compound-id]",
	Short: "Fetch the complete record behind one event",
	Long: `Fetches the full record for a single event.

The positional argument is the compound id printed by 'ddwatch search'.
Alternatively pass --record-id and --fragment from raw list output and the
compound id is derived locally.

Examples:
  ddwatch fetch AgEAAA...
  ddwatch fetch --record-id AgAAAY-abc --fragment 0f0e0d0c-0b0a-0908-0706-050403020100`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchRum, "rum", false, "the event is a RUM event")
	fetchCmd.Flags().StringVar(&fetchRecordID, "record-id", "", "list-scope record id (with --fragment)")
	fetchCmd.Flags().StringVar(&fetchFragment, "fragment", "", "storage fragment UUID (with --record-id)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	source := domain.SourceLogs
	if fetchRum {
		source = domain.SourceRUM
	}

	switch {
	case len(args) == 1 && (fetchRecordID != "" || fetchFragment != ""):
		return errors.New("pass either a compound id or --record-id/--fragment, not both")

	case len(args) == 1:
		raw, err := client.FetchOne(cmd.Context(), source, args[0])
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return printRaw(cmd, raw)

	case fetchRecordID != "" && fetchFragment != "":
		raw, err := client.FetchOneByParts(cmd.Context(), source, fetchRecordID, fetchFragment)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return printRaw(cmd, raw)

	default:
		return errors.New("a compound id or both --record-id and --fragment are required")
	}
}
