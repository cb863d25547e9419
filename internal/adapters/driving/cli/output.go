package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printRaw re-indents an undecoded backend response for the terminal.
// Bodies that fail to indent are printed as-is rather than dropped.
func printRaw(cmd *cobra.Command, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		cmd.Println(string(raw))
		return nil
	}
	cmd.Println(buf.String())
	return nil
}

// printEvents renders events as a readable listing.
func printEvents(cmd *cobra.Command, events []domain.NormalizedEvent) {
	if len(events) == 0 {
		cmd.Println("No events found.")
		return
	}

	for i := range events {
		ev := &events[i]
		line := ev.Timestamp
		if ev.Service != "" {
			line += "  " + ev.Service
		}
		if ev.Status != "" {
			line += "  [" + ev.Status + "]"
		}
		cmd.Printf("%s\n", line)
		cmd.Printf("    %s\n", ev.Message)
		if ev.TraceID != "" {
			cmd.Printf("    trace: %s\n", ev.TraceID)
		}
		if ev.CompoundID != "" {
			cmd.Printf("    id: %s\n", ev.CompoundID)
		}
		cmd.Println()
	}
	cmd.Printf("%d event(s)\n", len(events))
}

// printFieldCounts renders ranked aggregation buckets in backend order.
func printFieldCounts(cmd *cobra.Command, field string, counts []domain.FieldCount) {
	if len(counts) == 0 {
		cmd.Println("No values found.")
		return
	}

	cmd.Printf("Top values of %s:\n\n", field)
	for i := range counts {
		cmd.Printf("  %8d  %s\n", counts[i].Count, counts[i].Value)
	}
}
