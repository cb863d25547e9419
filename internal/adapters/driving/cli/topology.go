package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

var (
	topoEnv     string
	topoHours   float64
	topoService string
	topoJSON    bool
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Show the service dependency map",
	Long: `Builds the service dependency map for one environment from traced
calls: each service with its health and traffic stats, plus the observed
call edges between services.

Examples:
  ddwatch topology --env production
  ddwatch topology --env staging --service checkout`,
	RunE: runTopology,
}

func init() {
	topologyCmd.Flags().StringVar(&topoEnv, "env", "production", "deployment environment")
	topologyCmd.Flags().Float64Var(&topoHours, "hours", 1, "lookback window in hours")
	topologyCmd.Flags().StringVar(&topoService, "service", "", "restrict to one service and its direct neighbours")
	topologyCmd.Flags().BoolVar(&topoJSON, "json", false, "output the topology as JSON")
	rootCmd.AddCommand(topologyCmd)
}

func runTopology(cmd *cobra.Command, _ []string) error {
	client, _, err := newQueryClient()
	if err != nil {
		return err
	}

	topo, err := client.ServiceTopology(cmd.Context(), datadog.TopologyOptions{
		Env:     topoEnv,
		Hours:   topoHours,
		Service: topoService,
	})
	if err != nil {
		return fmt.Errorf("topology lookup failed: %w", err)
	}

	if topoJSON {
		return printJSON(cmd, topo)
	}
	printTopology(cmd, topo)
	return nil
}

func printTopology(cmd *cobra.Command, topo *domain.Topology) {
	if len(topo.Nodes) == 0 {
		cmd.Println("No services found.")
		return
	}

	cmd.Printf("Services (%d):\n\n", len(topo.Nodes))
	for i := range topo.Nodes {
		node := &topo.Nodes[i]
		line := fmt.Sprintf("  %s", node.Service)
		if node.Health != "" {
			line += fmt.Sprintf("  [%s]", node.Health)
		}
		if node.Stats.RequestsPerSecond != nil {
			line += fmt.Sprintf("  %.1f req/s", *node.Stats.RequestsPerSecond)
		}
		if node.Stats.ErrorsPercentage != nil {
			line += fmt.Sprintf("  %.2f%% errors", *node.Stats.ErrorsPercentage)
		}
		cmd.Println(line)
	}

	if len(topo.Edges) > 0 {
		cmd.Printf("\nCalls (%d):\n\n", len(topo.Edges))
		for i := range topo.Edges {
			edge := &topo.Edges[i]
			line := fmt.Sprintf("  %s -> %s", edge.From, edge.To)
			if edge.Operation != "" {
				line += fmt.Sprintf("  (%s)", edge.Operation)
			}
			cmd.Println(line)
		}
	}
}
