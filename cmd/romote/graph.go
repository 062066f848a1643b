package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the connection state machine",
	Long:  `Outputs a Mermaid diagram (stateDiagram-v2) of how romote finds and verifies a device.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunGraph(runOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
