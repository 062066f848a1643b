package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to a device and start the interactive remote",
	Long: `Tries the most recent device first, falls back to network discovery, and
then reads commands until you quit with Ctrl+C or Ctrl+D.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("metrics-addr", "", "Serve /metrics, /health and /info on this address")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
