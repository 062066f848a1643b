package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Clear the most recent device address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunForget(runOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}
