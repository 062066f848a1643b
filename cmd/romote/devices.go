package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices found on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunDevices(runOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
