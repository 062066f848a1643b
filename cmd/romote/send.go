package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

var sendCmd = &cobra.Command{
	Use:   "send <token> [text...]",
	Short: "Send one command to the most recent (or --address) device",
	Example: `  romote send h
  romote send txt "breaking bad"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunSend(runOptions(cmd), args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
