package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/romote"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of romote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("romote version %s\n", strings.TrimSpace(romote.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
