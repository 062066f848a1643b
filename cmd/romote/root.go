package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/romote/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "romote",
	Short: "romote is a terminal remote for Roku devices",
	Long: `romote finds a Roku device on the local network (or reuses the last one),
then relays keypresses to it from a small command table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/romote/config.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file loaded before ROMOTE_* overrides")
	rootCmd.PersistentFlags().String("address", "", "Device address to try before the cache and discovery")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Keep the device address in memory only")
	rootCmd.PersistentFlags().Bool("debug", false, "Log lifecycle events to stderr")
}

// runOptions collects the persistent flags shared by every command.
func runOptions(cmd *cobra.Command) cli.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	dotenv, _ := flags.GetString("env-file")
	address, _ := flags.GetString("address")
	noCache, _ := flags.GetBool("no-cache")
	debug, _ := flags.GetBool("debug")

	return cli.RunOptions{
		ConfigPath: configPath,
		DotEnv:     dotenv,
		Address:    address,
		NoCache:    noCache,
		Debug:      debug,
	}
}
