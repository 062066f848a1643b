package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"run", "devices", "send", "forget", "graph", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRunOptions_ReadsPersistentFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"send"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--address", "192.168.1.134", "--no-cache", "--debug"}))

	opts := runOptions(cmd)
	assert.Equal(t, "192.168.1.134", opts.Address)
	assert.True(t, opts.NoCache)
	assert.True(t, opts.Debug)
	assert.Equal(t, ".env", opts.DotEnv)
}

func TestRootAcceptsRunFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.Flags().Lookup("metrics-addr"))
}
