package cli

import (
	"io"
	"os"
)

// RunOptions contains all the configuration for the CLI commands.
type RunOptions struct {
	ConfigPath  string
	DotEnv      string
	Address     string
	NoCache     bool
	MetricsAddr string
	Debug       bool

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

func (o RunOptions) stdin() io.Reader {
	if o.Stdin == nil {
		return os.Stdin
	}
	return o.Stdin
}

func (o RunOptions) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// Execute handles the 'run' command: connect to a device, then relay
// commands until the user quits.
func Execute(opts RunOptions) error {
	return RunSession(opts)
}
