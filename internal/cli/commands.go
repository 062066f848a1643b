package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/romote"
	"github.com/aretw0/romote/internal/presentation/graph"
	"github.com/aretw0/romote/pkg/connect"
	"github.com/aretw0/romote/pkg/runner"
)

// RunDevices runs one discovery round and prints what answered.
func RunDevices(opts RunOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := createLogger(opts.Debug, cfg.Log)

	sm := runner.NewSignalManager(context.Background())
	defer sm.Stop()

	prompter := runner.NewTextHandler(opts.stdin(), opts.stdout())
	remote, closeRemote, err := createRemote(cfg, opts, logger, prompter)
	if err != nil {
		return err
	}
	defer func() { _ = closeRemote() }()

	devices, err := remote.Devices(sm.Context())
	if err != nil {
		return handleExecutionError(fmt.Errorf("discovery failed: %w", err))
	}

	out := opts.stdout()
	if len(devices) == 0 {
		printSystemMessage(out, "No devices found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tADDRESS\tNAME\tVIA")
	for i, d := range devices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, d.Address, d.Label, d.Origin)
	}
	return tw.Flush()
}

// RunSend sends one command to the explicit or cached address.
func RunSend(opts RunOptions, token, arg string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := createLogger(opts.Debug, cfg.Log)

	sm := runner.NewSignalManager(context.Background())
	defer sm.Stop()

	var extra []romote.Option
	if opts.Debug {
		extra = append(extra, romote.WithLifecycleHooks(createDebugHooks(logger)))
	}
	prompter := runner.NewTextHandler(opts.stdin(), opts.stdout())
	remote, closeRemote, err := createRemote(cfg, opts, logger, prompter, extra...)
	if err != nil {
		return err
	}
	defer func() { _ = closeRemote() }()

	if err := remote.Send(sm.Context(), token, arg); err != nil {
		return handleExecutionError(err)
	}
	return nil
}

// RunForget clears the cached address.
func RunForget(opts RunOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	cache, closeCache, err := createCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()

	if err := cache.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	printSystemMessage(opts.stdout(), "Forgot the most recent device.")
	return nil
}

// RunGraph prints the connection state machine as a Mermaid diagram.
func RunGraph(opts RunOptions) error {
	_, err := fmt.Fprint(opts.stdout(), graph.GenerateMermaid(connect.Edges(), nil))
	return err
}
