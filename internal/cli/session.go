package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/romote"
	adapterhttp "github.com/aretw0/romote/internal/adapters/http"
	"github.com/aretw0/romote/internal/config"
	"github.com/aretw0/romote/internal/metrics"
	"github.com/aretw0/romote/internal/presentation/tui"
	"github.com/aretw0/romote/pkg/dispatch"
	"github.com/aretw0/romote/pkg/ports"
	"github.com/aretw0/romote/pkg/runner"
)

// RunSession connects to a device and relays commands until the user quits.
func RunSession(opts RunOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := createLogger(opts.Debug, cfg.Log)

	interactive := isTerminal(opts.stdin())
	if interactive {
		tui.PrintBanner(opts.stdout(), romote.Version)
	}

	prompter, closePrompter := createPrompter(cfg, opts, interactive, logger)
	defer closePrompter()

	sm := runner.NewSignalManager(context.Background())
	defer sm.Stop()
	ctx := sm.Context()

	status := &statusTracker{}
	hooks := status.hooks()
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	if cfg.Metrics.Addr != "" {
		collectors := metrics.New()
		hooks = hooks.Merge(collectors.Hooks())
		if err := startStatusServer(ctx, cfg, collectors, status, logger); err != nil {
			return err
		}
	}

	var render dispatch.TableRenderer = dispatch.PlainTable
	if interactive {
		render = tui.NewTableRenderer()
	}

	remote, closeRemote, err := createRemote(cfg, opts, logger, prompter,
		romote.WithLifecycleHooks(hooks),
		romote.WithTableRenderer(render),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRemote(); err != nil {
			logger.Warn("Failed to release cache", "err", err)
		}
	}()

	return finishSession(opts.stdout(), sm, remote.Run(ctx))
}

// signalWatcher is the part of runner.SignalManager a finished session reads.
type signalWatcher interface {
	Context() context.Context
	Signal() os.Signal
	CheckRace()
}

// finishSession reports how the session ended. A failed run gets a short
// grace period so an interrupt that surfaced as EOF is reported as one.
func finishSession(w io.Writer, sm signalWatcher, runErr error) error {
	if runErr != nil {
		sm.CheckRace()
	}
	if err := sm.Context().Err(); err != nil && runErr == nil {
		runErr = err
	}
	logCompletion(w, sm.Signal())

	return handleExecutionError(runErr)
}

// createPrompter picks readline on a terminal and the line handler otherwise.
func createPrompter(cfg config.Config, opts RunOptions, interactive bool, logger *slog.Logger) (ports.Prompter, func()) {
	if interactive {
		rl, err := runner.NewReadlineHandler(cfg.HistoryFile)
		if err == nil {
			return rl, func() { _ = rl.Close() }
		}
		logger.Warn("Falling back to plain input", "err", err)
	}
	return runner.NewTextHandler(opts.stdin(), opts.stdout()), func() {}
}

func startStatusServer(ctx context.Context, cfg config.Config, collectors *metrics.Collectors, status *statusTracker, logger *slog.Logger) error {
	handler := adapterhttp.NewHandler(collectors.Registry, func() adapterhttp.Status {
		state, addr := status.snapshot()
		return adapterhttp.Status{
			App:     "romote",
			Version: romote.Version,
			State:   state,
			Address: string(addr),
		}
	})
	srv := adapterhttp.NewServer(cfg.Metrics.Addr, handler, logger)
	if _, err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start status server: %w", err)
	}
	return nil
}
