package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/romote/internal/config"
	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout prompt UI).
func createLogger(debug bool, cfg config.LogConfig) *slog.Logger {
	if !debug {
		return logging.NewNop()
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelDebug
	}
	return logging.New(level, cfg.Format)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
			logger.Debug("State Change", "from", e.From, "to", e.To)
		},
		OnDiscovery: func(ctx context.Context, e *domain.DiscoveryEvent) {
			if e.Err != nil {
				logger.Debug("Discovery (Error)", "duration", e.Duration, "err", e.Err)
			} else {
				logger.Debug("Discovery", "devices", e.Devices, "duration", e.Duration)
			}
		},
		OnVerify: func(ctx context.Context, e *domain.VerifyEvent) {
			if e.Err != nil {
				logger.Debug("Verify (Error)", "address", e.Address, "source", e.Source, "err", e.Err)
			} else {
				logger.Debug("Verify (Success)", "address", e.Address, "source", e.Source)
			}
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.Debug("Command", "token", e.Token, "command", e.Command, "result", e.Result, "latency", e.Latency)
		},
	}
}

// statusTracker remembers the latest state and verified address for /info.
type statusTracker struct {
	mu      sync.Mutex
	state   string
	address domain.Address
}

func (s *statusTracker) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
			s.mu.Lock()
			s.state = e.To
			s.mu.Unlock()
		},
		OnVerify: func(ctx context.Context, e *domain.VerifyEvent) {
			if e.Err != nil {
				return
			}
			s.mu.Lock()
			s.address = e.Address
			s.mu.Unlock()
		},
	}
}

func (s *statusTracker) snapshot() (string, domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.address
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, domain.ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}

// logCompletion echoes how a session ended when a signal was involved.
func logCompletion(w io.Writer, sig os.Signal) {
	switch {
	case sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
	case sig != nil:
		fmt.Fprintf(w, "\n")
		printSystemMessage(w, "Terminated by %s.", sig)
	}
}
