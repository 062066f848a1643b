package connect

import (
	"log/slog"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHooks registers lifecycle observers.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithDescriber labels discovered devices in the choice menu.
func WithDescriber(d ports.Describer) Option {
	return func(m *Manager) {
		m.describer = d
	}
}

// WithProbe overrides the command sent to verify a candidate address.
// Commands that need an argument are ignored: with an empty argument they
// would not reach the device.
func WithProbe(cmd domain.CommandID) Option {
	return func(m *Manager) {
		if cmd.Valid() && !cmd.NeedsArgument() {
			m.probe = cmd
		}
	}
}

// WithInitialAddress skips the cache and discovery and verifies addr first,
// as if the user had typed it at the manual prompt.
func WithInitialAddress(addr domain.Address) Option {
	return func(m *Manager) {
		m.initial = addr
	}
}

func defaultLogger() *slog.Logger {
	return logging.NewNop()
}
