package romote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/connect"
	"github.com/aretw0/romote/pkg/dispatch"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
	"github.com/aretw0/romote/pkg/registry"
)

// MsgGoodbye is printed when the user leaves the remote.
const MsgGoodbye = "Exiting. Goodbye."

// ErrNoAddress is returned by Send when neither an explicit nor a cached address is known.
var ErrNoAddress = errors.New("no device address known")

// Remote is the high-level entry point: find a device, then relay commands to it.
type Remote struct {
	discoverer ports.Discoverer
	connector  ports.Connector
	cache      ports.AddressCache
	prompter   ports.Prompter
	describer  ports.Describer

	registry *registry.Registry
	render   dispatch.TableRenderer
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	initial  domain.Address
	probe    domain.CommandID
}

// Option defines a functional option for configuring the Remote.
type Option func(*Remote)

// WithDiscoverer sets how devices are found on the network.
func WithDiscoverer(d ports.Discoverer) Option {
	return func(r *Remote) {
		r.discoverer = d
	}
}

// WithConnector sets the transport.
func WithConnector(c ports.Connector) Option {
	return func(r *Remote) {
		r.connector = c
	}
}

// WithCache sets where the last working address is remembered.
func WithCache(c ports.AddressCache) Option {
	return func(r *Remote) {
		r.cache = c
	}
}

// WithPrompter sets the interactive surface.
func WithPrompter(p ports.Prompter) Option {
	return func(r *Remote) {
		r.prompter = p
	}
}

// WithDescriber adds device names to the discovery menu.
func WithDescriber(d ports.Describer) Option {
	return func(r *Remote) {
		r.describer = d
	}
}

// WithRegistry replaces the default command table.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Remote) {
		r.registry = reg
	}
}

// WithTableRenderer sets how the command table is drawn.
func WithTableRenderer(render dispatch.TableRenderer) Option {
	return func(r *Remote) {
		r.render = render
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Remote) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Remote) {
		r.hooks = hooks
	}
}

// WithInitialAddress tries addr before the cache and discovery.
func WithInitialAddress(addr domain.Address) Option {
	return func(r *Remote) {
		r.initial = addr
	}
}

// WithProbe sets the command used to verify a device. Invalid commands and
// commands that need an argument are ignored.
func WithProbe(cmd domain.CommandID) Option {
	return func(r *Remote) {
		if cmd.Valid() && !cmd.NeedsArgument() {
			r.probe = cmd
		}
	}
}

// New creates a Remote. Discoverer, connector, cache and prompter are required.
func New(opts ...Option) (*Remote, error) {
	r := &Remote{
		logger: logging.NewNop(),
		probe:  domain.CommandUp,
	}
	for _, opt := range opts {
		opt(r)
	}

	var missing []string
	if r.discoverer == nil {
		missing = append(missing, "discoverer")
	}
	if r.connector == nil {
		missing = append(missing, "connector")
	}
	if r.cache == nil {
		missing = append(missing, "cache")
	}
	if r.prompter == nil {
		missing = append(missing, "prompter")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("romote: missing %s", strings.Join(missing, ", "))
	}

	if r.registry == nil {
		reg, err := registry.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to build command table: %w", err)
		}
		r.registry = reg
	}
	return r, nil
}

// Registry returns the command table in use.
func (r *Remote) Registry() *registry.Registry {
	return r.registry
}

// Establish runs the connection state machine once.
func (r *Remote) Establish(ctx context.Context) (connect.Outcome, error) {
	opts := []connect.Option{
		connect.WithLogger(r.logger),
		connect.WithHooks(r.hooks),
		connect.WithProbe(r.probe),
	}
	if r.describer != nil {
		opts = append(opts, connect.WithDescriber(r.describer))
	}
	if r.initial != "" {
		opts = append(opts, connect.WithInitialAddress(r.initial))
	}
	return connect.New(r.discoverer, r.connector, r.cache, r.prompter, opts...).Establish(ctx)
}

// Run establishes a session and then relays commands until the user quits.
// Quitting at any prompt is not an error.
func (r *Remote) Run(ctx context.Context) error {
	out, err := r.Establish(ctx)
	if err != nil {
		return err
	}
	if out.Kind == connect.OutcomeCancelled {
		return r.goodbye(ctx)
	}

	d, err := dispatch.New(out.Session, r.registry, r.prompter,
		dispatch.WithLogger(r.logger),
		dispatch.WithHooks(r.hooks),
		dispatch.WithTableRenderer(r.render),
	)
	if err != nil {
		return err
	}
	if err := d.Run(ctx); err != nil {
		return err
	}
	return r.goodbye(ctx)
}

func (r *Remote) goodbye(ctx context.Context) error {
	return r.prompter.Output(context.WithoutCancel(ctx), "\n"+MsgGoodbye)
}

// Send delivers a single command to the initial or cached address without
// any prompting.
func (r *Remote) Send(ctx context.Context, token, arg string) error {
	spec, ok := r.registry.Lookup(token)
	if !ok {
		return fmt.Errorf("unknown command %q", token)
	}

	addr := r.initial
	if addr == "" {
		cached, err := r.cache.Load(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrCacheMiss) {
				return ErrNoAddress
			}
			return err
		}
		addr = cached
	}

	ctrl, err := r.connector.Connect(ctx, addr)
	if err != nil {
		return err
	}
	if err := ctrl.Invoke(ctx, spec.Command, arg); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", token, addr, err)
	}
	r.logger.Debug("Command sent", "token", token, "address", addr)
	return nil
}

// Device is one entry of a discovery round.
type Device struct {
	Address domain.Address
	Label   string
	Origin  string
}

// Devices runs one discovery round without prompting.
func (r *Remote) Devices(ctx context.Context) ([]Device, error) {
	handles, err := r.discoverer.Discover(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.Address]struct{}, len(handles))
	devices := make([]Device, 0, len(handles))
	for _, h := range handles {
		addr, err := domain.AddressFromHandle(h)
		if err != nil {
			r.logger.Debug("Skipping device", "location", h.Location, "err", err)
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}

		dev := Device{Address: addr, Origin: h.Origin}
		if r.describer != nil {
			if label, err := r.describer.Describe(ctx, addr); err == nil {
				dev.Label = label
			}
		}
		devices = append(devices, dev)
	}
	return devices, nil
}
