package connect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
	"github.com/aretw0/romote/pkg/session"
)

// Manager drives a device from "unknown" to a verified Session.
type Manager struct {
	discoverer ports.Discoverer
	connector  ports.Connector
	cache      ports.AddressCache
	prompter   ports.Prompter
	describer  ports.Describer

	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	probe   domain.CommandID
	initial domain.Address

	// persisted is set once the cache has been written; a Manager writes at most once.
	persisted bool
}

// run is the mutable state of one Establish call.
type run struct {
	state     State
	candidate domain.Address
	source    domain.Source
	devices   []domain.Address
	session   *session.Session
}

// New creates a Manager. All four collaborators are required.
func New(discoverer ports.Discoverer, connector ports.Connector, cache ports.AddressCache, prompter ports.Prompter, opts ...Option) *Manager {
	m := &Manager{
		discoverer: discoverer,
		connector:  connector,
		cache:      cache,
		prompter:   prompter,
		logger:     defaultLogger(),
		probe:      domain.CommandUp,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Establish runs the state machine until a session is verified or the user
// cancels. The error is non-nil only for conditions the user cannot fix from
// the prompt, such as a corrupt cache record or a broken terminal.
func (m *Manager) Establish(ctx context.Context) (Outcome, error) {
	r := &run{state: StateIdle}

	first := StateTryCache
	if m.initial != "" {
		r.candidate, r.source = m.initial, domain.SourceManual
		first = StateVerify
	}
	m.transition(ctx, r, first)

	for !r.state.terminal() {
		next, err := m.step(ctx, r)
		if err != nil {
			if !isCancellation(ctx, err) {
				return Outcome{}, err
			}
			next = StateCancelled
		}
		m.transition(ctx, r, next)
	}

	if r.state == StateCancelled {
		return Outcome{Kind: OutcomeCancelled}, nil
	}
	return Outcome{Kind: OutcomeEstablished, Session: r.session}, nil
}

func (m *Manager) step(ctx context.Context, r *run) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateCancelled, err
	}
	switch r.state {
	case StateTryCache:
		return m.tryCache(ctx, r)
	case StateDiscover:
		return m.discover(ctx, r)
	case StateNoDevices:
		return m.noDevices(ctx)
	case StateChoose:
		return m.choose(ctx, r)
	case StateManual:
		return m.manual(ctx, r)
	case StateVerify:
		return m.verify(ctx, r)
	}
	return StateCancelled, fmt.Errorf("connect: unexpected state %s", r.state)
}

func (m *Manager) transition(ctx context.Context, r *run, to State) {
	from := r.state
	r.state = to
	if from == to {
		return
	}
	if !Allowed(from, to) {
		m.logger.Warn("Unexpected connection transition", "from", from, "to", to)
	}
	m.logger.Debug("Connection state", "from", from, "to", to)
	if m.hooks.OnStateChange != nil {
		m.hooks.OnStateChange(ctx, &domain.StateEvent{
			EventBase: domain.NewEventBase(domain.EventStateChange),
			From:      from.String(),
			To:        to.String(),
		})
	}
}

func (m *Manager) tryCache(ctx context.Context, r *run) (State, error) {
	addr, err := m.cache.Load(ctx)
	switch {
	case err == nil:
		r.candidate, r.source = addr, domain.SourceCache
		return StateVerify, nil
	case errors.Is(err, domain.ErrCacheMiss):
		return StateDiscover, nil
	case errors.Is(err, domain.ErrMalformedCache):
		return StateCancelled, fmt.Errorf("failed to load cached address: %w", err)
	case ctx.Err() != nil:
		return StateCancelled, ctx.Err()
	}
	m.logger.Warn("Cache unavailable, falling back to discovery", "err", err)
	return StateDiscover, nil
}

func (m *Manager) discover(ctx context.Context, r *run) (State, error) {
	r.devices = nil
	start := time.Now()
	handles, err := m.discoverer.Discover(ctx)
	if ctx.Err() != nil {
		return StateCancelled, ctx.Err()
	}

	var addrs []domain.Address
	if err == nil {
		addrs = m.collect(handles)
	}
	if m.hooks.OnDiscovery != nil {
		m.hooks.OnDiscovery(ctx, &domain.DiscoveryEvent{
			EventBase: domain.NewEventBase(domain.EventDiscovery),
			Devices:   len(addrs),
			Duration:  time.Since(start),
			Err:       err,
		})
	}

	if err != nil {
		m.logger.Warn("Discovery failed", "err", err)
		if oerr := m.prompter.Output(ctx, fmt.Sprintf(MsgDiscoveryFailed, err)); oerr != nil {
			return StateCancelled, oerr
		}
	}
	if len(addrs) == 0 {
		if oerr := m.prompter.Output(ctx, MsgNoDevices); oerr != nil {
			return StateCancelled, oerr
		}
		return StateNoDevices, nil
	}

	r.devices = addrs
	for i, addr := range addrs {
		line := fmt.Sprintf("[%d]: <%s>", i+1, addr)
		if label := m.label(ctx, addr); label != "" {
			line += " " + label
		}
		if err := m.prompter.Output(ctx, line); err != nil {
			return StateCancelled, err
		}
	}
	return StateChoose, nil
}

// collect converts handles to addresses, skipping malformed ones and
// collapsing duplicates while keeping discovery order.
func (m *Manager) collect(handles []domain.DeviceHandle) []domain.Address {
	seen := make(map[domain.Address]struct{}, len(handles))
	addrs := make([]domain.Address, 0, len(handles))
	for _, h := range handles {
		addr, err := domain.AddressFromHandle(h)
		if err != nil {
			m.logger.Debug("Skipping device", "location", h.Location, "err", err)
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		addrs = append(addrs, addr)
	}
	return addrs
}

func (m *Manager) label(ctx context.Context, addr domain.Address) string {
	if m.describer == nil {
		return ""
	}
	name, err := m.describer.Describe(ctx, addr)
	if err != nil {
		m.logger.Debug("Describe failed", "address", addr, "err", err)
		return ""
	}
	return name
}

func (m *Manager) noDevices(ctx context.Context) (State, error) {
	choice, err := m.prompter.Input(ctx, PromptNoDevices)
	if err != nil {
		return StateCancelled, err
	}
	switch strings.TrimSpace(choice) {
	case "":
		return StateDiscover, nil
	case "m", "M":
		return StateManual, nil
	}
	return StateNoDevices, m.prompter.Output(ctx, MsgInvalidOption)
}

func (m *Manager) choose(ctx context.Context, r *run) (State, error) {
	choice, err := m.prompter.Input(ctx, PromptChoose)
	if err != nil {
		return StateCancelled, err
	}
	choice = strings.TrimSpace(choice)
	if choice == "m" || choice == "M" {
		return StateManual, nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(r.devices) {
		return StateChoose, m.prompter.Output(ctx, MsgInvalidOption)
	}
	r.candidate, r.source = r.devices[n-1], domain.SourceDiscovery
	return StateVerify, nil
}

func (m *Manager) manual(ctx context.Context, r *run) (State, error) {
	text, err := m.prompter.Input(ctx, PromptManual)
	if err != nil {
		return StateCancelled, err
	}
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return StateManual, nil
	case text == "a" || text == "A" || strings.EqualFold(text, "autodiscover"):
		return StateDiscover, nil
	}
	addr, err := domain.NormalizeAddress(text)
	if err != nil {
		// Anything else is still an attempt; the device decides.
		m.logger.Debug("Trying manual address as typed", "input", text, "err", err)
		addr = domain.Address(text)
	}
	r.candidate, r.source = addr, domain.SourceManual
	return StateVerify, nil
}

func (m *Manager) verify(ctx context.Context, r *run) (State, error) {
	addr, source := r.candidate, r.source
	r.candidate = ""

	ctrl, err := m.connector.Connect(ctx, addr)
	if err == nil {
		err = ctrl.Invoke(ctx, m.probe, "")
	}
	if m.hooks.OnVerify != nil {
		m.hooks.OnVerify(ctx, &domain.VerifyEvent{
			EventBase: domain.NewEventBase(domain.EventVerify),
			Address:   addr,
			Source:    source,
			Err:       err,
		})
	}

	if err != nil {
		if ctx.Err() != nil {
			return StateCancelled, ctx.Err()
		}
		if !domain.IsTransient(err) && !errors.Is(err, domain.ErrRejected) {
			return StateCancelled, fmt.Errorf("failed to verify %s: %w", addr, err)
		}
		m.logger.Info("Verification failed", "address", addr, "source", source, "err", err)
		if oerr := m.prompter.Output(ctx, MsgVerifyFailed); oerr != nil {
			return StateCancelled, oerr
		}
		if source == domain.SourceManual {
			return StateManual, nil
		}
		return StateDiscover, nil
	}

	sess, err := session.New(addr, source, ctrl)
	if err != nil {
		return StateCancelled, err
	}
	if ctx.Err() != nil {
		return StateCancelled, ctx.Err()
	}

	if source != domain.SourceCache && !m.persisted {
		m.persisted = true
		m.remember(ctx, addr)
	}

	m.logger.Info("Connected", "address", addr, "source", source)
	if err := m.prompter.Output(ctx, MsgConnected); err != nil {
		return StateCancelled, err
	}
	r.session = sess
	return StateEstablished, nil
}

// remember saves addr unless it would not load back from the cache.
func (m *Manager) remember(ctx context.Context, addr domain.Address) {
	if _, err := domain.NormalizeAddress(addr.String()); err != nil {
		m.logger.Warn("Not remembering device address", "address", addr, "err", err)
		return
	}
	if err := m.cache.Save(ctx, addr); err != nil {
		m.logger.Warn("Failed to remember device address", "address", addr, "err", err)
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return errors.Is(err, domain.ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		ctx.Err() != nil
}
