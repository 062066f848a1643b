package connect_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// scriptedPrompter replays inputs in order and reports cancellation once
// the script runs out.
type scriptedPrompter struct {
	inputs  []string
	prompts []string
	outputs []string
}

func (p *scriptedPrompter) Output(_ context.Context, msg string) error {
	p.outputs = append(p.outputs, msg)
	return nil
}

func (p *scriptedPrompter) Input(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.inputs) == 0 {
		return "", domain.ErrCancelled
	}
	next := p.inputs[0]
	p.inputs = p.inputs[1:]
	return next, nil
}

func (p *scriptedPrompter) count(msg string) int {
	n := 0
	for _, o := range p.outputs {
		if o == msg {
			n++
		}
	}
	return n
}

type fakeDiscoverer struct {
	rounds [][]domain.DeviceHandle
	err    error
	calls  int
}

func (d *fakeDiscoverer) Discover(context.Context) ([]domain.DeviceHandle, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if len(d.rounds) == 0 {
		return nil, nil
	}
	i := d.calls - 1
	if i >= len(d.rounds) {
		i = len(d.rounds) - 1
	}
	return d.rounds[i], nil
}

func handle(location string) domain.DeviceHandle {
	return domain.DeviceHandle{Location: location, Origin: "test"}
}

// fakeConnector verifies addresses according to a per-address error table.
type fakeConnector struct {
	mu       sync.Mutex
	failures map[domain.Address]error
	probes   []domain.Address
	probeCmd []domain.CommandID
}

func (c *fakeConnector) Connect(_ context.Context, addr domain.Address) (ports.Controller, error) {
	return &fakeController{addr: addr, parent: c}, nil
}

type fakeController struct {
	addr   domain.Address
	parent *fakeConnector
}

// Invoke mirrors ECP: a text command with no text sends nothing and
// therefore cannot fail.
func (f *fakeController) Invoke(ctx context.Context, cmd domain.CommandID, arg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	f.parent.probes = append(f.parent.probes, f.addr)
	f.parent.probeCmd = append(f.parent.probeCmd, cmd)
	if cmd.NeedsArgument() && arg == "" {
		return nil
	}
	return f.parent.failures[f.addr]
}

func unresolvable(addr domain.Address) error {
	return &domain.TransportError{Kind: domain.FailureNameResolution, Addr: addr, Err: errors.New("invalid host")}
}

func unreachable(addr domain.Address) error {
	return &domain.TransportError{Kind: domain.FailureUnreachable, Addr: addr, Err: errors.New("connection refused")}
}

type fakeCache struct {
	addr    domain.Address
	loadErr error
	saveErr error
	saves   []domain.Address
}

func (c *fakeCache) Load(context.Context) (domain.Address, error) {
	if c.loadErr != nil {
		return "", c.loadErr
	}
	if c.addr == "" {
		return "", domain.ErrCacheMiss
	}
	return c.addr, nil
}

func (c *fakeCache) Save(_ context.Context, addr domain.Address) error {
	c.saves = append(c.saves, addr)
	if c.saveErr != nil {
		return c.saveErr
	}
	c.addr = addr
	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.addr = ""
	return nil
}

type fakeDescriber map[domain.Address]string

func (d fakeDescriber) Describe(_ context.Context, addr domain.Address) (string, error) {
	if name, ok := d[addr]; ok {
		return name, nil
	}
	return "", errors.New("no device info")
}
