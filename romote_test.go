package romote_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/romote"
	"github.com/aretw0/romote/internal/adapters/memory"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
	"github.com/aretw0/romote/pkg/runner"
)

type countingDiscoverer struct {
	handles []domain.DeviceHandle
	calls   int
}

func (d *countingDiscoverer) Discover(context.Context) ([]domain.DeviceHandle, error) {
	d.calls++
	return d.handles, nil
}

// device accepts every command for the addresses in up. Like ECP, a text
// command without text sends nothing.
type device struct {
	up   map[domain.Address]bool
	sent []domain.CommandID
}

func (d *device) Connect(_ context.Context, addr domain.Address) (ports.Controller, error) {
	return controllerFunc(func(_ context.Context, cmd domain.CommandID, arg string) error {
		if cmd.NeedsArgument() && arg == "" {
			return nil
		}
		if !d.up[addr] {
			return &domain.TransportError{Kind: domain.FailureUnreachable, Addr: addr}
		}
		d.sent = append(d.sent, cmd)
		return nil
	}), nil
}

type controllerFunc func(context.Context, domain.CommandID, string) error

func (f controllerFunc) Invoke(ctx context.Context, cmd domain.CommandID, arg string) error {
	return f(ctx, cmd, arg)
}

func newRemote(t *testing.T, disc ports.Discoverer, dev *device, cache ports.AddressCache, input string, out *bytes.Buffer, opts ...romote.Option) *romote.Remote {
	t.Helper()
	opts = append([]romote.Option{
		romote.WithDiscoverer(disc),
		romote.WithConnector(dev),
		romote.WithCache(cache),
		romote.WithPrompter(runner.NewTextHandler(strings.NewReader(input), out)),
	}, opts...)
	r, err := romote.New(opts...)
	require.NoError(t, err)
	return r
}

func TestRun_TwoRuns(t *testing.T) {
	disc := &countingDiscoverer{handles: []domain.DeviceHandle{
		{Location: "http://192.168.1.134:8060/"},
		{Location: "http://192.168.1.135:8060/"},
	}}
	dev := &device{up: map[domain.Address]bool{"192.168.1.134": true, "192.168.1.135": true}}
	cache := memory.New()

	// First run: empty cache, pick the second device, send Home.
	out := &bytes.Buffer{}
	require.NoError(t, newRemote(t, disc, dev, cache, "2\nh\n", out).Run(context.Background()))

	assert.Equal(t, 1, disc.calls)
	saved, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Address("192.168.1.135"), saved)
	assert.Contains(t, out.String(), "Successfully connected to Roku device!")
	assert.True(t, strings.HasSuffix(out.String(), "Exiting. Goodbye.\n"))

	// Second run: the cached device answers, discovery is never invoked.
	out.Reset()
	require.NoError(t, newRemote(t, disc, dev, cache, "\n", out).Run(context.Background()))

	assert.Equal(t, 1, disc.calls, "second run must not discover")
	assert.NotContains(t, out.String(), "[1]:")
}

func TestRun_IgnoresTextVerifyCommand(t *testing.T) {
	disc := &countingDiscoverer{handles: []domain.DeviceHandle{{Location: "http://192.168.1.135:8060/"}}}
	dev := &device{up: map[domain.Address]bool{}}
	cache := memory.New()

	out := &bytes.Buffer{}
	err := newRemote(t, disc, dev, cache, "1\n", out, romote.WithProbe(domain.CommandLiteral)).Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "Successfully connected to Roku device!")
	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCacheMiss, "an unreachable device must not be remembered")
}

func TestRun_CancelBeforeSession(t *testing.T) {
	disc := &countingDiscoverer{}
	out := &bytes.Buffer{}

	err := newRemote(t, disc, &device{}, memory.New(), "", out).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No nearby Roku devices were autodiscovered.")
	assert.Contains(t, out.String(), romote.MsgGoodbye)
}

func TestRun_FatalErrorSkipsGoodbye(t *testing.T) {
	cache := &brokenCache{}
	out := &bytes.Buffer{}

	err := newRemote(t, &countingDiscoverer{}, &device{}, cache, "", out).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedCache)
	assert.NotContains(t, out.String(), romote.MsgGoodbye)
}

type brokenCache struct{}

func (brokenCache) Load(context.Context) (domain.Address, error) {
	return "", domain.ErrMalformedCache
}
func (brokenCache) Save(context.Context, domain.Address) error { return nil }
func (brokenCache) Clear(context.Context) error                { return nil }

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := romote.New(romote.WithCache(memory.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discoverer")
	assert.Contains(t, err.Error(), "prompter")
	assert.NotContains(t, err.Error(), "cache")
}

func TestSend(t *testing.T) {
	dev := &device{up: map[domain.Address]bool{"10.0.0.5": true}}
	cache := memory.New()
	r := newRemote(t, &countingDiscoverer{}, dev, cache, "", &bytes.Buffer{})

	assert.ErrorIs(t, r.Send(context.Background(), "h", ""), romote.ErrNoAddress)

	require.NoError(t, cache.Save(context.Background(), "10.0.0.5"))
	require.NoError(t, r.Send(context.Background(), "h", ""))
	assert.Equal(t, []domain.CommandID{domain.CommandHome}, dev.sent)

	err := r.Send(context.Background(), "nope", "")
	assert.Error(t, err)

	r = newRemote(t, &countingDiscoverer{}, dev, cache, "", &bytes.Buffer{}, romote.WithInitialAddress("10.0.0.6"))
	err = r.Send(context.Background(), "h", "")
	assert.True(t, domain.IsTransient(err))
}

type labeller map[domain.Address]string

func (l labeller) Describe(_ context.Context, addr domain.Address) (string, error) {
	if s, ok := l[addr]; ok {
		return s, nil
	}
	return "", errors.New("unknown")
}

func TestDevices(t *testing.T) {
	disc := &countingDiscoverer{handles: []domain.DeviceHandle{
		{Location: "http://192.168.1.134:8060/", Origin: "ssdp"},
		{Location: "garbage"},
		{Location: "http://192.168.1.134:8060/", Origin: "mdns"},
		{Location: "http://192.168.1.135:8060/", Origin: "mdns"},
	}}
	r := newRemote(t, disc, &device{}, memory.New(), "", &bytes.Buffer{},
		romote.WithDescriber(labeller{"192.168.1.134": "Den"}))

	got, err := r.Devices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []romote.Device{
		{Address: "192.168.1.134", Label: "Den", Origin: "ssdp"},
		{Address: "192.168.1.135", Origin: "mdns"},
	}, got)
}
