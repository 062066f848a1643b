package cli

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/romote"
	"github.com/aretw0/romote/internal/adapters"
	"github.com/aretw0/romote/internal/adapters/memory"
	"github.com/aretw0/romote/internal/adapters/redis"
	"github.com/aretw0/romote/internal/adapters/ssdp"
	"github.com/aretw0/romote/internal/config"
	"github.com/aretw0/romote/pkg/domain"
)

// fakeDevice is an ECP endpoint that records keypresses.
type fakeDevice struct {
	mu   sync.Mutex
	keys []string
	srv  *httptest.Server
}

func newFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()
	d := &fakeDevice{}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.keys = append(d.keys, strings.TrimPrefix(r.URL.Path, "/keypress/"))
		d.mu.Unlock()
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDevice) port(t *testing.T) string {
	_, port, err := net.SplitHostPort(d.srv.Listener.Addr().String())
	require.NoError(t, err)
	return port
}

func (d *fakeDevice) pressed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.keys...)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCreateCache(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.BackendMemory
		c, closeFn, err := createCache(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &memory.Cache{}, c)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Path = filepath.Join(t.TempDir(), "recent.toml")
		c, closeFn, err := createCache(cfg)
		require.NoError(t, err)
		defer closeFn()
		require.IsType(t, &adapters.FileCache{}, c)
		assert.Equal(t, cfg.Cache.Path, c.(*adapters.FileCache).Path)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Cache.Backend = config.BackendRedis
		cfg.Cache.RedisURL = "redis://" + mr.Addr()
		c, closeFn, err := createCache(cfg)
		require.NoError(t, err)
		defer closeFn()
		require.IsType(t, &redis.Cache{}, c)

		require.NoError(t, c.Save(context.Background(), "192.168.1.134"))
		got, err := mr.Get("romote:recent_ip")
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.134", got)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = "s3"
		_, _, err := createCache(cfg)
		assert.Error(t, err)
	})
}

func TestCreateDiscoverer(t *testing.T) {
	cfg := config.Default()
	d, err := createDiscoverer(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &ssdp.Discoverer{}, d)

	cfg.Discovery.Methods = []string{config.MethodSSDP, config.MethodMDNS}
	cfg.Discovery.MDNSService = "_roku._tcp"
	d, err = createDiscoverer(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &adapters.MultiDiscoverer{}, d)

	cfg.Discovery.Methods = []string{"upnp"}
	_, err = createDiscoverer(cfg, nil)
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	path := writeConfig(t, "cache:\n  backend: file\n")
	cfg, err := loadConfig(RunOptions{ConfigPath: path, NoCache: true, MetricsAddr: ":9108"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, ":9108", cfg.Metrics.Addr)
}

func TestCreateRemote_RejectsBadAddress(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendMemory
	_, _, err := createRemote(cfg, RunOptions{Address: "not an address"}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrMalformedAddress)
}

func TestRunSession_ExplicitAddress(t *testing.T) {
	dev := newFakeDevice(t)
	path := writeConfig(t, fmt.Sprintf("ecp:\n  port: %s\n", dev.port(t)))

	var out bytes.Buffer
	err := RunSession(RunOptions{
		ConfigPath: path,
		Address:    "127.0.0.1",
		NoCache:    true,
		Stdin:      strings.NewReader("h\n\n"),
		Stdout:     &out,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Up", "Home", "Home"}, dev.pressed())
	assert.Contains(t, out.String(), "Most recent command: [h]")
	assert.Contains(t, out.String(), romote.MsgGoodbye)
}

func TestRunSend(t *testing.T) {
	dev := newFakeDevice(t)
	path := writeConfig(t, fmt.Sprintf("ecp:\n  port: %s\n", dev.port(t)))

	err := RunSend(RunOptions{ConfigPath: path, Address: "127.0.0.1", NoCache: true}, "txt", "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lit_h", "Lit_i"}, dev.pressed())

	err = RunSend(RunOptions{ConfigPath: path, NoCache: true}, "h", "")
	assert.ErrorIs(t, err, romote.ErrNoAddress)
}

func TestRunForget(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "recent.toml")
	path := writeConfig(t, fmt.Sprintf("cache:\n  path: %q\n", cachePath))

	ctx := context.Background()
	fc := adapters.NewFileCache(cachePath)
	require.NoError(t, fc.Save(ctx, "192.168.1.134"))

	var out bytes.Buffer
	require.NoError(t, RunForget(RunOptions{ConfigPath: path, Stdout: &out}))
	assert.Contains(t, out.String(), ">>> Forgot")

	_, err := fc.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRunGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunGraph(RunOptions{Stdout: &out}))
	assert.True(t, strings.HasPrefix(out.String(), "stateDiagram-v2"))
	assert.Contains(t, out.String(), "verify")
}

// raceWatcher delivers its signal only once CheckRace is called.
type raceWatcher struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sig     os.Signal
	pending os.Signal
	checked int
}

func newRaceWatcher(pending os.Signal) *raceWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &raceWatcher{ctx: ctx, cancel: cancel, pending: pending}
}

func (w *raceWatcher) Context() context.Context { return w.ctx }
func (w *raceWatcher) Signal() os.Signal        { return w.sig }

func (w *raceWatcher) CheckRace() {
	w.checked++
	if w.pending != nil {
		w.sig = w.pending
		w.cancel()
	}
}

func TestFinishSession_LateInterrupt(t *testing.T) {
	w := newRaceWatcher(os.Interrupt)
	defer w.cancel()

	var out bytes.Buffer
	err := finishSession(&out, w, fmt.Errorf("prompt: %w", domain.ErrCancelled))
	require.NoError(t, err)
	assert.Equal(t, 1, w.checked)
	assert.Equal(t, "[CTRL+C]\n", out.String())
}

func TestFinishSession_CleanExit(t *testing.T) {
	w := newRaceWatcher(os.Interrupt)
	defer w.cancel()

	var out bytes.Buffer
	require.NoError(t, finishSession(&out, w, nil))
	assert.Zero(t, w.checked)
	assert.Empty(t, out.String())
}

func TestFinishSession_FailureWithoutSignal(t *testing.T) {
	w := newRaceWatcher(nil)
	defer w.cancel()

	var out bytes.Buffer
	err := finishSession(&out, w, domain.ErrMalformedCache)
	assert.ErrorIs(t, err, domain.ErrMalformedCache)
	assert.Equal(t, 1, w.checked)
	assert.Empty(t, out.String())
}

func TestRunSession_ConfiguredVerifyCommand(t *testing.T) {
	dev := newFakeDevice(t)
	path := writeConfig(t, fmt.Sprintf("ecp:\n  port: %s\n  verify_command: home\n", dev.port(t)))

	var out bytes.Buffer
	err := RunSession(RunOptions{
		ConfigPath: path,
		Address:    "127.0.0.1",
		NoCache:    true,
		Stdin:      strings.NewReader("h\n"),
		Stdout:     &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Home"}, dev.pressed())
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(fmt.Errorf("prompt: %w", domain.ErrCancelled)))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.Error(t, handleExecutionError(domain.ErrMalformedCache))
}

func TestStatusTracker(t *testing.T) {
	s := &statusTracker{}
	h := s.hooks()
	ctx := context.Background()

	h.OnStateChange(ctx, &domain.StateEvent{From: "idle", To: "verify"})
	h.OnVerify(ctx, &domain.VerifyEvent{Address: "10.0.0.9", Err: domain.ErrRejected})
	h.OnVerify(ctx, &domain.VerifyEvent{Address: "10.0.0.7"})

	state, addr := s.snapshot()
	assert.Equal(t, "verify", state)
	assert.Equal(t, domain.Address("10.0.0.7"), addr)
}
