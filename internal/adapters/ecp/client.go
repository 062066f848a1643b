package ecp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// Defaults for the ECP transport.
const (
	DefaultPort         = 8060
	DefaultTimeout      = 3 * time.Second
	DefaultRate         = rate.Limit(10)
	DefaultBurst        = 10
	DefaultMaxFailures  = uint32(3)
	DefaultOpenInterval = 10 * time.Second
	DefaultInfoTTL      = 5 * time.Minute
)

// Client talks the External Control Protocol to devices on the LAN.
// One Client may serve several addresses; each gets its own circuit breaker.
type Client struct {
	http    *http.Client
	port    int
	limiter *rate.Limiter
	logger  *slog.Logger

	maxFailures  uint32
	openInterval time.Duration

	mu       sync.Mutex
	breakers map[domain.Address]*gobreaker.CircuitBreaker[struct{}]

	infoTTL time.Duration
	info    *ttlcache.Cache[domain.Address, DeviceInfo]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithPort overrides the ECP port.
func WithPort(port int) Option {
	return func(c *Client) {
		if port > 0 {
			c.port = port
		}
	}
}

// WithTimeout bounds each HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps keypresses per second.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithBreaker sets how many consecutive transport failures open the
// circuit and how long it stays open.
func WithBreaker(maxFailures uint32, open time.Duration) Option {
	return func(c *Client) {
		if maxFailures > 0 {
			c.maxFailures = maxFailures
		}
		if open > 0 {
			c.openInterval = open
		}
	}
}

// WithInfoTTL sets how long device-info answers are memoized.
func WithInfoTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.infoTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an ECP client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: DefaultTimeout, Transport: newTransport()},
		port:         DefaultPort,
		limiter:      rate.NewLimiter(DefaultRate, DefaultBurst),
		logger:       logging.NewNop(),
		maxFailures:  DefaultMaxFailures,
		openInterval: DefaultOpenInterval,
		breakers:     make(map[domain.Address]*gobreaker.CircuitBreaker[struct{}]),
		infoTTL:      DefaultInfoTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.info = ttlcache.New[domain.Address, DeviceInfo](
		ttlcache.WithTTL[domain.Address, DeviceInfo](c.infoTTL),
	)
	return c
}

// Connect binds a controller to addr. It does no I/O; the caller verifies
// the address with a first Invoke.
func (c *Client) Connect(ctx context.Context, addr domain.Address) (ports.Controller, error) {
	if addr == "" {
		return nil, fmt.Errorf("ecp: %w: empty", domain.ErrMalformedAddress)
	}
	return &Controller{client: c, addr: addr, base: c.baseURL(addr)}, nil
}

func (c *Client) baseURL(addr domain.Address) string {
	return "http://" + net.JoinHostPort(addr.String(), strconv.Itoa(c.port))
}

func (c *Client) breaker(addr domain.Address) *gobreaker.CircuitBreaker[struct{}] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[addr]; ok {
		return cb
	}
	maxFailures := c.maxFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "ecp:" + addr.String(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Timeout:     c.openInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		// Only connectivity failures count against the device.
		IsSuccessful: func(err error) bool {
			return err == nil || !domain.IsTransient(err)
		},
	})
	c.breakers[addr] = cb
	return cb
}

// Controller sends keypresses to one device.
type Controller struct {
	client *Client
	addr   domain.Address
	base   string
}

// Invoke sends cmd. For CommandLiteral every rune of arg becomes one keypress.
func (ctl *Controller) Invoke(ctx context.Context, cmd domain.CommandID, arg string) error {
	if cmd.NeedsArgument() {
		for _, r := range arg {
			if err := ctl.keypress(ctx, "Lit_"+url.QueryEscape(string(r))); err != nil {
				return err
			}
		}
		return nil
	}

	key, ok := Key(cmd)
	if !ok {
		return fmt.Errorf("ecp: no key for command %s", cmd)
	}
	return ctl.keypress(ctx, key)
}

func (ctl *Controller) keypress(ctx context.Context, key string) error {
	if err := ctl.client.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ecp: rate limiter: %w", err)
	}

	_, err := ctl.client.breaker(ctl.addr).Execute(func() (struct{}, error) {
		return struct{}{}, ctl.client.post(ctx, ctl.addr, ctl.base+"/keypress/"+key)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.TransportError{Kind: domain.FailureCircuitOpen, Addr: ctl.addr, Err: err}
	}
	return err
}

func (c *Client) post(ctx context.Context, addr domain.Address, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		// The address is not a usable host name.
		return &domain.TransportError{Kind: domain.FailureNameResolution, Addr: addr, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return classify(ctx, addr, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return &domain.TransportError{
			Kind: domain.FailureRejected,
			Addr: addr,
			Err:  fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// classify maps a round-trip error onto the transport taxonomy.
// Cancellation of the caller's context is returned unchanged.
func classify(ctx context.Context, addr domain.Address, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	kind := domain.FailureUnreachable
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.As(err, &dnsErr):
		kind = domain.FailureNameResolution
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.FailureTimeout
	}
	return &domain.TransportError{Kind: kind, Addr: addr, Err: err}
}

// newTransport dials devices directly. Proxies never apply on the LAN.
func newTransport() *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   DefaultTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
}
