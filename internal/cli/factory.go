package cli

import (
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/aretw0/romote"
	"github.com/aretw0/romote/internal/adapters"
	"github.com/aretw0/romote/internal/adapters/ecp"
	"github.com/aretw0/romote/internal/adapters/mdns"
	"github.com/aretw0/romote/internal/adapters/memory"
	"github.com/aretw0/romote/internal/adapters/redis"
	"github.com/aretw0/romote/internal/adapters/ssdp"
	"github.com/aretw0/romote/internal/config"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
)

// closer releases adapter resources once a command finishes.
type closer func() error

func nopCloser() error { return nil }

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(opts RunOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.DotEnv)
	if err != nil {
		return config.Config{}, err
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.Addr = opts.MetricsAddr
	}
	if opts.NoCache {
		cfg.Cache.Backend = config.BackendMemory
	}
	return cfg, nil
}

// createCache builds the address cache selected by cfg.
func createCache(cfg config.Config) (ports.AddressCache, closer, error) {
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return memory.New(), nopCloser, nil
	case config.BackendRedis:
		c, err := redis.New(cfg.Cache.RedisURL,
			redis.WithTTL(cfg.Cache.RedisTTL),
			redis.WithPrefix(cfg.Cache.RedisPrefix),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.BackendFile:
		return adapters.NewFileCache(cfg.Cache.Path), nopCloser, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// createDiscoverer chains the configured discovery methods.
func createDiscoverer(cfg config.Config, logger *slog.Logger) (ports.Discoverer, error) {
	children := make([]ports.Discoverer, 0, len(cfg.Discovery.Methods))
	for _, m := range cfg.Discovery.Methods {
		switch m {
		case config.MethodSSDP:
			children = append(children, ssdp.New(cfg.Discovery.Timeout, logger))
		case config.MethodMDNS:
			children = append(children, mdns.New(cfg.Discovery.MDNSService, cfg.Discovery.Timeout, logger))
		default:
			return nil, fmt.Errorf("unknown discovery method %q", m)
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return adapters.NewMultiDiscoverer(logger, children...), nil
}

// createClient builds the ECP transport.
func createClient(cfg config.Config, logger *slog.Logger) *ecp.Client {
	return ecp.NewClient(
		ecp.WithPort(cfg.ECP.Port),
		ecp.WithTimeout(cfg.ECP.Timeout),
		ecp.WithRateLimit(rate.Limit(cfg.ECP.Rate), cfg.ECP.Burst),
		ecp.WithBreaker(cfg.ECP.BreakerFailures, cfg.ECP.BreakerOpen),
		ecp.WithInfoTTL(cfg.ECP.InfoTTL),
		ecp.WithLogger(logger),
	)
}

// createRemote wires every adapter into a Remote. The returned closer must
// be called when the command is done.
func createRemote(cfg config.Config, opts RunOptions, logger *slog.Logger, prompter ports.Prompter, extra ...romote.Option) (*romote.Remote, closer, error) {
	cache, closeCache, err := createCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	discoverer, err := createDiscoverer(cfg, logger)
	if err != nil {
		_ = closeCache()
		return nil, nil, err
	}
	client := createClient(cfg, logger)

	remoteOpts := []romote.Option{
		romote.WithDiscoverer(discoverer),
		romote.WithConnector(client),
		romote.WithDescriber(client),
		romote.WithCache(cache),
		romote.WithPrompter(prompter),
		romote.WithLogger(logger),
	}
	if cmd, ok := cfg.ECP.VerifyCommand(); ok {
		remoteOpts = append(remoteOpts, romote.WithProbe(cmd))
	}
	if opts.Address != "" {
		addr, err := domain.NormalizeAddress(opts.Address)
		if err != nil {
			_ = closeCache()
			return nil, nil, fmt.Errorf("--address: %w", err)
		}
		remoteOpts = append(remoteOpts, romote.WithInitialAddress(addr))
	}
	remoteOpts = append(remoteOpts, extra...)

	r, err := romote.New(remoteOpts...)
	if err != nil {
		_ = closeCache()
		return nil, nil, err
	}
	return r, closeCache, nil
}
