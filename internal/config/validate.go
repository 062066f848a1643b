package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/romote/internal/logging"
)

// ErrInvalid marks every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	switch c.Cache.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			fail("cache.redis_url is required for the redis backend")
		}
		if c.Cache.RedisTTL < 0 {
			fail("cache.redis_ttl must not be negative")
		}
	default:
		fail("unknown cache backend %q", c.Cache.Backend)
	}

	if len(c.Discovery.Methods) == 0 {
		fail("discovery.methods must name at least one method")
	}
	for _, m := range c.Discovery.Methods {
		if !slices.Contains([]string{MethodSSDP, MethodMDNS}, m) {
			fail("unknown discovery method %q", m)
		}
	}
	if slices.Contains(c.Discovery.Methods, MethodMDNS) && strings.TrimSpace(c.Discovery.MDNSService) == "" {
		fail("discovery.mdns_service is required when mdns is enabled")
	}
	if c.Discovery.Timeout <= 0 {
		fail("discovery.timeout must be positive")
	}

	if c.ECP.Port <= 0 || c.ECP.Port > 65535 {
		fail("ecp.port %d out of range", c.ECP.Port)
	}
	if c.ECP.Timeout <= 0 {
		fail("ecp.timeout must be positive")
	}
	if c.ECP.Rate <= 0 || c.ECP.Burst < 1 {
		fail("ecp.rate and ecp.burst must be positive")
	}
	if c.ECP.BreakerFailures == 0 || c.ECP.BreakerOpen <= 0 {
		fail("ecp.breaker_failures and ecp.breaker_open must be positive")
	}
	if c.ECP.InfoTTL <= 0 {
		fail("ecp.info_ttl must be positive")
	}
	if _, ok := c.ECP.VerifyCommand(); !ok {
		fail("ecp.verify_command %q is not a command that can verify a device", c.ECP.Verify)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		fail("%v", err)
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		fail("unknown log format %q", c.Log.Format)
	}

	return errors.Join(errs...)
}
