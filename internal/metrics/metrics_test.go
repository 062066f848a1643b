package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/romote/pkg/domain"
)

func TestHooks_Commands(t *testing.T) {
	c := New()
	hooks := c.Hooks()
	ctx := context.Background()

	for range 2 {
		hooks.OnCommand(ctx, &domain.CommandEvent{Command: domain.CommandHome, Result: "ok", Latency: 20 * time.Millisecond})
	}
	hooks.OnCommand(ctx, &domain.CommandEvent{Command: domain.CommandHome, Result: "transient_failure"})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.commands.WithLabelValues("home", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commands.WithLabelValues("home", "transient_failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.latency))
}

func TestHooks_Verifications(t *testing.T) {
	c := New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnVerify(ctx, &domain.VerifyEvent{Source: domain.SourceCache})
	hooks.OnVerify(ctx, &domain.VerifyEvent{
		Source: domain.SourceDiscovery,
		Err:    &domain.TransportError{Kind: domain.FailureTimeout, Addr: "10.0.0.2", Err: errors.New("slow")},
	})
	hooks.OnVerify(ctx, &domain.VerifyEvent{
		Source: domain.SourceManual,
		Err:    &domain.TransportError{Kind: domain.FailureRejected, Addr: "10.0.0.3", Err: errors.New("403")},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues("cache", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues("discovery", "transient_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues("manual", "rejected")))
}

func TestHooks_DiscoveryKeepsLastSuccessfulCount(t *testing.T) {
	c := New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnDiscovery(ctx, &domain.DiscoveryEvent{Devices: 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(c.discovered))

	hooks.OnDiscovery(ctx, &domain.DiscoveryEvent{Err: errors.New("no route")})
	assert.Equal(t, 3.0, testutil.ToFloat64(c.discovered))
}

func TestHooks_StateIsExclusive(t *testing.T) {
	c := New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnStateChange(ctx, &domain.StateEvent{From: "idle", To: "try_cache"})
	hooks.OnStateChange(ctx, &domain.StateEvent{From: "try_cache", To: "verify"})

	require.Equal(t, 1, testutil.CollectAndCount(c.state))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.state.WithLabelValues("verify")))
}

func TestNew_RegistryGathers(t *testing.T) {
	c := New()
	families, err := c.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
