// Package metrics exposes remote activity as Prometheus collectors fed by
// lifecycle hooks.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/romote/pkg/domain"
)

// Collectors groups every romote metric behind its own registry.
type Collectors struct {
	Registry *prometheus.Registry

	commands      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	verifications *prometheus.CounterVec
	discovered    prometheus.Gauge
	state         *prometheus.GaugeVec
}

// New creates and registers the collectors, plus the Go runtime and
// process collectors.
func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "romote_commands_total",
				Help: "Commands sent to the device, by command and result.",
			},
			[]string{"command", "result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "romote_command_duration_seconds",
				Help:    "Round trip time of dispatched commands.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "romote_verifications_total",
				Help: "Address verification attempts, by candidate source and result.",
			},
			[]string{"source", "result"},
		),
		discovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "romote_discovered_devices",
			Help: "Devices found by the last discovery round.",
		}),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "romote_connection_state",
				Help: "1 for the current connection state, absent otherwise.",
			},
			[]string{"state"},
		),
	}

	c.Registry.MustRegister(
		c.commands,
		c.latency,
		c.verifications,
		c.discovered,
		c.state,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Hooks returns lifecycle hooks that record into c.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
			c.state.Reset()
			c.state.WithLabelValues(e.To).Set(1)
		},
		OnDiscovery: func(ctx context.Context, e *domain.DiscoveryEvent) {
			if e.Err == nil {
				c.discovered.Set(float64(e.Devices))
			}
		},
		OnVerify: func(ctx context.Context, e *domain.VerifyEvent) {
			c.verifications.WithLabelValues(string(e.Source), outcome(e.Err)).Inc()
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			name := e.Command.String()
			c.commands.WithLabelValues(name, e.Result).Inc()
			c.latency.WithLabelValues(name).Observe(e.Latency.Seconds())
		},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsTransient(err):
		return "transient_failure"
	case errors.Is(err, domain.ErrRejected):
		return "rejected"
	}
	return "error"
}
