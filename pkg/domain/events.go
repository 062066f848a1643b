package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventDiscovery   EventType = "discovery"
	EventVerify      EventType = "verify"
	EventCommand     EventType = "command"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// StateEvent reports a connection state machine transition.
type StateEvent struct {
	EventBase
	From string `json:"from"`
	To   string `json:"to"`
}

// DiscoveryEvent reports the end of a discovery round.
type DiscoveryEvent struct {
	EventBase
	Devices  int           `json:"devices"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// VerifyEvent reports the outcome of a verification round trip.
type VerifyEvent struct {
	EventBase
	Address Address `json:"address"`
	Source  Source  `json:"source"`
	Err     error   `json:"-"`
}

// CommandEvent reports one dispatched command.
type CommandEvent struct {
	EventBase
	Token   string        `json:"token"`
	Command CommandID     `json:"command"`
	Result  string        `json:"result"`
	Latency time.Duration `json:"latency"`
	Err     error         `json:"-"`
}

// LifecycleHooks defines callbacks for observability.
// Every field is optional.
type LifecycleHooks struct {
	OnStateChange func(context.Context, *StateEvent)
	OnDiscovery   func(context.Context, *DiscoveryEvent)
	OnVerify      func(context.Context, *VerifyEvent)
	OnCommand     func(context.Context, *CommandEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStateChange: chain(h.OnStateChange, other.OnStateChange),
		OnDiscovery:   chain(h.OnDiscovery, other.OnDiscovery),
		OnVerify:      chain(h.OnVerify, other.OnVerify),
		OnCommand:     chain(h.OnCommand, other.OnCommand),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
