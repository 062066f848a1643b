package connect

import "github.com/aretw0/romote/pkg/session"

// State is a step of the connection state machine.
type State int

const (
	StateIdle State = iota
	StateTryCache
	StateDiscover
	StateNoDevices
	StateChoose
	StateManual
	StateVerify
	StateEstablished
	StateCancelled
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateTryCache:    "try_cache",
	StateDiscover:    "discover",
	StateNoDevices:   "no_devices",
	StateChoose:      "choose",
	StateManual:      "manual",
	StateVerify:      "verify",
	StateEstablished: "established",
	StateCancelled:   "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// terminal reports whether the machine stops in s.
func (s State) terminal() bool {
	return s == StateEstablished || s == StateCancelled
}

// OutcomeKind tells how Establish ended.
type OutcomeKind int

const (
	OutcomeCancelled OutcomeKind = iota
	OutcomeEstablished
)

func (k OutcomeKind) String() string {
	if k == OutcomeEstablished {
		return "established"
	}
	return "cancelled"
}

// Outcome is the result of Establish. Session is nil unless Kind is OutcomeEstablished.
type Outcome struct {
	Kind    OutcomeKind
	Session *session.Session
}
