package connect

// Edge is one allowed transition of the connection state machine.
type Edge struct {
	From  State
	To    State
	Label string
}

var edges = []Edge{
	{StateIdle, StateTryCache, "start"},
	{StateIdle, StateVerify, "initial address"},
	{StateTryCache, StateVerify, "cache hit"},
	{StateTryCache, StateDiscover, "cache miss"},
	{StateDiscover, StateChoose, "devices found"},
	{StateDiscover, StateNoDevices, "none found"},
	{StateNoDevices, StateDiscover, "ENTER"},
	{StateNoDevices, StateManual, "m"},
	{StateChoose, StateVerify, "pick"},
	{StateChoose, StateManual, "m"},
	{StateManual, StateDiscover, "a"},
	{StateManual, StateVerify, "address"},
	{StateVerify, StateEstablished, "verified"},
	{StateVerify, StateDiscover, "failed"},
	{StateVerify, StateManual, "failed (typed)"},
}

// Edges lists every transition the Manager can take. Every non-terminal
// state can also move to StateCancelled.
func Edges() []Edge {
	out := make([]Edge, 0, len(edges)+int(StateVerify))
	out = append(out, edges...)
	for s := StateIdle; s <= StateVerify; s++ {
		out = append(out, Edge{s, StateCancelled, "cancel"})
	}
	return out
}

// Allowed reports whether from → to is a transition of the machine.
func Allowed(from, to State) bool {
	if to == StateCancelled {
		return !from.terminal()
	}
	for _, e := range edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}
