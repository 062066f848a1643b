package domain

// CommandID identifies a remote action independently of the token a user
// types for it and of the wire key the transport sends.
type CommandID int

const (
	CommandUnknown CommandID = iota
	CommandBack
	CommandChannelDown
	CommandChannelUp
	CommandDown
	CommandEnter
	CommandForward
	CommandHome
	CommandInfo
	CommandInputAV1
	CommandInputHDMI1
	CommandInputHDMI2
	CommandInputHDMI3
	CommandInputHDMI4
	CommandInputTuner
	CommandLeft
	CommandLiteral
	CommandPlay
	CommandPowerOff
	CommandPowerOn
	CommandReplay
	CommandReverse
	CommandRight
	CommandSearch
	CommandSelect
	CommandUp
	CommandVolumeDown
	CommandVolumeUp
	CommandVolumeMute

	commandSentinel
)

var commandNames = [...]string{
	CommandUnknown:     "unknown",
	CommandBack:        "back",
	CommandChannelDown: "channel_down",
	CommandChannelUp:   "channel_up",
	CommandDown:        "down",
	CommandEnter:       "enter",
	CommandForward:     "forward",
	CommandHome:        "home",
	CommandInfo:        "info",
	CommandInputAV1:    "input_av1",
	CommandInputHDMI1:  "input_hdmi1",
	CommandInputHDMI2:  "input_hdmi2",
	CommandInputHDMI3:  "input_hdmi3",
	CommandInputHDMI4:  "input_hdmi4",
	CommandInputTuner:  "input_tuner",
	CommandLeft:        "left",
	CommandLiteral:     "literal",
	CommandPlay:        "play",
	CommandPowerOff:    "power_off",
	CommandPowerOn:     "power_on",
	CommandReplay:      "replay",
	CommandReverse:     "reverse",
	CommandRight:       "right",
	CommandSearch:      "search",
	CommandSelect:      "select",
	CommandUp:          "up",
	CommandVolumeDown:  "volume_down",
	CommandVolumeUp:    "volume_up",
	CommandVolumeMute:  "volume_mute",
}

// String returns the stable snake_case name used in logs and metrics.
func (c CommandID) String() string {
	if !c.Valid() {
		return commandNames[CommandUnknown]
	}
	return commandNames[c]
}

// Valid reports whether c names a real action.
func (c CommandID) Valid() bool {
	return c > CommandUnknown && c < commandSentinel
}

// NeedsArgument reports whether c carries user text. Such commands send
// nothing for an empty argument.
func (c CommandID) NeedsArgument() bool {
	return c == CommandLiteral
}

// ParseCommand resolves a name produced by String back to its CommandID.
func ParseCommand(name string) (CommandID, bool) {
	for id := CommandUnknown + 1; id < commandSentinel; id++ {
		if commandNames[id] == name {
			return id, true
		}
	}
	return CommandUnknown, false
}
