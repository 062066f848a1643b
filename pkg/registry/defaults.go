package registry

import "github.com/aretw0/romote/pkg/domain"

// LiteralToken is the token of the free-text command.
const LiteralToken = "txt"

// DefaultSpecs returns the standard remote layout.
func DefaultSpecs() []Spec {
	return []Spec{
		{Token: "b", Command: domain.CommandBack, Description: "Back"},
		{Token: "<", Command: domain.CommandChannelDown, Description: "Channel down"},
		{Token: ">", Command: domain.CommandChannelUp, Description: "Channel up"},
		{Token: "s", Command: domain.CommandDown, Description: "Down"},
		{Token: "ff", Command: domain.CommandForward, Description: "Forward"},
		{Token: "h", Command: domain.CommandHome, Description: "Home"},
		{Token: "*", Command: domain.CommandInfo, Description: "Info"},
		{Token: "av1", Command: domain.CommandInputAV1, Description: "Source: AV1"},
		{Token: "hdmi1", Command: domain.CommandInputHDMI1, Description: "Source: HDMI1"},
		{Token: "hdmi2", Command: domain.CommandInputHDMI2, Description: "Source: HDMI2"},
		{Token: "hdmi3", Command: domain.CommandInputHDMI3, Description: "Source: HDMI3"},
		{Token: "hdmi4", Command: domain.CommandInputHDMI4, Description: "Source: HDMI4"},
		{Token: "tuner", Command: domain.CommandInputTuner, Description: "Source: Tuner"},
		{Token: "a", Command: domain.CommandLeft, Description: "Left"},
		{Token: LiteralToken, Command: domain.CommandLiteral, Description: "Enter text", RequiresArgument: true},
		{Token: "p", Command: domain.CommandPlay, Description: "Play"},
		{Token: "OFF", Command: domain.CommandPowerOff, Description: "Power Off"},
		{Token: "on", Command: domain.CommandPowerOn, Description: "Power On"},
		{Token: "replay", Command: domain.CommandReplay, Description: "Replay"},
		{Token: "rew", Command: domain.CommandReverse, Description: "Reverse"},
		{Token: "d", Command: domain.CommandRight, Description: "Right"},
		{Token: "search", Command: domain.CommandSearch, Description: "Search"},
		{Token: "k", Command: domain.CommandSelect, Description: "Select"},
		{Token: "w", Command: domain.CommandUp, Description: "Up"},
		{Token: "-", Command: domain.CommandVolumeDown, Description: "Volume -"},
		{Token: "+", Command: domain.CommandVolumeUp, Description: "Volume +"},
		{Token: "m", Command: domain.CommandVolumeMute, Description: "Mute"},
	}
}

// Default builds the registry from DefaultSpecs.
func Default() (*Registry, error) {
	return New(DefaultSpecs()...)
}
