package ecp

import "github.com/aretw0/romote/pkg/domain"

// keys maps commands to ECP keypress names. CommandLiteral is sent as
// one Lit_ keypress per rune and has no entry here.
var keys = map[domain.CommandID]string{
	domain.CommandBack:        "Back",
	domain.CommandChannelDown: "ChannelDown",
	domain.CommandChannelUp:   "ChannelUp",
	domain.CommandDown:        "Down",
	domain.CommandEnter:       "Enter",
	domain.CommandForward:     "Fwd",
	domain.CommandHome:        "Home",
	domain.CommandInfo:        "Info",
	domain.CommandInputAV1:    "InputAV1",
	domain.CommandInputHDMI1:  "InputHDMI1",
	domain.CommandInputHDMI2:  "InputHDMI2",
	domain.CommandInputHDMI3:  "InputHDMI3",
	domain.CommandInputHDMI4:  "InputHDMI4",
	domain.CommandInputTuner:  "InputTuner",
	domain.CommandLeft:        "Left",
	domain.CommandPlay:        "Play",
	domain.CommandPowerOff:    "PowerOff",
	domain.CommandPowerOn:     "PowerOn",
	domain.CommandReplay:      "InstantReplay",
	domain.CommandReverse:     "Rev",
	domain.CommandRight:       "Right",
	domain.CommandSearch:      "Search",
	domain.CommandSelect:      "Select",
	domain.CommandUp:          "Up",
	domain.CommandVolumeDown:  "VolumeDown",
	domain.CommandVolumeUp:    "VolumeUp",
	domain.CommandVolumeMute:  "VolumeMute",
}

// Key returns the ECP key name for cmd.
func Key(cmd domain.CommandID) (string, bool) {
	k, ok := keys[cmd]
	return k, ok
}
