package connect

// User-facing text. Kept in one place so the tests and the CLI agree on it.
const (
	MsgNoDevices       = "No nearby Roku devices were autodiscovered."
	MsgInvalidOption   = "Please enter a valid option."
	MsgVerifyFailed    = "Could not establish a connection to this device."
	MsgConnected       = "Successfully connected to Roku device!"
	MsgDiscoveryFailed = "Device discovery failed: %v"

	PromptNoDevices = "Press ENTER to try to autodiscover nearby Roku devices or enter 'm' and to manually add an IP: "
	PromptChoose    = "Choose which IP you'd like to connect to and press ENTER (or 'm' to enter one manually): "
	PromptManual    = "Please enter the IP of the device you'd like to connect to, or enter 'a' to autodiscover: "
)
