package session

// DevicePermission is the default Permission. Desktop platforms gate
// microphone access outside the process (the OS prompts on first device
// open), so there is nothing to request here; the interface exists so
// clients with a real permission dialog can slot one in.
type DevicePermission struct{}

func (DevicePermission) Granted() bool { return true }

func (DevicePermission) Request() {}
