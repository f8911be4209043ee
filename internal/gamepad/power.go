package gamepad

// PowerState describes how a gamepad is powered, as far as the backend can
// tell. Most platforms only report this for wireless devices.
type PowerState uint8

const (
	PowerUnknown PowerState = iota
	PowerWired
	PowerDischarging
	PowerCharging
	PowerCharged
)

var powerNames = map[PowerState]string{
	PowerUnknown:     "unknown",
	PowerWired:       "wired",
	PowerDischarging: "discharging",
	PowerCharging:    "charging",
	PowerCharged:     "charged",
}

func (p PowerState) String() string {
	if s, ok := powerNames[p]; ok {
		return s
	}
	return "unknown"
}

// PowerInfo is the battery status a backend reported at attach time.
// Percent is 0-100 and only meaningful when State involves a battery.
type PowerInfo struct {
	State   PowerState
	Percent int
}
