package gamepad

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UUIDConfidence reports how the device UUID was derived. Weak UUIDs were
// computed without a serial number, so two identical serial-less devices can
// collide; the flag is surfaced to the application instead of being treated
// as an error.
type UUIDConfidence uint8

const (
	UUIDStrong UUIDConfidence = iota
	UUIDWeak
)

func (c UUIDConfidence) String() string {
	if c == UUIDStrong {
		return "strong"
	}
	return "weak"
}

// FallbackPolicy controls whether weak UUIDs participate in reconnect
// matching. Under FallbackStrict a weak UUID never reclaims a disconnected
// slot, so serial-less devices always attach as new gamepads.
type FallbackPolicy uint8

const (
	FallbackWeak FallbackPolicy = iota
	FallbackStrict
)

// Namespace for deterministic device UUIDs. The UUID is content-derived
// (UUIDv5 over the device identity string), never random, so the same
// physical device yields the same UUID across hotplug cycles and restarts.
var deviceNamespace = uuid.MustParse("9f2d5c3e-6b1a-4e8f-9c7d-2a4b6e8d0f13")

// deviceUUID derives the stable 128-bit identifier for an attaching device.
// Preference order: vendor+product+serial (strong), serial alone (strong),
// vendor+product+bus path (weak), and as a last resort the platform handle
// plus attach time (weak, not stable across reattach). A serial is enough
// on its own: some transports report it without vendor/product ids.
func deviceUUID(meta Metadata, handle Handle, now time.Time) (uuid.UUID, UUIDConfidence) {
	if meta.Serial != "" {
		name := fmt.Sprintf("%04x:%04x:%s", meta.Vendor, meta.Product, meta.Serial)
		return uuid.NewSHA1(deviceNamespace, []byte(name)), UUIDStrong
	}
	if meta.Vendor != 0 || meta.Product != 0 {
		name := fmt.Sprintf("%04x:%04x:%s", meta.Vendor, meta.Product, meta.BusPath)
		return uuid.NewSHA1(deviceNamespace, []byte(name)), UUIDWeak
	}
	name := fmt.Sprintf("handle:%d:%d", handle, now.UnixNano())
	return uuid.NewSHA1(deviceNamespace, []byte(name)), UUIDWeak
}
