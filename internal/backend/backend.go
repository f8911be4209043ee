// Package backend contains the platform adapters that feed raw samples and
// hotplug notifications into the gamepad core. Each adapter is a pure
// producer: it talks to one OS mechanism and pushes what it sees through
// the narrow Sink interface, so the core never depends on a platform API.
package backend

import (
	"context"
	"fmt"

	"github.com/soar/inputcore/internal/gamepad"
)

// Sink is the core's push-style ingestion surface, implemented by
// *gamepad.Registry.
type Sink interface {
	OnAttach(h gamepad.Handle, meta gamepad.Metadata) (gamepad.ID, error)
	OnDetach(h gamepad.Handle) (gamepad.ID, error)
	OnSample(h gamepad.Handle, s gamepad.Sample) error
}

// Backend runs a platform event loop until the context is cancelled.
type Backend interface {
	Run(ctx context.Context)
}

// New constructs the named backend: "sdl" everywhere, "joydev" on Linux.
func New(kind string, sink Sink) (Backend, error) {
	switch kind {
	case "sdl":
		return NewSDL(sink), nil
	case "joydev":
		return newJoydev(sink)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
