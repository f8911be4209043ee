package gamepad

import "errors"

var (
	// ErrUnknownDevice reports a sample or detach for a handle that was
	// never attached. The ingestion call is a no-op apart from the error.
	ErrUnknownDevice = errors.New("gamepad: unknown device handle")

	// ErrExhaustedIDs reports that no gamepad ID could be allocated.
	ErrExhaustedIDs = errors.New("gamepad: gamepad ids exhausted")
)
