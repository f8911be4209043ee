package gamepad

import "math"

// AxisInfo describes the raw value range of one axis as declared by the
// backend at attach time. It is immutable for the lifetime of the device.
type AxisInfo struct {
	Min int32
	Max int32
	// Deadzone is a radius in normalized units. nil means no filtering.
	Deadzone *float64
	Invert   bool
	// Trigger marks a unidirectional axis whose output range is [0,1].
	Trigger bool
}

// Normalize rescales a raw axis value into [-1,1], or [0,1] for triggers,
// applying the deadzone and inversion from info. It is a pure function:
// no history, same inputs always give the same output.
//
// The deadzone is hard: any magnitude below the radius maps to exactly 0.
// The live range beyond the radius is rescaled so full deflection still
// reaches the output extreme.
func Normalize(raw int32, info AxisInfo) float64 {
	if info.Max <= info.Min {
		return 0
	}

	span := float64(info.Max) - float64(info.Min)
	var v float64
	if info.Trigger {
		v = (float64(raw) - float64(info.Min)) / span
		v = clamp(v, 0, 1)
	} else {
		v = (float64(raw)-float64(info.Min))/span*2 - 1
		v = clamp(v, -1, 1)
	}

	if info.Deadzone != nil {
		v = applyDeadzone(v, *info.Deadzone)
	}
	if info.Invert {
		v = -v
	}
	return v
}

func applyDeadzone(v, radius float64) float64 {
	if radius <= 0 {
		return v
	}
	mag := math.Abs(v)
	if mag <= radius {
		return 0
	}
	if radius >= 1 {
		return 0
	}
	scaled := (mag - radius) / (1 - radius)
	return math.Copysign(scaled, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
