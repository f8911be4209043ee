package gamepad

import (
	"time"

	"github.com/google/uuid"
)

// Status is the connection state of a gamepad slot.
type Status uint8

const (
	StatusConnected Status = iota
	StatusDisconnected
)

func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// ButtonState holds the current value of one button plus edge-detection
// bookkeeping: Counter increments on every transition and LastChange is the
// sample timestamp of the most recent one.
type ButtonState struct {
	Pressed    bool
	Counter    uint32
	LastChange time.Time
}

// Gamepad is the per-device state machine. All fields are owned by the
// Registry and mutated only on its ingestion path; the exported accessors
// take the Registry's read lock, so views handed to applications are safe
// to query from other goroutines.
type Gamepad struct {
	reg *Registry

	id         ID
	uuid       uuid.UUID
	confidence UUIDConfidence
	name       string
	status     Status
	power      PowerInfo
	buttons    map[ButtonCode]ButtonState
	axes       map[AxisCode]float64
	axisInfo   map[AxisCode]AxisInfo
}

// ID returns the process-lifetime gamepad id.
func (g *Gamepad) ID() ID { return g.id }

// UUID returns the content-derived identifier of the physical device.
func (g *Gamepad) UUID() uuid.UUID { return g.uuid }

// UUIDConfidence reports whether the UUID was derived with serial data.
func (g *Gamepad) UUIDConfidence() UUIDConfidence { return g.confidence }

// Name returns the display name reported by the backend.
func (g *Gamepad) Name() string {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.name
}

// Status returns the current connection status.
func (g *Gamepad) Status() Status {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.status
}

// Power returns the battery status reported at the most recent attach.
func (g *Gamepad) Power() PowerInfo {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.power
}

// IsPressed reports whether the button is currently held.
func (g *Gamepad) IsPressed(b ButtonCode) bool {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.buttons[b].Pressed
}

// Button returns the full state of one button, including its transition
// counter and timestamp.
func (g *Gamepad) Button(b ButtonCode) (ButtonState, bool) {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	st, ok := g.buttons[b]
	return st, ok
}

// AxisValue returns the current normalized value of the axis, 0 if the
// device does not declare it.
func (g *Gamepad) AxisValue(a AxisCode) float64 {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return g.axes[a]
}

// AxisInfo returns the declared range metadata for the axis.
func (g *Gamepad) AxisInfo(a AxisCode) (AxisInfo, bool) {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	info, ok := g.axisInfo[a]
	return info, ok
}

// Buttons returns the declared button codes in ascending order.
func (g *Gamepad) Buttons() []ButtonCode {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return sortedKeys(g.buttons)
}

// Axes returns the declared axis codes in ascending order.
func (g *Gamepad) Axes() []AxisCode {
	g.reg.mu.RLock()
	defer g.reg.mu.RUnlock()
	return sortedKeys(g.axisInfo)
}

// apply folds one filtered sample into the state machine and enqueues the
// resulting delta events. Caller holds the registry write lock. Fields
// referencing buttons or axes the device never declared are rejected
// individually; the rest of the sample still applies.
func (g *Gamepad) apply(s Sample, threshold float64, q *queue) {
	for _, code := range sortedKeys(s.Buttons) {
		pressed := s.Buttons[code]
		st, ok := g.buttons[code]
		if !ok {
			continue // undeclared button, reject this field
		}
		if st.Pressed == pressed {
			continue
		}
		st.Pressed = pressed
		st.Counter++
		st.LastChange = s.Time
		g.buttons[code] = st

		ev := Event{Time: s.Time, ID: g.id, Button: code}
		if pressed {
			ev.Type = ButtonPressed
			ev.Value = 1
		} else {
			ev.Type = ButtonReleased
		}
		q.push(ev)
	}

	for _, code := range sortedKeys(s.Axes) {
		info, ok := g.axisInfo[code]
		if !ok {
			continue // undeclared axis, reject this field
		}
		v := Normalize(s.Axes[code], info)
		old := g.axes[code]
		if v == old || abs(v-old) < threshold {
			continue
		}
		g.axes[code] = v
		q.push(Event{Time: s.Time, Type: AxisChanged, ID: g.id, Axis: code, Value: v})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
