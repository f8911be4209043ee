package hub

import (
	"time"

	"github.com/soar/inputcore/internal/gamepad"
)

// WSMessage is a message sent from server to client.
type WSMessage struct {
	Type      string         `json:"type"` // "event" or "snapshot"
	Seq       int64          `json:"seq"`
	Timestamp int64          `json:"timestamp"` // Unix milliseconds
	Event     *gamepad.Event `json:"event,omitempty"`
	Gamepads  []PadSnapshot  `json:"gamepads,omitempty"`
}

// PadSnapshot is the wire form of one gamepad's current state.
type PadSnapshot struct {
	ID         gamepad.ID         `json:"id"`
	UUID       string             `json:"uuid"`
	Confidence string             `json:"uuidConfidence"`
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	Power      string             `json:"power"`
	PowerPct   int                `json:"powerPercent"`
	Buttons    map[string]bool    `json:"buttons"`
	Axes       map[string]float64 `json:"axes"`
}

// Snapshot captures the wire form of a gamepad view.
func Snapshot(g *gamepad.Gamepad) PadSnapshot {
	power := g.Power()
	s := PadSnapshot{
		ID:         g.ID(),
		UUID:       g.UUID().String(),
		Confidence: g.UUIDConfidence().String(),
		Name:       g.Name(),
		Status:     g.Status().String(),
		Power:      power.State.String(),
		PowerPct:   power.Percent,
		Buttons:    make(map[string]bool),
		Axes:       make(map[string]float64),
	}
	for _, b := range g.Buttons() {
		s.Buttons[b.String()] = g.IsPressed(b)
	}
	for _, a := range g.Axes() {
		s.Axes[a.String()] = g.AxisValue(a)
	}
	return s
}

// NewEventMessage wraps one core event for the wire.
func NewEventMessage(seq int64, ev gamepad.Event) *WSMessage {
	return &WSMessage{
		Type:      "event",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Event:     &ev,
	}
}

// NewSnapshotMessage wraps the full registry state for the wire.
func NewSnapshotMessage(seq int64, pads []PadSnapshot) *WSMessage {
	return &WSMessage{
		Type:      "snapshot",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Gamepads:  pads,
	}
}

// ClientMessage is a command sent from the client to the server.
type ClientMessage struct {
	Type string     `json:"type"` // "forget" or "reset"
	ID   gamepad.ID `json:"id,omitempty"`
}
