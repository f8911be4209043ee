package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/soar/inputcore/internal/gamepad"
)

const (
	drainInterval    = 16 * time.Millisecond
	fullSyncInterval = 5 * time.Second
)

// Broadcaster is the single logical consumer of the registry's event queue:
// it drains NextEvent on a tick and fans the events out to all WebSocket
// clients, with a periodic full snapshot so late or lossy clients resync.
type Broadcaster struct {
	hub *Hub
	reg *gamepad.Registry
	// seq is bumped from the Run loop and from SendInitialState, which
	// runs on HTTP handler goroutines.
	seq atomic.Int64
}

func NewBroadcaster(h *Hub, reg *gamepad.Registry) *Broadcaster {
	return &Broadcaster{
		hub: h,
		reg: reg,
	}
}

// Run drives the broadcaster loop until the context is cancelled. Should be
// run in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	drain := time.NewTicker(drainInterval)
	defer drain.Stop()
	full := time.NewTicker(fullSyncInterval)
	defer full.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-drain.C:
			for {
				ev, ok := b.reg.NextEvent()
				if !ok {
					break
				}
				b.send(NewEventMessage(b.seq.Add(1), ev))
			}

		case <-full.C:
			b.send(NewSnapshotMessage(b.seq.Add(1), b.snapshot()))
		}
	}
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	data, err := json.Marshal(NewSnapshotMessage(b.seq.Add(1), b.snapshot()))
	if err != nil {
		log.Printf("Error marshaling initial state: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) snapshot() []PadSnapshot {
	pads := b.reg.Gamepads()
	out := make([]PadSnapshot, 0, len(pads))
	for _, g := range pads {
		out = append(out, Snapshot(g))
	}
	return out
}

func (b *Broadcaster) send(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
