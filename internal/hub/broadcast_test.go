package hub

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/soar/inputcore/internal/gamepad"
)

func TestSendInitialStateDeliversSnapshot(t *testing.T) {
	reg := gamepad.NewRegistry(gamepad.Options{})
	if _, err := reg.OnAttach(1, gamepad.Metadata{
		Name:    "Test Pad",
		Vendor:  0x045E,
		Product: 0x028E,
		Serial:  "serial-a",
		Power:   gamepad.PowerInfo{State: gamepad.PowerDischarging, Percent: 40},
		Buttons: []gamepad.ButtonCode{gamepad.ButtonSouth},
		Axes: map[gamepad.AxisCode]gamepad.AxisInfo{
			gamepad.AxisLeftX: {Min: -100, Max: 100},
		},
	}); err != nil {
		t.Fatalf("OnAttach: %v", err)
	}

	h := NewHub()
	b := NewBroadcaster(h, reg)
	c := NewClient(h, nil)
	b.SendInitialState(c)

	var msg WSMessage
	select {
	case data := <-c.send:
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	default:
		t.Fatal("no message queued for the client")
	}
	if msg.Type != "snapshot" || msg.Seq != 1 {
		t.Fatalf("message = %+v, want snapshot seq 1", msg)
	}
	if len(msg.Gamepads) != 1 {
		t.Fatalf("gamepads = %d, want 1", len(msg.Gamepads))
	}
	pad := msg.Gamepads[0]
	if pad.Name != "Test Pad" || pad.Status != "connected" {
		t.Fatalf("pad = %+v", pad)
	}
	if pad.Power != "discharging" || pad.PowerPct != 40 {
		t.Fatalf("pad power = %s %d%%, want discharging 40%%", pad.Power, pad.PowerPct)
	}
}

// SendInitialState runs on HTTP handler goroutines while the Run loop bumps
// the same counter; concurrent callers must never mint a duplicate seq.
func TestBroadcasterSeqConcurrentlyUnique(t *testing.T) {
	reg := gamepad.NewRegistry(gamepad.Options{})
	h := NewHub()
	b := NewBroadcaster(h, reg)

	const callers = 8
	const perCaller = 50
	clients := make([]*Client, callers)
	for i := range clients {
		clients[i] = NewClient(h, nil)
	}

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			for j := 0; j < perCaller; j++ {
				b.SendInitialState(c)
				// Keep the buffered channel from filling up.
				select {
				case <-c.send:
				default:
				}
			}
		}(clients[i])
	}
	wg.Wait()

	if got := b.seq.Load(); got != callers*perCaller {
		t.Fatalf("seq = %d, want %d", got, callers*perCaller)
	}
}
