package gamepad_test

import (
	"testing"
	"time"

	"github.com/soar/inputcore/internal/gamepad"
)

func testMeta(serial string) gamepad.Metadata {
	return gamepad.Metadata{
		Name:    "Test Pad",
		Vendor:  0x045E,
		Product: 0x028E,
		Serial:  serial,
		BusPath: "usb-0000:00:14.0-1",
		Buttons: []gamepad.ButtonCode{gamepad.ButtonSouth, gamepad.ButtonEast},
		Axes: map[gamepad.AxisCode]gamepad.AxisInfo{
			gamepad.AxisLeftX: {Min: -100, Max: 100},
		},
	}
}

func drain(r *gamepad.Registry) []gamepad.Event {
	var out []gamepad.Event
	for {
		ev, ok := r.NextEvent()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func mustAttach(t *testing.T, r *gamepad.Registry, h gamepad.Handle, meta gamepad.Metadata) gamepad.ID {
	t.Helper()
	id, err := r.OnAttach(h, meta)
	if err != nil {
		t.Fatalf("OnAttach(%d): %v", h, err)
	}
	return id
}

func TestAttachAssignsSmallestFreeID(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})

	if id := mustAttach(t, r, 1, testMeta("serial-a")); id != 0 {
		t.Fatalf("first attach id = %d, want 0", id)
	}
	if id := mustAttach(t, r, 2, testMeta("serial-b")); id != 1 {
		t.Fatalf("second attach id = %d, want 1", id)
	}

	events := drain(r)
	if len(events) != 2 || events[0].Type != gamepad.Connected || events[1].Type != gamepad.Connected {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].ID != 0 || events[1].ID != 1 {
		t.Fatalf("event ids = %d, %d, want 0, 1", events[0].ID, events[1].ID)
	}
}

// Reconnecting the same physical device must yield the same gamepad id.
func TestReconnectKeepsID(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})

	id := mustAttach(t, r, 1, testMeta("serial-a"))
	if id != 0 {
		t.Fatalf("id = %d, want 0", id)
	}
	g := r.Get(id)
	u := g.UUID()

	if _, err := r.OnDetach(1); err != nil {
		t.Fatalf("OnDetach: %v", err)
	}
	if g.Status() != gamepad.StatusDisconnected {
		t.Fatalf("status after detach = %v", g.Status())
	}

	// The OS hands out a new handle on replug; identity comes from the UUID.
	again := mustAttach(t, r, 7, testMeta("serial-a"))
	if again != id {
		t.Fatalf("reattach id = %d, want %d", again, id)
	}
	if g.Status() != gamepad.StatusConnected {
		t.Fatalf("status after reattach = %v", g.Status())
	}
	if g.UUID() != u {
		t.Fatalf("uuid changed across reconnect: %s != %s", g.UUID(), u)
	}

	if other := mustAttach(t, r, 8, testMeta("serial-b")); other != 1 {
		t.Fatalf("different device id = %d, want 1", other)
	}
}

func TestForgetSemantics(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	id := mustAttach(t, r, 1, testMeta("serial-a"))
	drain(r)

	// Forget on a connected gamepad is a no-op.
	r.Forget(id)
	if r.Get(id) == nil {
		t.Fatal("forget removed a connected gamepad")
	}

	r.OnDetach(1)
	drain(r)
	r.Forget(id)
	if r.Get(id) != nil {
		t.Fatal("forget left a disconnected gamepad behind")
	}

	// The same physical device now attaches as a genuinely new gamepad.
	fresh := mustAttach(t, r, 2, testMeta("serial-a"))
	if g := r.Get(fresh); g == nil || g.Status() != gamepad.StatusConnected {
		t.Fatalf("reattach after forget: %v", g)
	}
}

// A freed id must not be recycled while unconsumed events still carry it.
func TestIDNotReusedWhileEventsPending(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	id := mustAttach(t, r, 1, testMeta("serial-a"))
	r.OnDetach(1)
	r.Forget(id) // events for id 0 still queued

	next := mustAttach(t, r, 2, testMeta("serial-b"))
	if next == id {
		t.Fatalf("id %d reused while events referencing it are pending", id)
	}

	drain(r)
	r.OnDetach(2)
	drain(r)
	r.Forget(next)
	if reused := mustAttach(t, r, 3, testMeta("serial-c")); reused != 0 {
		t.Fatalf("id after queue drained = %d, want 0", reused)
	}
}

func TestUnknownHandleIgnored(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})

	err := r.OnSample(99, gamepad.Sample{
		Time:    time.Now(),
		Buttons: map[gamepad.ButtonCode]bool{gamepad.ButtonSouth: true},
	})
	if err != gamepad.ErrUnknownDevice {
		t.Fatalf("err = %v, want ErrUnknownDevice", err)
	}
	if _, err := r.OnDetach(99); err != gamepad.ErrUnknownDevice {
		t.Fatalf("detach err = %v, want ErrUnknownDevice", err)
	}
	if events := drain(r); len(events) != 0 {
		t.Fatalf("stray sample produced events: %+v", events)
	}
	if pads := r.Gamepads(); len(pads) != 0 {
		t.Fatalf("stray sample mutated registry: %d pads", len(pads))
	}
}

func TestButtonEdges(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	id := mustAttach(t, r, 1, testMeta("serial-a"))
	drain(r)

	press := gamepad.Sample{Time: time.Now(), Buttons: map[gamepad.ButtonCode]bool{gamepad.ButtonSouth: true}}
	r.OnSample(1, press)
	r.OnSample(1, press) // repeated sample, no new edge
	r.OnSample(1, gamepad.Sample{Time: time.Now(), Buttons: map[gamepad.ButtonCode]bool{gamepad.ButtonSouth: false}})

	events := drain(r)
	if len(events) != 2 {
		t.Fatalf("got %d events, want exactly press and release: %+v", len(events), events)
	}
	if events[0].Type != gamepad.ButtonPressed || events[0].Button != gamepad.ButtonSouth || events[0].Value != 1 {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].Type != gamepad.ButtonReleased || events[1].Button != gamepad.ButtonSouth {
		t.Fatalf("second event = %+v", events[1])
	}
	if events[1].Seq <= events[0].Seq {
		t.Fatalf("sequence not increasing: %d then %d", events[0].Seq, events[1].Seq)
	}

	g := r.Get(id)
	if g.IsPressed(gamepad.ButtonSouth) {
		t.Fatal("button still pressed after release")
	}
	st, ok := g.Button(gamepad.ButtonSouth)
	if !ok || st.Counter != 2 {
		t.Fatalf("transition counter = %d, want 2", st.Counter)
	}
}

func TestAxisChangeThreshold(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{AxisThreshold: 0.1})
	id := mustAttach(t, r, 1, testMeta("serial-a"))
	drain(r)

	// 5 raw units on a [-100,100] axis is a 0.05 delta, below threshold.
	r.OnSample(1, gamepad.Sample{Time: time.Now(), Axes: map[gamepad.AxisCode]int32{gamepad.AxisLeftX: 5}})
	if events := drain(r); len(events) != 0 {
		t.Fatalf("jitter below threshold produced events: %+v", events)
	}

	r.OnSample(1, gamepad.Sample{Time: time.Now(), Axes: map[gamepad.AxisCode]int32{gamepad.AxisLeftX: 50}})
	events := drain(r)
	if len(events) != 1 || events[0].Type != gamepad.AxisChanged {
		t.Fatalf("events = %+v, want one AxisChanged", events)
	}
	if events[0].Axis != gamepad.AxisLeftX || events[0].Value != 0.5 {
		t.Fatalf("axis event = %+v", events[0])
	}
	if got := r.Get(id).AxisValue(gamepad.AxisLeftX); got != 0.5 {
		t.Fatalf("stored axis value = %v, want 0.5", got)
	}
}

// Fields referencing undeclared buttons or axes are rejected individually;
// the rest of the sample still applies.
func TestMalformedSampleAppliedPerField(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	mustAttach(t, r, 1, testMeta("serial-a"))
	drain(r)

	r.OnSample(1, gamepad.Sample{
		Time: time.Now(),
		Buttons: map[gamepad.ButtonCode]bool{
			gamepad.ButtonSouth: true,
			gamepad.ButtonMode:  true, // not declared by this device
		},
		Axes: map[gamepad.AxisCode]int32{
			gamepad.AxisRT: 100, // not declared either
		},
	})

	events := drain(r)
	if len(events) != 1 || events[0].Button != gamepad.ButtonSouth {
		t.Fatalf("events = %+v, want only the declared button", events)
	}
}

func TestSampleAfterDetachDropped(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	mustAttach(t, r, 1, testMeta("serial-a"))
	r.OnDetach(1)
	drain(r)

	err := r.OnSample(1, gamepad.Sample{
		Time:    time.Now(),
		Buttons: map[gamepad.ButtonCode]bool{gamepad.ButtonSouth: true},
	})
	if err != gamepad.ErrUnknownDevice {
		t.Fatalf("err = %v, want ErrUnknownDevice", err)
	}
	if events := drain(r); len(events) != 0 {
		t.Fatalf("detached sample produced events: %+v", events)
	}
}

func TestGamepadsOrderedByID(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	mustAttach(t, r, 1, testMeta("serial-a"))
	mustAttach(t, r, 2, testMeta("serial-b"))
	mustAttach(t, r, 3, testMeta("serial-c"))

	pads := r.Gamepads()
	if len(pads) != 3 {
		t.Fatalf("len = %d, want 3", len(pads))
	}
	for i, g := range pads {
		if g.ID() != gamepad.ID(i) {
			t.Fatalf("pads[%d].ID() = %d", i, g.ID())
		}
	}
}

func TestPowerInfoSurfaced(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})

	meta := testMeta("serial-a")
	meta.Power = gamepad.PowerInfo{State: gamepad.PowerDischarging, Percent: 40}
	id := mustAttach(t, r, 1, meta)

	got := r.Get(id).Power()
	if got.State != gamepad.PowerDischarging || got.Percent != 40 {
		t.Fatalf("power = %+v, want discharging 40%%", got)
	}
	if s := got.State.String(); s != "discharging" {
		t.Fatalf("state string = %q", s)
	}

	// A reattach carries fresh battery data; the revived slot picks it up.
	if _, err := r.OnDetach(1); err != nil {
		t.Fatalf("OnDetach: %v", err)
	}
	meta.Power = gamepad.PowerInfo{State: gamepad.PowerCharging, Percent: 65}
	if again := mustAttach(t, r, 2, meta); again != id {
		t.Fatalf("reattach id = %d, want %d", again, id)
	}
	got = r.Get(id).Power()
	if got.State != gamepad.PowerCharging || got.Percent != 65 {
		t.Fatalf("power after reattach = %+v, want charging 65%%", got)
	}
}

func TestClearEvents(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	mustAttach(t, r, 1, testMeta("serial-a"))
	if r.PendingEvents() != 1 {
		t.Fatalf("pending = %d, want 1", r.PendingEvents())
	}
	r.ClearEvents()
	if _, ok := r.NextEvent(); ok {
		t.Fatal("events survived ClearEvents")
	}
}
