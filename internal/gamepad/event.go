package gamepad

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType discriminates the variants of Event.
type EventType uint8

const (
	Connected EventType = iota
	Disconnected
	ButtonPressed
	ButtonReleased
	AxisChanged
)

var eventTypeNames = [...]string{
	Connected:      "connected",
	Disconnected:   "disconnected",
	ButtonPressed:  "button_pressed",
	ButtonReleased: "button_released",
	AxisChanged:    "axis_changed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("event(%d)", uint8(t))
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Event is one state change synthesized by the core. Button and Axis are
// meaningful only for the corresponding event types; Value holds the button
// value (1 on press) or the new normalized axis value. Events are immutable
// once enqueued.
type Event struct {
	Seq    uint64
	Time   time.Time
	Type   EventType
	ID     ID
	Button ButtonCode
	Axis   AxisCode
	Value  float64
}

// MarshalJSON emits only the fields that apply to the event's type, with
// button and axis codes rendered by name.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire struct {
		Seq    uint64    `json:"seq"`
		Time   time.Time `json:"time"`
		Type   EventType `json:"type"`
		ID     ID        `json:"id"`
		Button *string   `json:"button,omitempty"`
		Axis   *string   `json:"axis,omitempty"`
		Value  *float64  `json:"value,omitempty"`
	}
	w := wire{Seq: e.Seq, Time: e.Time, Type: e.Type, ID: e.ID}
	switch e.Type {
	case ButtonPressed:
		name := e.Button.String()
		w.Button = &name
		v := e.Value
		w.Value = &v
	case ButtonReleased:
		name := e.Button.String()
		w.Button = &name
	case AxisChanged:
		name := e.Axis.String()
		w.Axis = &name
		v := e.Value
		w.Value = &v
	}
	return json.Marshal(w)
}

// queue is a FIFO of synthesized events with monotone sequence numbers.
// Owned by the Registry; a single logical consumer pops from the head.
type queue struct {
	events []Event
	head   int
	seq    uint64
}

func (q *queue) push(e Event) {
	q.seq++
	e.Seq = q.seq
	q.events = append(q.events, e)
}

func (q *queue) pop() (Event, bool) {
	if q.head >= len(q.events) {
		return Event{}, false
	}
	e := q.events[q.head]
	q.head++
	// Reclaim consumed prefix once it dominates the backing array.
	if q.head > 64 && q.head*2 >= len(q.events) {
		q.events = append(q.events[:0], q.events[q.head:]...)
		q.head = 0
	}
	return e, true
}

func (q *queue) clear() {
	q.events = q.events[:0]
	q.head = 0
}

func (q *queue) len() int {
	return len(q.events) - q.head
}
