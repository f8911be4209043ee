// Package gamepad implements the platform-independent gamepad core: it
// turns raw backend samples and hotplug notifications into a unified event
// stream and a queryable snapshot of every known controller, with stable
// gamepad ids and content-derived device UUIDs across hotplug cycles.
package gamepad

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle is the opaque platform device identifier a backend attaches under.
// Handles are not stable across hotplug cycles; identity lives in the UUID.
type Handle uint64

// ID is a small integer identifying a logical gamepad slot for the lifetime
// of the process. No two simultaneously known gamepads share an ID.
type ID int

// maxID bounds the allocator. Unreachable in practice; hitting it makes
// OnAttach fail with ErrExhaustedIDs instead of silently dropping the device.
const maxID = 1<<31 - 1

// DefaultAxisThreshold is the minimum normalized axis delta that produces an
// AxisChanged event.
const DefaultAxisThreshold = 0.01

// Metadata is everything a backend knows about a device at attach time.
type Metadata struct {
	Name    string
	Vendor  uint16
	Product uint16
	// Serial is the device serial number if the platform exposes one.
	// Without it the UUID falls back to vendor+product+bus path and is
	// flagged weak.
	Serial  string
	BusPath string
	// Power is the battery status at attach time; zero value means the
	// platform reports nothing.
	Power   PowerInfo
	Buttons []ButtonCode
	Axes    map[AxisCode]AxisInfo
}

// Sample is one raw readout for an attached device. Axis values are raw,
// in the range the device declared in its AxisInfo.
type Sample struct {
	Time    time.Time
	Buttons map[ButtonCode]bool
	Axes    map[AxisCode]int32
}

// Options configures the core.
type Options struct {
	// AxisThreshold is the minimum normalized delta for AxisChanged events.
	// Zero means DefaultAxisThreshold; negative disables the filter.
	AxisThreshold float64
	// Deadzone overrides the deadzone radius per axis code for every
	// attaching device. Backend-declared radii are kept where no override
	// exists.
	Deadzone map[AxisCode]float64
	// UUIDFallback controls reconnect matching for weak UUIDs.
	UUIDFallback FallbackPolicy
}

func (o Options) threshold() float64 {
	switch {
	case o.AxisThreshold == 0:
		return DefaultAxisThreshold
	case o.AxisThreshold < 0:
		return 0
	default:
		return o.AxisThreshold
	}
}

// Registry owns every gamepad state machine and the event queue. All
// mutation happens on the ingestion path (OnAttach, OnDetach, OnSample)
// under the write lock; queries take the read lock, so backends and
// application readers may live on different goroutines.
type Registry struct {
	mu   sync.RWMutex
	opts Options

	pads     map[ID]*Gamepad
	byUUID   map[uuid.UUID]ID
	byHandle map[Handle]ID
	queue    queue
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		pads:     make(map[ID]*Gamepad),
		byUUID:   make(map[uuid.UUID]ID),
		byHandle: make(map[Handle]ID),
	}
}

// OnAttach registers a device session. A disconnected gamepad with the same
// UUID is revived under its old ID; otherwise the smallest free ID is
// assigned. The Connected event is enqueued before any sample-derived events
// for this device. Attaching an already attached handle is a stray and a
// no-op.
func (r *Registry) OnAttach(handle Handle, meta Metadata) (ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byHandle[handle]; ok {
		return id, nil
	}

	now := time.Now()
	u, confidence := deviceUUID(meta, handle, now)

	matchable := confidence == UUIDStrong || r.opts.UUIDFallback == FallbackWeak
	if matchable {
		if id, ok := r.byUUID[u]; ok {
			if g := r.pads[id]; g.status == StatusDisconnected {
				g.status = StatusConnected
				g.name = meta.Name
				g.power = meta.Power
				r.byHandle[handle] = id
				r.queue.push(Event{Time: now, Type: Connected, ID: id})
				return id, nil
			}
			// Same UUID already connected: a second serial-less device
			// of the same model. Fall through to a fresh slot.
		}
	}

	id, err := r.allocID()
	if err != nil {
		return 0, err
	}

	g := &Gamepad{
		reg:        r,
		id:         id,
		uuid:       u,
		confidence: confidence,
		name:       meta.Name,
		status:     StatusConnected,
		power:      meta.Power,
		buttons:    make(map[ButtonCode]ButtonState, len(meta.Buttons)),
		axes:       make(map[AxisCode]float64, len(meta.Axes)),
		axisInfo:   make(map[AxisCode]AxisInfo, len(meta.Axes)),
	}
	for _, b := range meta.Buttons {
		g.buttons[b] = ButtonState{}
	}
	for code, info := range meta.Axes {
		if d, ok := r.opts.Deadzone[code]; ok {
			info.Deadzone = &d
		}
		g.axisInfo[code] = info
	}

	r.pads[id] = g
	r.byHandle[handle] = id
	if matchable {
		if _, taken := r.byUUID[u]; !taken {
			r.byUUID[u] = id
		}
	}
	r.queue.push(Event{Time: now, Type: Connected, ID: id})
	return id, nil
}

// OnDetach marks the gamepad disconnected. The record and its ID are kept
// so pending events and late queries still resolve; the slot is reclaimed
// by a reattach of the same UUID or released by Forget.
func (r *Registry) OnDetach(handle Handle) (ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byHandle[handle]
	if !ok {
		return 0, ErrUnknownDevice
	}
	delete(r.byHandle, handle)

	g := r.pads[id]
	g.status = StatusDisconnected
	r.queue.push(Event{Time: time.Now(), Type: Disconnected, ID: id})
	return id, nil
}

// OnSample applies one raw readout. Samples for handles that were never
// attached (or already detached) are dropped and reported so the caller can
// log the stray; they never touch registry state.
func (r *Registry) OnSample(handle Handle, s Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byHandle[handle]
	if !ok {
		return ErrUnknownDevice
	}
	g := r.pads[id]
	if g.status != StatusConnected {
		return nil
	}
	g.apply(s, r.opts.threshold(), &r.queue)
	return nil
}

// Get returns a read-only view of the gamepad, nil if the ID is unknown.
func (r *Registry) Get(id ID) *Gamepad {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pads[id]
}

// Gamepads returns views of all known gamepads in ascending ID order.
func (r *Registry) Gamepads() []*Gamepad {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Gamepad, 0, len(r.pads))
	for _, id := range sortedKeys(r.pads) {
		out = append(out, r.pads[id])
	}
	return out
}

// Forget permanently removes a disconnected gamepad and frees its ID for a
// genuinely new device. Forgetting a connected or unknown ID is a no-op.
func (r *Registry) Forget(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.pads[id]
	if !ok || g.status != StatusDisconnected {
		return
	}
	delete(r.pads, id)
	if r.byUUID[g.uuid] == id {
		delete(r.byUUID, g.uuid)
	}
}

// NextEvent removes and returns the oldest unconsumed event. The queue
// supports one logical consumer.
func (r *Registry) NextEvent() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.pop()
}

// PendingEvents reports the number of enqueued, unconsumed events.
func (r *Registry) PendingEvents() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.queue.len()
}

// ClearEvents drops all unconsumed events, e.g. on an application reset.
func (r *Registry) ClearEvents() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue.clear()
}

// allocID returns the smallest ID not held by a known gamepad and not
// referenced by any unconsumed event, so a forgotten slot is never recycled
// while stale events for it are still in flight.
func (r *Registry) allocID() (ID, error) {
	pending := make(map[ID]struct{})
	for i := r.queue.head; i < len(r.queue.events); i++ {
		pending[r.queue.events[i].ID] = struct{}{}
	}
	for id := ID(0); id <= maxID; id++ {
		if _, ok := r.pads[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}
		return id, nil
	}
	return 0, ErrExhaustedIDs
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
