package backend

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/inputcore/internal/gamepad"
)

const (
	pollDelayNS = 16_000_000 // ~60Hz

	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

type sdlJoystick struct {
	joystick *sdl.Joystick
	mapping  *DeviceMapping
	name     string
}

// SDL reads all connected joysticks through the SDL3 Joystick API and feeds
// the core: hotplug events become attach/detach notifications, and every
// poll tick pushes one raw sample per device.
type SDL struct {
	sink      Sink
	joysticks map[sdl.JoystickID]*sdlJoystick
}

func NewSDL(sink Sink) *SDL {
	return &SDL{
		sink:      sink,
		joysticks: make(map[sdl.JoystickID]*sdlJoystick),
	}
}

// Run initializes SDL and runs the event+polling loop on the current thread.
// Must be called from a goroutine with runtime.LockOSThread semantics, which
// it sets up itself.
func (s *SDL) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		log.Fatalf("SDL Init failed: %s", sdl.GetError())
	}
	defer sdl.Quit()

	log.Println("SDL3 Joystick subsystem initialized")

	// Pick up already-connected joysticks.
	for _, id := range sdl.GetJoysticks() {
		s.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		default:
		}

		s.processEvents()
		s.pollState()
		sdl.DelayNS(pollDelayNS)
	}
}

func (s *SDL) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			s.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			s.removeJoystick(event.JDevice().Which)
		}
	}
}

func (s *SDL) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := s.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := GetMapping(vendorID, productID)

	s.joysticks[jsID] = &sdlJoystick{
		joystick: js,
		mapping:  mapping,
		name:     name,
	}

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) mapping=%s axes=%d buttons=%d hats=%d",
		name, vendorID, productID, mapping.Name,
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js))

	// SDL exposes no serial here, so identity is vendor+product+name and
	// the core flags the UUID weak.
	meta := mapping.Metadata(name, vendorID, productID, "", fmt.Sprintf("sdl/%s", name))
	meta.Power = joystickPower(js)
	if _, err := s.sink.OnAttach(gamepad.Handle(jsID), meta); err != nil {
		log.Printf("Attach rejected for %s: %v", name, err)
	}
}

// joystickPower maps SDL's battery report onto the core's power states.
// SDL returns a negative percent when the level is not known.
func joystickPower(js *sdl.Joystick) gamepad.PowerInfo {
	var pct int32
	info := gamepad.PowerInfo{}
	switch sdl.GetJoystickPowerInfo(js, &pct) {
	case sdl.PowerStateNoBattery:
		info.State = gamepad.PowerWired
	case sdl.PowerStateOnBattery:
		info.State = gamepad.PowerDischarging
	case sdl.PowerStateCharging:
		info.State = gamepad.PowerCharging
	case sdl.PowerStateCharged:
		info.State = gamepad.PowerCharged
		info.Percent = 100
	default:
		return info
	}
	if pct > 0 {
		info.Percent = int(pct)
	}
	return info
}

func (s *SDL) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := s.joysticks[instanceID]
	if !exists {
		return
	}

	log.Printf("Joystick disconnected: %s", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(s.joysticks, instanceID)

	if _, err := s.sink.OnDetach(gamepad.Handle(instanceID)); err != nil {
		log.Printf("Detach for unknown joystick %d: %v", instanceID, err)
	}
}

func (s *SDL) closeAll() {
	for id, info := range s.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(s.joysticks, id)
		s.sink.OnDetach(gamepad.Handle(id))
	}
}

func (s *SDL) pollState() {
	now := time.Now()
	for id, info := range s.joysticks {
		if !sdl.JoystickConnected(info.joystick) {
			continue
		}
		s.sink.OnSample(gamepad.Handle(id), s.readSample(info, now))
	}
}

// readSample captures one raw readout. Axis values stay raw; the core's
// filter owns normalization and deadzones.
func (s *SDL) readSample(info *sdlJoystick, now time.Time) gamepad.Sample {
	js := info.joystick
	mapping := info.mapping

	sample := gamepad.Sample{
		Time:    now,
		Buttons: make(map[gamepad.ButtonCode]bool, len(mapping.Buttons)+4),
		Axes:    make(map[gamepad.AxisCode]int32, len(mapping.Axes)),
	}

	for _, am := range mapping.Axes {
		sample.Axes[am.Code] = int32(sdl.GetJoystickAxis(js, am.Index))
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for _, bm := range mapping.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		sample.Buttons[bm.Code] = sdl.GetJoystickButton(js, bm.Index)
	}

	if mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		hat := sdl.GetJoystickHat(js, 0)
		sample.Buttons[gamepad.ButtonDpadUp] = hat&hatUp != 0
		sample.Buttons[gamepad.ButtonDpadRight] = hat&hatRight != 0
		sample.Buttons[gamepad.ButtonDpadDown] = hat&hatDown != 0
		sample.Buttons[gamepad.ButtonDpadLeft] = hat&hatLeft != 0
	}

	return sample
}
