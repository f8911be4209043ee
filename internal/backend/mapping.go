package backend

import "github.com/soar/inputcore/internal/gamepad"

// Default deadzone radius applied to mapped axes, in normalized units.
const defaultDeadzone = 0.05

// AxisMapping defines how a raw axis index maps to a logical axis code.
type AxisMapping struct {
	Index   int32
	Code    gamepad.AxisCode
	Trigger bool
	Invert  bool
	// Raw range. Sticks use the full int16 range; some devices report
	// triggers as -32768..32767, others as 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a logical button.
type ButtonMapping struct {
	Index int32
	Code  gamepad.ButtonCode
}

// DeviceMapping holds the complete raw-to-logical mapping for a device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// Metadata builds the attach-time metadata the core needs from this
// mapping: the declared button set and per-axis range info.
func (m *DeviceMapping) Metadata(name string, vendor, product uint16, serial, busPath string) gamepad.Metadata {
	meta := gamepad.Metadata{
		Name:    name,
		Vendor:  vendor,
		Product: product,
		Serial:  serial,
		BusPath: busPath,
		Axes:    make(map[gamepad.AxisCode]gamepad.AxisInfo, len(m.Axes)),
	}
	for _, bm := range m.Buttons {
		meta.Buttons = append(meta.Buttons, bm.Code)
	}
	if m.HasHat {
		meta.Buttons = append(meta.Buttons,
			gamepad.ButtonDpadUp, gamepad.ButtonDpadRight,
			gamepad.ButtonDpadDown, gamepad.ButtonDpadLeft)
	}
	for _, am := range m.Axes {
		d := defaultDeadzone
		meta.Axes[am.Code] = gamepad.AxisInfo{
			Min:      int32(am.RawMin),
			Max:      int32(am.RawMax),
			Deadzone: &d,
			Invert:   am.Invert,
			Trigger:  am.Trigger,
		}
	}
	return meta
}

// Built-in mappings for common controllers.

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: []AxisMapping{
		{Index: 0, Code: gamepad.AxisLeftX, RawMin: -32768, RawMax: 32767},
		{Index: 1, Code: gamepad.AxisLeftY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 2, Code: gamepad.AxisRightX, RawMin: -32768, RawMax: 32767},
		{Index: 3, Code: gamepad.AxisRightY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 4, Code: gamepad.AxisLT, Trigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Code: gamepad.AxisRT, Trigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Code: gamepad.ButtonSouth},
		{Index: 1, Code: gamepad.ButtonEast},
		{Index: 2, Code: gamepad.ButtonWest},
		{Index: 3, Code: gamepad.ButtonNorth},
		{Index: 4, Code: gamepad.ButtonLB},
		{Index: 5, Code: gamepad.ButtonRB},
		{Index: 6, Code: gamepad.ButtonSelect},
		{Index: 7, Code: gamepad.ButtonStart},
		{Index: 8, Code: gamepad.ButtonLThumb},
		{Index: 9, Code: gamepad.ButtonRThumb},
		{Index: 10, Code: gamepad.ButtonMode},
	},
	HasHat: true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: []AxisMapping{
		{Index: 0, Code: gamepad.AxisLeftX, RawMin: -32768, RawMax: 32767},
		{Index: 1, Code: gamepad.AxisLeftY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 2, Code: gamepad.AxisRightX, RawMin: -32768, RawMax: 32767},
		{Index: 3, Code: gamepad.AxisRightY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 4, Code: gamepad.AxisLT, Trigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Code: gamepad.AxisRT, Trigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Code: gamepad.ButtonSouth},  // Cross
		{Index: 1, Code: gamepad.ButtonEast},   // Circle
		{Index: 2, Code: gamepad.ButtonWest},   // Square
		{Index: 3, Code: gamepad.ButtonNorth},  // Triangle
		{Index: 4, Code: gamepad.ButtonSelect}, // Share / Create
		{Index: 5, Code: gamepad.ButtonMode},   // PS button
		{Index: 6, Code: gamepad.ButtonStart},  // Options
		{Index: 7, Code: gamepad.ButtonLThumb},
		{Index: 8, Code: gamepad.ButtonRThumb},
		{Index: 9, Code: gamepad.ButtonLB},  // L1
		{Index: 10, Code: gamepad.ButtonRB}, // R1
	},
	HasHat: true,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: []AxisMapping{
		{Index: 0, Code: gamepad.AxisLeftX, RawMin: -32768, RawMax: 32767},
		{Index: 1, Code: gamepad.AxisLeftY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 2, Code: gamepad.AxisRightX, RawMin: -32768, RawMax: 32767},
		{Index: 3, Code: gamepad.AxisRightY, Invert: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Code: gamepad.ButtonSouth},
		{Index: 1, Code: gamepad.ButtonEast},
		{Index: 2, Code: gamepad.ButtonWest},
		{Index: 3, Code: gamepad.ButtonNorth},
		{Index: 4, Code: gamepad.ButtonLB},
		{Index: 5, Code: gamepad.ButtonRB},
		{Index: 6, Code: gamepad.ButtonSelect},
		{Index: 7, Code: gamepad.ButtonStart},
		{Index: 8, Code: gamepad.ButtonLThumb},
		{Index: 9, Code: gamepad.ButtonRThumb},
		{Index: 10, Code: gamepad.ButtonMode},
	},
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name: "generic",
	Axes: []AxisMapping{
		{Index: 0, Code: gamepad.AxisLeftX, RawMin: -32768, RawMax: 32767},
		{Index: 1, Code: gamepad.AxisLeftY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 2, Code: gamepad.AxisRightX, RawMin: -32768, RawMax: 32767},
		{Index: 3, Code: gamepad.AxisRightY, Invert: true, RawMin: -32768, RawMax: 32767},
		{Index: 4, Code: gamepad.AxisLT, Trigger: true, RawMin: -32768, RawMax: 32767},
		{Index: 5, Code: gamepad.AxisRT, Trigger: true, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []ButtonMapping{
		{Index: 0, Code: gamepad.ButtonSouth},
		{Index: 1, Code: gamepad.ButtonEast},
		{Index: 2, Code: gamepad.ButtonWest},
		{Index: 3, Code: gamepad.ButtonNorth},
		{Index: 4, Code: gamepad.ButtonLB},
		{Index: 5, Code: gamepad.ButtonRB},
		{Index: 6, Code: gamepad.ButtonSelect},
		{Index: 7, Code: gamepad.ButtonStart},
		{Index: 8, Code: gamepad.ButtonLThumb},
		{Index: 9, Code: gamepad.ButtonRThumb},
		{Index: 10, Code: gamepad.ButtonMode},
	},
	HasHat: true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the mapping for a device identified by vendor/product
// ID, falling back to the generic layout.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}
