package gamepad

import "fmt"

// ButtonCode identifies a logical gamepad button, independent of the raw
// index a backend reports it under.
type ButtonCode uint16

const (
	ButtonSouth ButtonCode = iota // A / Cross
	ButtonEast                    // B / Circle
	ButtonWest                    // X / Square
	ButtonNorth                   // Y / Triangle
	ButtonLB
	ButtonRB
	ButtonSelect
	ButtonStart
	ButtonLThumb
	ButtonRThumb
	ButtonDpadUp
	ButtonDpadRight
	ButtonDpadDown
	ButtonDpadLeft
	ButtonMode // guide / home / PS button
)

var buttonNames = map[ButtonCode]string{
	ButtonSouth:     "south",
	ButtonEast:      "east",
	ButtonWest:      "west",
	ButtonNorth:     "north",
	ButtonLB:        "lb",
	ButtonRB:        "rb",
	ButtonSelect:    "select",
	ButtonStart:     "start",
	ButtonLThumb:    "l3",
	ButtonRThumb:    "r3",
	ButtonDpadUp:    "dpad_up",
	ButtonDpadRight: "dpad_right",
	ButtonDpadDown:  "dpad_down",
	ButtonDpadLeft:  "dpad_left",
	ButtonMode:      "mode",
}

func (b ButtonCode) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return fmt.Sprintf("button(%d)", uint16(b))
}

// AxisCode identifies a logical analog axis.
type AxisCode uint16

const (
	AxisLeftX AxisCode = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLT
	AxisRT
	AxisDpadX
	AxisDpadY
)

var axisNames = map[AxisCode]string{
	AxisLeftX:  "left_x",
	AxisLeftY:  "left_y",
	AxisRightX: "right_x",
	AxisRightY: "right_y",
	AxisLT:     "lt",
	AxisRT:     "rt",
	AxisDpadX:  "dpad_x",
	AxisDpadY:  "dpad_y",
}

func (a AxisCode) String() string {
	if s, ok := axisNames[a]; ok {
		return s
	}
	return fmt.Sprintf("axis(%d)", uint16(a))
}
