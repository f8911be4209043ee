package backend_test

import (
	"testing"

	"github.com/soar/inputcore/internal/backend"
	"github.com/soar/inputcore/internal/gamepad"
)

func TestGetMappingFallsBackToGeneric(t *testing.T) {
	if m := backend.GetMapping(0x045E, 0x028E); m.Name != "xbox" {
		t.Fatalf("Xbox 360 mapping = %q", m.Name)
	}
	if m := backend.GetMapping(0x054C, 0x0CE6); m.Name != "playstation" {
		t.Fatalf("DualSense mapping = %q", m.Name)
	}
	if m := backend.GetMapping(0xBEEF, 0xCAFE); m.Name != "generic" {
		t.Fatalf("unknown device mapping = %q", m.Name)
	}
}

func TestMappingMetadata(t *testing.T) {
	m := backend.GetMapping(0x045E, 0x028E)
	meta := m.Metadata("Xbox 360 Controller", 0x045E, 0x028E, "", "sdl/xbox")

	if meta.Vendor != 0x045E || meta.Product != 0x028E {
		t.Fatalf("vendor/product = %04X/%04X", meta.Vendor, meta.Product)
	}

	// Hat devices declare the four dpad buttons on top of the mapped set.
	declared := make(map[gamepad.ButtonCode]bool)
	for _, b := range meta.Buttons {
		declared[b] = true
	}
	for _, b := range []gamepad.ButtonCode{
		gamepad.ButtonSouth, gamepad.ButtonMode,
		gamepad.ButtonDpadUp, gamepad.ButtonDpadLeft,
	} {
		if !declared[b] {
			t.Fatalf("button %s not declared", b)
		}
	}

	lt, ok := meta.Axes[gamepad.AxisLT]
	if !ok || !lt.Trigger {
		t.Fatalf("LT axis info = %+v, %v", lt, ok)
	}
	lx, ok := meta.Axes[gamepad.AxisLeftX]
	if !ok || lx.Trigger || lx.Deadzone == nil {
		t.Fatalf("LeftX axis info = %+v, %v", lx, ok)
	}
	if lx.Min != -32768 || lx.Max != 32767 {
		t.Fatalf("LeftX range = [%d,%d]", lx.Min, lx.Max)
	}
	ly := meta.Axes[gamepad.AxisLeftY]
	if !ly.Invert {
		t.Fatal("LeftY should be inverted")
	}
}
