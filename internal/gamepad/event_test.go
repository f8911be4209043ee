package gamepad_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/soar/inputcore/internal/gamepad"
)

func TestEventJSONPerType(t *testing.T) {
	press := gamepad.Event{Type: gamepad.ButtonPressed, ID: 3, Button: gamepad.ButtonSouth, Value: 1}
	b, err := json.Marshal(press)
	if err != nil {
		t.Fatalf("marshal press: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"type":"button_pressed"`) || !strings.Contains(s, `"button":"south"`) {
		t.Fatalf("press JSON: %s", s)
	}
	if !strings.Contains(s, `"value":1`) {
		t.Fatalf("press JSON lacks value: %s", s)
	}

	release := gamepad.Event{Type: gamepad.ButtonReleased, ID: 3, Button: gamepad.ButtonSouth}
	b, err = json.Marshal(release)
	if err != nil {
		t.Fatalf("marshal release: %v", err)
	}
	s = string(b)
	if !strings.Contains(s, `"button":"south"`) || strings.Contains(s, `"value"`) {
		t.Fatalf("release JSON: %s", s)
	}

	axis := gamepad.Event{Type: gamepad.AxisChanged, ID: 3, Axis: gamepad.AxisLeftX, Value: -0.5}
	b, err = json.Marshal(axis)
	if err != nil {
		t.Fatalf("marshal axis: %v", err)
	}
	s = string(b)
	if !strings.Contains(s, `"axis":"left_x"`) || !strings.Contains(s, `"value":-0.5`) {
		t.Fatalf("axis JSON: %s", s)
	}

	conn := gamepad.Event{Type: gamepad.Connected, ID: 3}
	b, err = json.Marshal(conn)
	if err != nil {
		t.Fatalf("marshal connected: %v", err)
	}
	s = string(b)
	if strings.Contains(s, `"button"`) || strings.Contains(s, `"axis"`) || strings.Contains(s, `"value"`) {
		t.Fatalf("connected JSON carries payload fields: %s", s)
	}
}
