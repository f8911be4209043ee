package gamepad_test

import (
	"testing"

	"github.com/soar/inputcore/internal/gamepad"
)

func TestUUIDDerivedFromContent(t *testing.T) {
	a := gamepad.NewRegistry(gamepad.Options{})
	b := gamepad.NewRegistry(gamepad.Options{})

	// Same physical device, different process: same UUID, no persisted state.
	idA := mustAttach(t, a, 1, testMeta("serial-a"))
	idB := mustAttach(t, b, 42, testMeta("serial-a"))
	if a.Get(idA).UUID() != b.Get(idB).UUID() {
		t.Fatal("same device metadata produced different UUIDs")
	}
	if a.Get(idA).UUIDConfidence() != gamepad.UUIDStrong {
		t.Fatal("serial-backed UUID not flagged strong")
	}

	other := mustAttach(t, a, 2, testMeta("serial-b"))
	if a.Get(idA).UUID() == a.Get(other).UUID() {
		t.Fatal("different serials produced the same UUID")
	}
}

func TestSerialLessDeviceFlaggedWeak(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	id := mustAttach(t, r, 1, testMeta(""))
	if r.Get(id).UUIDConfidence() != gamepad.UUIDWeak {
		t.Fatal("serial-less UUID not flagged weak")
	}
}

// A serial with no vendor/product ids is still enough for a stable,
// strong identity.
func TestSerialWithoutVendorProductStillStrong(t *testing.T) {
	a := gamepad.NewRegistry(gamepad.Options{})
	b := gamepad.NewRegistry(gamepad.Options{})

	meta := gamepad.Metadata{Name: "BT Pad", Serial: "aa:bb:cc:dd:ee:ff"}
	idA := mustAttach(t, a, 1, meta)
	idB := mustAttach(t, b, 42, meta)
	if a.Get(idA).UUID() != b.Get(idB).UUID() {
		t.Fatal("serial-only device produced different UUIDs")
	}
	if a.Get(idA).UUIDConfidence() != gamepad.UUIDStrong {
		t.Fatal("serial-only UUID not flagged strong")
	}
}

func TestNoMetadataStillGetsID(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	id, err := r.OnAttach(1, gamepad.Metadata{Name: "Mystery Device"})
	if err != nil {
		t.Fatalf("OnAttach: %v", err)
	}
	g := r.Get(id)
	if g == nil || g.UUIDConfidence() != gamepad.UUIDWeak {
		t.Fatalf("metadata-less device: %v", g)
	}
}

// Under the default weak policy a serial-less device reclaims its slot on
// reconnect; under strict it always attaches as a new gamepad.
func TestUUIDFallbackPolicy(t *testing.T) {
	weak := gamepad.NewRegistry(gamepad.Options{UUIDFallback: gamepad.FallbackWeak})
	id := mustAttach(t, weak, 1, testMeta(""))
	weak.OnDetach(1)
	if again := mustAttach(t, weak, 2, testMeta("")); again != id {
		t.Fatalf("weak policy: reattach id = %d, want %d", again, id)
	}

	strict := gamepad.NewRegistry(gamepad.Options{UUIDFallback: gamepad.FallbackStrict})
	id = mustAttach(t, strict, 1, testMeta(""))
	strict.OnDetach(1)
	drain(strict)
	if again := mustAttach(t, strict, 2, testMeta("")); again == id {
		t.Fatal("strict policy matched a weak UUID across reconnect")
	}
}

// Two identical serial-less devices connected at once must not collapse
// into one slot even though their weak UUIDs collide.
func TestDuplicateWeakUUIDsGetSeparateSlots(t *testing.T) {
	r := gamepad.NewRegistry(gamepad.Options{})
	first := mustAttach(t, r, 1, testMeta(""))
	second := mustAttach(t, r, 2, testMeta(""))
	if first == second {
		t.Fatal("two connected devices share a gamepad id")
	}
	if r.Get(first).Status() != gamepad.StatusConnected || r.Get(second).Status() != gamepad.StatusConnected {
		t.Fatal("both devices should be connected")
	}
}
