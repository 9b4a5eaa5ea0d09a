package netcode

import (
	"testing"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/physics"
)

func TestSnapshotRecordAndRestore(t *testing.T) {
	ring := NewSnapshotRing()
	w := physics.NewWorld(nil)
	w.Cars[0].Position = fix.Vec2{X: fix.FromInt(7)}

	ring.Record(12, w)

	// Mutating the live world must not touch the snapshot.
	w.Cars[0].Position.X = 0

	snap, ok := ring.Restore(12)
	if !ok {
		t.Fatalf("recorded frame must restore")
	}
	if got := snap.Cars[0].Position.X; got != fix.FromInt(7) {
		t.Fatalf("snapshot position = %d, want %d", got, fix.FromInt(7))
	}
	if _, ok := ring.Restore(13); ok {
		t.Fatalf("unrecorded frame must not restore")
	}
}

func TestSnapshotSlotReuseInvalidatesOldFrame(t *testing.T) {
	ring := NewSnapshotRing()
	w := physics.NewWorld(nil)

	ring.Record(6, w)
	ring.Record(6+HistoryCapacity, w) // same slot

	if _, ok := ring.Restore(6); ok {
		t.Fatalf("overwritten slot must not restore the old frame")
	}
	if _, ok := ring.Restore(6 + HistoryCapacity); !ok {
		t.Fatalf("new frame in the reused slot must restore")
	}
}

func TestSnapshotNearestAtOrBefore(t *testing.T) {
	ring := NewSnapshotRing()
	w := physics.NewWorld(nil)
	for _, frame := range []uint32{10, 20, 30} {
		w.Frame = frame
		ring.Record(frame, w)
	}

	snap, frame, ok := ring.NearestAtOrBefore(25)
	if !ok || frame != 20 {
		t.Fatalf("nearest at or before 25: frame %d ok=%v, want 20", frame, ok)
	}
	if snap.Frame != 20 {
		t.Fatalf("restored world carries frame %d, want 20", snap.Frame)
	}

	if _, _, ok := ring.NearestAtOrBefore(5); ok {
		t.Fatalf("no snapshot exists at or before 5")
	}
}

func TestSnapshotResetDiscardsAll(t *testing.T) {
	ring := NewSnapshotRing()
	ring.Record(1, physics.NewWorld(nil))
	ring.Reset()
	if _, ok := ring.Restore(1); ok {
		t.Fatalf("reset must discard snapshots")
	}
}
