package track

import (
	"errors"
	"math"
	"testing"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/physics"
)

func TestParseValidTrack(t *testing.T) {
	data := []byte(`{
		"id": 7,
		"name": "Test Loop",
		"totalLaps": 2,
		"wallRadius": 250,
		"checkpoints": [
			{"x": 100, "y": 0, "radius": 5},
			{"x": 0, "y": 100, "radius": 5},
			{"x": -100, "y": 0, "radius": 5}
		]
	}`)
	def, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Name != "Test Loop" || len(def.Checkpoints) != 3 {
		t.Fatalf("parsed definition %+v", def)
	}
}

func TestParseRejectsEmptyRing(t *testing.T) {
	_, err := Parse([]byte(`{"name": "Empty", "checkpoints": []}`))
	if !errors.Is(err, ErrNoCheckpoints) {
		t.Fatalf("expected ErrNoCheckpoints, got %v", err)
	}
}

func TestParseRejectsOversizedRing(t *testing.T) {
	data := []byte(`{"name": "Huge", "checkpoints": [`)
	for i := 0; i <= physics.MaxCheckpoints; i++ {
		if i > 0 {
			data = append(data, ',')
		}
		data = append(data, []byte(`{"x": 1, "y": 1}`)...)
	}
	data = append(data, []byte(`]}`)...)

	_, err := Parse(data)
	if !errors.Is(err, ErrTooManyCheckpoints) {
		t.Fatalf("expected ErrTooManyCheckpoints, got %v", err)
	}
}

func TestParseRejectsNegativeRadius(t *testing.T) {
	_, err := Parse([]byte(`{"name": "Bad", "checkpoints": [{"x": 0, "y": 0, "radius": -1}]}`))
	if err == nil {
		t.Fatalf("negative radius must be rejected")
	}
}

func TestDefaultRingGeometry(t *testing.T) {
	def := Default()
	if len(def.Checkpoints) != 4 {
		t.Fatalf("default ring has %d checkpoints, want 4", len(def.Checkpoints))
	}
	want := [][2]float64{{200, 0}, {0, 200}, {-200, 0}, {0, -200}}
	for i, cp := range def.Checkpoints {
		if math.Abs(cp.X-want[i][0]) > 0.01 || math.Abs(cp.Y-want[i][1]) > 0.01 {
			t.Fatalf("checkpoint %d at (%v,%v), want (%v,%v)", i, cp.X, cp.Y, want[i][0], want[i][1])
		}
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("default track must validate: %v", err)
	}
}

func TestApplyInstallsRingAndWall(t *testing.T) {
	def := Default()
	w := physics.NewWorld(nil)
	def.Apply(w)

	if w.CheckpointCount != 4 {
		t.Fatalf("world has %d checkpoints, want 4", w.CheckpointCount)
	}
	if w.WallDistance != fix.FromInt(300) {
		t.Fatalf("wall distance = %d, want %d", w.WallDistance, fix.FromInt(300))
	}
	if got := w.Checkpoints[0].Position.X; got != fix.FromInt(200) {
		t.Fatalf("checkpoint 0 X = %d, want %d", got, fix.FromInt(200))
	}
}

func TestBuiltinRegistry(t *testing.T) {
	for _, id := range []uint8{0, 1, 2} {
		def, ok := ByID(id)
		if !ok {
			t.Fatalf("builtin track %d missing", id)
		}
		if err := def.Validate(); err != nil {
			t.Fatalf("builtin track %d invalid: %v", id, err)
		}
	}
	if _, ok := ByID(200); ok {
		t.Fatalf("unknown track id must not resolve")
	}
}
