// Package track defines the designer-authored track files: checkpoint
// rings, lap counts and the corridor wall radius. Files are JSON,
// validated against the schema emitted by cmd/trackschema. Coordinates
// are floats in the file and convert to fixed-point once at load time,
// so both peers loading the same file get identical world state.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/physics"
)

var (
	// ErrNoCheckpoints is returned for tracks without a checkpoint ring.
	ErrNoCheckpoints = errors.New("track: no checkpoints")
	// ErrTooManyCheckpoints is returned when the ring exceeds the
	// world's checkpoint capacity.
	ErrTooManyCheckpoints = errors.New("track: too many checkpoints")
)

// CheckpointSpec is one checkpoint in a track file.
type CheckpointSpec struct {
	X      float64 `json:"x" jsonschema:"required"`
	Y      float64 `json:"y" jsonschema:"required"`
	Radius float64 `json:"radius,omitempty" jsonschema:"minimum=0"`
}

// Definition is a complete track file.
type Definition struct {
	ID          uint8            `json:"id"`
	Name        string           `json:"name" jsonschema:"required"`
	TotalLaps   uint8            `json:"totalLaps,omitempty"`
	WallRadius  float64          `json:"wallRadius,omitempty" jsonschema:"minimum=0"`
	Checkpoints []CheckpointSpec `json:"checkpoints" jsonschema:"required"`
}

// Validate checks the definition against the world's limits.
func (d *Definition) Validate() error {
	if d == nil || len(d.Checkpoints) == 0 {
		return ErrNoCheckpoints
	}
	if len(d.Checkpoints) > physics.MaxCheckpoints {
		return fmt.Errorf("%w: %d > %d", ErrTooManyCheckpoints, len(d.Checkpoints), physics.MaxCheckpoints)
	}
	for i, cp := range d.Checkpoints {
		if cp.Radius < 0 {
			return fmt.Errorf("track: checkpoint %d has negative radius", i)
		}
	}
	if d.WallRadius < 0 {
		return fmt.Errorf("track: negative wall radius")
	}
	return nil
}

// Parse decodes and validates a track file.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("track: decode: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Load reads and parses a track file from disk.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("track: read %s: %w", path, err)
	}
	return Parse(data)
}

// PhysicsCheckpoints converts the ring to world checkpoints.
func (d *Definition) PhysicsCheckpoints() []physics.Checkpoint {
	if d == nil {
		return nil
	}
	checkpoints := make([]physics.Checkpoint, 0, len(d.Checkpoints))
	for _, cp := range d.Checkpoints {
		checkpoints = append(checkpoints, physics.Checkpoint{
			Position: fix.Vec2{X: fix.FromFloat(cp.X), Y: fix.FromFloat(cp.Y)},
			Radius:   fix.FromFloat(cp.Radius),
		})
	}
	return checkpoints
}

// Apply installs the track into a world: checkpoint ring and, when the
// file specifies one, the corridor wall radius.
func (d *Definition) Apply(w *physics.World) {
	if d == nil || w == nil {
		return
	}
	w.SetCheckpoints(d.PhysicsCheckpoints())
	if d.WallRadius > 0 {
		w.WallDistance = fix.FromFloat(d.WallRadius)
	}
}

// Default is the built-in circuit: four checkpoints on a radius-200
// circle at quarter-turn spacing. Positions come from the sine tables,
// so the ring is bit-identical on every build.
func Default() Definition {
	const ringRadius = 200
	checkpoints := make([]CheckpointSpec, 4)
	for i := range checkpoints {
		angle := fix.Fixed(i) * fix.Half
		checkpoints[i] = CheckpointSpec{
			X:      fix.ToFloat(fix.Mul(fix.FromInt(ringRadius), fix.Cos(angle))),
			Y:      fix.ToFloat(fix.Mul(fix.FromInt(ringRadius), fix.Sin(angle))),
			Radius: 10,
		}
	}
	return Definition{
		ID:          0,
		Name:        "Circuit",
		TotalLaps:   3,
		WallRadius:  300,
		Checkpoints: checkpoints,
	}
}

// builtins is the registry of tracks shipped with the binary.
var builtins = func() map[uint8]Definition {
	circuit := Default()

	oval := Definition{
		ID:         1,
		Name:       "Oval",
		TotalLaps:  5,
		WallRadius: 260,
		Checkpoints: []CheckpointSpec{
			{X: 240, Y: 0, Radius: 12},
			{X: 0, Y: 120, Radius: 12},
			{X: -240, Y: 0, Radius: 12},
			{X: 0, Y: -120, Radius: 12},
		},
	}

	gauntlet := Definition{
		ID:         2,
		Name:       "Gauntlet",
		TotalLaps:  2,
		WallRadius: 320,
		Checkpoints: []CheckpointSpec{
			{X: 150, Y: 0, Radius: 8},
			{X: 220, Y: 150, Radius: 8},
			{X: 0, Y: 250, Radius: 8},
			{X: -220, Y: 150, Radius: 8},
			{X: -150, Y: 0, Radius: 8},
			{X: 0, Y: -200, Radius: 8},
		},
	}

	return map[uint8]Definition{
		circuit.ID:  circuit,
		oval.ID:     oval,
		gauntlet.ID: gauntlet,
	}
}()

// ByID looks up a built-in track.
func ByID(id uint8) (Definition, bool) {
	def, ok := builtins[id]
	return def, ok
}
