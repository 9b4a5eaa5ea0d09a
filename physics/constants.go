package physics

import fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"

const (
	// MaxCars is the number of simulated vehicles in a session.
	MaxCars = 2
	// MaxCheckpoints bounds the checkpoints a track may define.
	MaxCheckpoints = 16
)

// Tuning constants for the vehicle model, in 16.16 fixed-point. The
// values must be identical on both peers; changing any of them is a
// protocol-breaking change.
var (
	FrictionCoefficient = fix.FromFloat(0.85)
	DragCoefficient     = fix.FromFloat(0.15)
	MaxSpeed            = fix.FromInt(20)
	EngineAcceleration  = fix.FromFloat(1.5)
	BrakingForce        = fix.FromInt(3)
	TurnRadius          = fix.FromInt(5)
	CollisionElasticity = fix.FromFloat(0.75)

	// DefaultWallDistance is the radius of the circular track corridor.
	// Tracks may widen it; see World.WallDistance.
	DefaultWallDistance = fix.FromInt(4)
	// DefaultCheckpointRadius is used when a track omits one.
	DefaultCheckpointRadius = fix.One

	// DefaultCarMass is the per-car mass in fixed-point kilograms.
	DefaultCarMass = fix.FromInt(1000)

	// carContactDistance is the combined bounding-circle distance below
	// which two cars are considered touching.
	carContactDistance = fix.FromInt(100)
	// carSeparationPush is the distance cars are pushed apart along
	// their center line after contact.
	carSeparationPush = fix.FromInt(50)

	// angularDamping scales angular velocity decay per unit dt.
	angularDamping = fix.One / 10
)
