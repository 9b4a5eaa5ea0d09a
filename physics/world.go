// Package physics implements the deterministic vehicle simulation: force
// integration, drag and friction, track and car collisions, and
// checkpoint/lap progression. Everything cross-peer-visible runs on the
// fixmath kernel; native floats appear only at the input boundary.
package physics

import (
	"context"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging"
	"github.com/fbettag/why2025-badge-mode7-ble-racer/logging/race"
)

const (
	// EventInvalidUpdate flags an Update call with invalid arguments.
	EventInvalidUpdate logging.EventType = "physics.invalid_update"
	// EventInvalidInput flags a HandleInput call with invalid arguments.
	EventInvalidInput logging.EventType = "physics.invalid_input"
)

// Checkpoint is a circular trigger volume on the track.
type Checkpoint struct {
	Position fix.Vec2
	Radius   fix.Fixed
	Passed   bool
	Index    uint8
}

// World owns the cars, checkpoints and per-car race bookkeeping. It is a
// plain value type: copying a World captures a complete snapshot, which
// is what the rollback layer relies on.
type World struct {
	Cars              [MaxCars]Car
	Checkpoints       [MaxCheckpoints]Checkpoint
	CheckpointCount   int
	CurrentCheckpoint [MaxCars]uint8
	RaceTimeMillis    [MaxCars]uint32
	RaceFinished      [MaxCars]bool
	LapCount          [MaxCars]uint8
	WallDistance      fix.Fixed
	Frame             uint32

	publisher logging.Publisher
}

// NewWorld constructs a world with default car tuning and the circular
// corridor wall. Checkpoints come from the track layer.
func NewWorld(publisher logging.Publisher) *World {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := &World{
		WallDistance: DefaultWallDistance,
		publisher:    publisher,
	}
	for i := range w.Cars {
		w.Cars[i].Mass = DefaultCarMass
		w.Cars[i].Drag = DragCoefficient
		w.Cars[i].Friction = FrictionCoefficient
	}
	return w
}

// SetPublisher replaces the event publisher. Used after restoring a
// snapshot taken from a world wired to a different sink set.
func (w *World) SetPublisher(publisher logging.Publisher) {
	if w == nil {
		return
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w.publisher = publisher
}

// SetCheckpoints installs the track's checkpoint ring, clamped to
// MaxCheckpoints.
func (w *World) SetCheckpoints(checkpoints []Checkpoint) {
	if w == nil {
		return
	}
	count := len(checkpoints)
	if count > MaxCheckpoints {
		count = MaxCheckpoints
	}
	for i := 0; i < count; i++ {
		w.Checkpoints[i] = checkpoints[i]
		w.Checkpoints[i].Index = uint8(i)
		w.Checkpoints[i].Passed = false
		if w.Checkpoints[i].Radius == 0 {
			w.Checkpoints[i].Radius = DefaultCheckpointRadius
		}
	}
	w.CheckpointCount = count
}

// Update advances every unfinished car by exactly dt, then resolves
// collisions. The per-car order (integrate, friction, checkpoints, race
// timer) and the collision pass after the loop must not be reordered:
// both peers replay this sequence during rollback.
func (w *World) Update(dt fix.Fixed) {
	if w == nil {
		return
	}
	if dt <= 0 {
		w.publishInvalid(EventInvalidUpdate, map[string]any{"dt": int32(dt)})
		return
	}
	w.Frame++

	for i := range w.Cars {
		if w.RaceFinished[i] {
			continue
		}
		car := &w.Cars[i]
		car.integrateMotion(dt)
		car.applyFriction(dt)
		w.updateCheckpointProgress(i)
		w.RaceTimeMillis[i] += uint32((int64(dt) * 1000) >> 16)
	}

	w.resolveCollisions()
}

// HandleInput converts normalized driver input into engine, brake and
// steering forces on the indexed car. Inputs are clamped; the steering
// torque shrinks with speed, and the denominator is biased by One so it
// can never reach zero.
func (w *World) HandleInput(carIndex int, throttle, brake, steering float64, dt fix.Fixed) {
	if w == nil {
		return
	}
	if carIndex < 0 || carIndex >= MaxCars {
		w.publishInvalid(EventInvalidInput, map[string]any{"car": carIndex})
		return
	}

	throttle = clampFloat(throttle, 0, 1)
	brake = clampFloat(brake, 0, 1)
	steering = clampFloat(steering, -1, 1)

	fpThrottle := fix.FromFloat(throttle)
	fpBrake := fix.FromFloat(brake)
	fpSteering := fix.FromFloat(steering)

	car := &w.Cars[carIndex]

	engineForce := fix.Mul(EngineAcceleration, fpThrottle)
	brakeForce := fix.Mul(BrakingForce, fpBrake)

	speedFactor, err := fix.Div(MaxSpeed, car.Speed+MaxSpeed+fix.One)
	if err != nil {
		w.publishInvalid(EventInvalidInput, map[string]any{"car": carIndex, "speed": int32(car.Speed)})
		return
	}
	steeringTorque := fix.Mul(fix.Mul(TurnRadius, fpSteering), speedFactor)

	forward := car.Forward()
	car.ApplyForce(forward.Scale(engineForce))
	car.ApplyForce(forward.Scale(-brakeForce))
	car.ApplyTorque(steeringTorque)
}

// StartRace clears timers, finish flags, cursors and checkpoint state.
func (w *World) StartRace() {
	if w == nil {
		return
	}
	for i := 0; i < MaxCars; i++ {
		w.RaceTimeMillis[i] = 0
		w.RaceFinished[i] = false
		w.CurrentCheckpoint[i] = 0
		w.LapCount[i] = 0
	}
	for i := 0; i < w.CheckpointCount; i++ {
		w.Checkpoints[i].Passed = false
	}
}

// ResetRace restarts the race and returns cars to staggered grid slots.
func (w *World) ResetRace() {
	if w == nil {
		return
	}
	w.StartRace()
	for i := 0; i < MaxCars; i++ {
		start := fix.Vec2{X: 0, Y: fix.FromInt(int32(-i * 100))}
		w.Cars[i].Reset(start, 0)
	}
}

// CheckRaceFinished reports whether the car has completed the race,
// latching the finished flag when every checkpoint is passed.
func (w *World) CheckRaceFinished(carIndex int) bool {
	if w == nil || carIndex < 0 || carIndex >= MaxCars {
		return false
	}
	if w.RaceFinished[carIndex] {
		return true
	}
	if w.CheckpointCount == 0 {
		return false
	}
	for i := 0; i < w.CheckpointCount; i++ {
		if !w.Checkpoints[i].Passed {
			return false
		}
	}
	w.finishRace(carIndex)
	return true
}

func (w *World) finishRace(carIndex int) {
	w.RaceFinished[carIndex] = true
	race.Finished(context.Background(), w.publisher, w.Frame,
		logging.EntityRef{ID: carID(carIndex), Kind: logging.EntityKindCar},
		race.FinishPayload{Car: carIndex, TimeMillis: w.RaceTimeMillis[carIndex]})
}

// updateCheckpointProgress advances the cursor when the car is inside
// its next expected checkpoint. Crossing the last checkpoint completes
// the lap: the cursor wraps, passed flags clear, and — since completion
// is defined as all checkpoints passed — the car finishes.
func (w *World) updateCheckpointProgress(carIndex int) {
	current := w.CurrentCheckpoint[carIndex]
	if int(current) >= w.CheckpointCount {
		return
	}
	car := &w.Cars[carIndex]
	checkpoint := &w.Checkpoints[current]
	if !CheckCheckpointCollision(car, checkpoint) {
		return
	}

	checkpoint.Passed = true
	w.CurrentCheckpoint[carIndex]++
	actor := logging.EntityRef{ID: carID(carIndex), Kind: logging.EntityKindCar}
	race.CheckpointPassed(context.Background(), w.publisher, w.Frame, actor,
		race.CheckpointPayload{Car: carIndex, Checkpoint: current, Lap: w.LapCount[carIndex]})

	if int(w.CurrentCheckpoint[carIndex]) >= w.CheckpointCount {
		if !w.RaceFinished[carIndex] {
			w.finishRace(carIndex)
		}
		w.LapCount[carIndex]++
		w.CurrentCheckpoint[carIndex] = 0
		for i := 0; i < w.CheckpointCount; i++ {
			w.Checkpoints[i].Passed = false
		}
		race.LapCompleted(context.Background(), w.publisher, w.Frame, actor,
			race.CheckpointPayload{Car: carIndex, Checkpoint: current, Lap: w.LapCount[carIndex]})
	}
}

func (w *World) publishInvalid(eventType logging.EventType, extra map[string]any) {
	w.publisher.Publish(context.Background(), logging.Event{
		Type:     eventType,
		Frame:    w.Frame,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryPhysics,
		Extra:    extra,
	})
}

func carID(index int) string {
	if index == 0 {
		return "car-0"
	}
	return "car-1"
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
