package physics

import (
	"testing"

	fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"
)

func TestTrackCollisionPushesCarBackInside(t *testing.T) {
	w := NewWorld(nil) // default 4-unit corridor
	w.Cars[0].Position = fix.Vec2{X: fix.FromInt(10), Y: 0}
	w.Cars[1].Position = fix.Vec2{X: 0, Y: fix.FromInt(-200)}

	w.resolveCollisions()

	got := w.Cars[0].Position.X
	if diff := fix.Abs(got - fix.FromInt(4)); diff > fix.FromFloat(0.01) {
		t.Fatalf("expected car pushed back to the wall at x=4, got %d", got)
	}
}

func TestTrackCollisionReflectsOutboundVelocity(t *testing.T) {
	w := NewWorld(nil)
	w.Cars[0].Position = fix.Vec2{X: fix.FromInt(10), Y: 0}
	w.Cars[0].Velocity = fix.Vec2{X: fix.FromInt(5), Y: 0}
	w.Cars[1].Position = fix.Vec2{X: 0, Y: fix.FromInt(-200)}

	w.resolveCollisions()

	v := w.Cars[0].Velocity.X
	if v >= 0 {
		t.Fatalf("outbound velocity should reflect inward, got %d", v)
	}
	want := -fix.FromFloat(3.75) // 5 u/s reflected and scaled by 0.75
	if diff := fix.Abs(v - want); diff > fix.FromFloat(0.05) {
		t.Fatalf("reflected velocity %d, want about %d", v, want)
	}
}

func TestTrackCollisionLeavesInboundVelocityAlone(t *testing.T) {
	w := NewWorld(nil)
	w.Cars[0].Position = fix.Vec2{X: fix.FromInt(10), Y: 0}
	w.Cars[0].Velocity = fix.Vec2{X: fix.FromInt(-5), Y: 0}
	w.Cars[1].Position = fix.Vec2{X: 0, Y: fix.FromInt(-200)}

	w.resolveCollisions()

	if got := w.Cars[0].Velocity.X; got != fix.FromInt(-5) {
		t.Fatalf("inbound velocity should be preserved, got %d", got)
	}
}

func TestCarCollisionSwapsVelocitiesAndSeparates(t *testing.T) {
	w := NewWorld(nil)
	w.WallDistance = fix.FromInt(1000)
	w.Cars[0].Position = fix.Vec2{X: 0, Y: 0}
	w.Cars[0].Velocity = fix.Vec2{X: fix.FromInt(3), Y: 0}
	w.Cars[1].Position = fix.Vec2{X: fix.FromInt(40), Y: 0}
	w.Cars[1].Velocity = fix.Vec2{X: fix.FromInt(-2), Y: 0}

	w.resolveCollisions()

	if got := w.Cars[0].Velocity.X; got != fix.FromInt(-2) {
		t.Fatalf("car 0 should take car 1's velocity, got %d", got)
	}
	if got := w.Cars[1].Velocity.X; got != fix.FromInt(3) {
		t.Fatalf("car 1 should take car 0's velocity, got %d", got)
	}

	gap := w.Cars[1].Position.Sub(w.Cars[0].Position).Length()
	if gap <= fix.FromInt(40) {
		t.Fatalf("cars should be pushed apart, separation %d", gap)
	}
}

func TestCarCollisionIgnoresDistantCars(t *testing.T) {
	w := NewWorld(nil)
	w.WallDistance = fix.FromInt(1000)
	w.Cars[0].Velocity = fix.Vec2{X: fix.FromInt(3), Y: 0}
	w.Cars[1].Position = fix.Vec2{X: fix.FromInt(500), Y: 0}

	w.resolveCollisions()

	if got := w.Cars[0].Velocity.X; got != fix.FromInt(3) {
		t.Fatalf("distant cars must not interact, got velocity %d", got)
	}
}

func TestRayCastHitsCorridorWall(t *testing.T) {
	// Default 4-unit corridor: the quadratic's 16.16 intermediate terms
	// stay inside int32 only for small radii.
	w := NewWorld(nil)

	origin := fix.Vec2{}
	direction := fix.Vec2{X: fix.One, Y: 0}
	hit, distance, ok := RayCast(origin, direction, fix.FromInt(200), w.WallDistance)
	if !ok {
		t.Fatalf("ray along +X from center must hit the wall")
	}
	if diff := fix.Abs(distance - fix.FromInt(4)); diff > fix.FromFloat(0.1) {
		t.Fatalf("expected hit near distance 4, got %d", distance)
	}
	if diff := fix.Abs(hit.X - fix.FromInt(4)); diff > fix.FromFloat(0.1) {
		t.Fatalf("expected hit near x=4, got %d", hit.X)
	}
}

func TestRayCastRespectsMaxDistance(t *testing.T) {
	w := NewWorld(nil)
	if _, _, ok := RayCast(fix.Vec2{}, fix.Vec2{X: fix.One}, fix.FromInt(2), w.WallDistance); ok {
		t.Fatalf("hit beyond maxDistance must be rejected")
	}
}

func TestClosestPointOnTrackClampsOutsidePositions(t *testing.T) {
	w := NewWorld(nil)
	inside := fix.Vec2{X: fix.FromInt(2), Y: 0}
	if got := w.ClosestPointOnTrack(inside); got != inside {
		t.Fatalf("inside positions should be unchanged, got %+v", got)
	}

	outside := fix.Vec2{X: fix.FromInt(10), Y: 0}
	clamped := w.ClosestPointOnTrack(outside)
	if diff := fix.Abs(clamped.X - fix.FromInt(4)); diff > fix.FromFloat(0.01) {
		t.Fatalf("outside position should clamp to the wall, got %+v", clamped)
	}

	if !w.IsPositionValid(inside) {
		t.Fatalf("position inside the corridor should be valid")
	}
	if w.IsPositionValid(outside) {
		t.Fatalf("position outside the corridor should be invalid")
	}
}
