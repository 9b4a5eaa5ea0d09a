package physics

import fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"

// CheckTrackCollision tests a position against the circular corridor
// wall at the given radius. On contact it returns the outward unit
// normal and penetration depth.
func CheckTrackCollision(position fix.Vec2, wallDistance fix.Fixed) (normal fix.Vec2, penetration fix.Fixed, hit bool) {
	distance := position.Length()
	if distance <= wallDistance {
		return fix.Vec2{}, 0, false
	}
	inverse, err := fix.Div(fix.One, distance)
	if err != nil {
		return fix.Vec2{}, 0, false
	}
	return position.Scale(inverse), distance - wallDistance, true
}

// CheckCarCollision reports whether two cars' bounding circles overlap.
func CheckCarCollision(a, b *Car) bool {
	if a == nil || b == nil {
		return false
	}
	delta := a.Position.Sub(b.Position)
	distanceSquared := delta.Dot(delta)
	return distanceSquared < fix.Mul(carContactDistance, carContactDistance)
}

// CheckCheckpointCollision reports whether the car is inside an unpassed
// checkpoint's radius.
func CheckCheckpointCollision(car *Car, checkpoint *Checkpoint) bool {
	if car == nil || checkpoint == nil || checkpoint.Passed {
		return false
	}
	delta := car.Position.Sub(checkpoint.Position)
	distanceSquared := delta.Dot(delta)
	radiusSquared := fix.Mul(checkpoint.Radius, checkpoint.Radius)
	return distanceSquared < radiusSquared
}

// resolveCollisions pushes cars back inside the corridor, reflecting
// their velocity about the wall normal, then resolves car-car contacts
// with an equal-mass velocity swap and a fixed separation push.
func (w *World) resolveCollisions() {
	for i := range w.Cars {
		car := &w.Cars[i]
		normal, penetration, hit := CheckTrackCollision(car.Position, w.WallDistance)
		if !hit {
			continue
		}
		car.Position = car.Position.Sub(normal.Scale(penetration))
		normalVel := car.Velocity.Dot(normal)
		if normalVel > 0 {
			reflected := car.Velocity.Sub(normal.Scale(fix.Mul(fix.Two, normalVel)))
			car.Velocity = reflected.Scale(CollisionElasticity)
		}
	}

	for i := 0; i < MaxCars; i++ {
		for j := i + 1; j < MaxCars; j++ {
			a, b := &w.Cars[i], &w.Cars[j]
			if !CheckCarCollision(a, b) {
				continue
			}
			a.Velocity, b.Velocity = b.Velocity, a.Velocity

			delta := a.Position.Sub(b.Position)
			length := delta.Length()
			if length == 0 {
				continue
			}
			inverse, err := fix.Div(fix.One, length)
			if err != nil {
				continue
			}
			direction := delta.Scale(inverse)
			a.Position = a.Position.Add(direction.Scale(carSeparationPush))
			b.Position = b.Position.Sub(direction.Scale(carSeparationPush))
		}
	}
}
