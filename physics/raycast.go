package physics

import fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"

// RayCast intersects a ray with the circular corridor wall. It returns
// the hit point and distance along the ray, or ok=false when the ray
// misses or the hit lies beyond maxDistance.
func RayCast(origin, direction fix.Vec2, maxDistance, wallDistance fix.Fixed) (hitPoint fix.Vec2, distance fix.Fixed, ok bool) {
	a := direction.Dot(direction)
	if a == 0 {
		return fix.Vec2{}, 0, false
	}

	b := fix.Mul(fix.Two, origin.Dot(direction))
	c := origin.Dot(origin) - fix.Mul(wallDistance, wallDistance)

	discriminant := fix.Mul(b, b) - fix.Mul(fix.FromInt(4), fix.Mul(a, c))
	if discriminant < 0 {
		return fix.Vec2{}, 0, false
	}

	sqrtDisc := fix.Sqrt(discriminant)
	denom := fix.Mul(fix.Two, a)
	t1, err := fix.Div(-b-sqrtDisc, denom)
	if err != nil {
		return fix.Vec2{}, 0, false
	}
	t2, err := fix.Div(-b+sqrtDisc, denom)
	if err != nil {
		return fix.Vec2{}, 0, false
	}

	t := t1
	if t2 < t {
		t = t2
	}
	if t < 0 {
		t = t2
	}
	if t < 0 || t > maxDistance {
		return fix.Vec2{}, 0, false
	}

	return origin.Add(direction.Scale(t)), t, true
}

// DistanceToWall casts a ray along the heading and reports how far the
// wall is, saturating at the wall radius.
func (w *World) DistanceToWall(position fix.Vec2, heading fix.Fixed) fix.Fixed {
	if w == nil {
		return 0
	}
	direction := fix.Vec2{X: fix.Cos(heading), Y: fix.Sin(heading)}
	if _, distance, ok := RayCast(position, direction, w.WallDistance, w.WallDistance); ok {
		return distance
	}
	return w.WallDistance
}

// ClosestPointOnTrack clamps a position to the corridor boundary.
func (w *World) ClosestPointOnTrack(position fix.Vec2) fix.Vec2 {
	if w == nil {
		return position
	}
	distance := position.Length()
	if distance <= w.WallDistance {
		return position
	}
	inverse, err := fix.Div(fix.One, distance)
	if err != nil {
		return position
	}
	return position.Scale(inverse).Scale(w.WallDistance)
}

// IsPositionValid reports whether a position lies inside the corridor.
func (w *World) IsPositionValid(position fix.Vec2) bool {
	if w == nil {
		return false
	}
	return position.Length() <= w.WallDistance
}
