package fixmath

// Vec2 is a 2D vector of fixed-point components.
type Vec2 struct {
	X Fixed
	Y Fixed
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s Fixed) Vec2 {
	return Vec2{Mul(v.X, s), Mul(v.Y, s)}
}

// Dot returns the dot product of a and b.
func (a Vec2) Dot(b Vec2) Fixed {
	return Mul(a.X, b.X) + Mul(a.Y, b.Y)
}

// Length returns the magnitude of v.
func (v Vec2) Length() Fixed {
	return Sqrt(Mul(v.X, v.X) + Mul(v.Y, v.Y))
}
