package physics

import fix "github.com/fbettag/why2025-badge-mode7-ble-racer/fixmath"

// Car holds the full dynamic state of one vehicle. All fields are
// fixed-point so the trajectory is bit-identical on both peers.
type Car struct {
	Position     fix.Vec2
	Velocity     fix.Vec2
	Acceleration fix.Vec2
	Heading      fix.Fixed
	AngularVel   fix.Fixed
	Speed        fix.Fixed
	Mass         fix.Fixed
	Drag         fix.Fixed
	Friction     fix.Fixed
}

// Reset places the car at a position and heading with zeroed dynamics.
func (c *Car) Reset(position fix.Vec2, heading fix.Fixed) {
	if c == nil {
		return
	}
	c.Position = position
	c.Velocity = fix.Vec2{}
	c.Acceleration = fix.Vec2{}
	c.Heading = heading
	c.AngularVel = 0
	c.Speed = 0
}

// ApplyForce accumulates a force into the car's acceleration (a = F/m).
func (c *Car) ApplyForce(force fix.Vec2) {
	if c == nil || c.Mass == 0 {
		return
	}
	inverseMass, err := fix.Div(fix.One, c.Mass)
	if err != nil {
		return
	}
	c.Acceleration = c.Acceleration.Add(force.Scale(inverseMass))
}

// ApplyTorque converts a torque to angular acceleration assuming unit
// moment arm (I = m).
func (c *Car) ApplyTorque(torque fix.Fixed) {
	if c == nil || c.Mass == 0 {
		return
	}
	delta, err := fix.Div(torque, c.Mass)
	if err != nil {
		return
	}
	c.AngularVel += delta
}

// Forward returns the unit heading vector.
func (c *Car) Forward() fix.Vec2 {
	if c == nil {
		return fix.Vec2{}
	}
	return fix.Vec2{X: fix.Cos(c.Heading), Y: fix.Sin(c.Heading)}
}

func (c *Car) integrateMotion(dt fix.Fixed) {
	c.Velocity = c.Velocity.Add(c.Acceleration.Scale(dt))
	c.Position = c.Position.Add(c.Velocity.Scale(dt))
	c.Heading += fix.Mul(c.AngularVel, dt)
	c.Speed = c.Velocity.Length()
	c.Acceleration = fix.Vec2{}
}

// applyFriction stages drag and friction forces. They land in the
// acceleration accumulator and take effect on the next integration step.
func (c *Car) applyFriction(dt fix.Fixed) {
	c.ApplyForce(c.Velocity.Scale(-c.Drag))
	c.ApplyForce(c.Velocity.Scale(-fix.Mul(c.Friction, c.Mass)))
	c.AngularVel = fix.Mul(c.AngularVel, fix.One-fix.Mul(angularDamping, dt))
}
