package simulation

// Overlapping reports whether two discs touch or intersect.
func Overlapping(a, b *VehicleState) bool {
	return a.Position.Distance(b.Position) <= a.Profile.Radius+b.Profile.Radius
}

// Resolve applies a single elastic impulse along the raw center-to-center
// axis when the discs overlap. Positions are never corrected, so discs may
// stay interpenetrated for a few frames. The axis is not normalized, so
// the response grows with the separation at contact.
func Resolve(a, b *VehicleState) bool {
	if !Overlapping(a, b) {
		return false
	}

	c := b.Position.Sub(a.Position)
	relVel := a.Velocity.Sub(b.Velocity)
	bounce := 1 + a.Profile.Restitution*b.Profile.Restitution
	s := c.Scale(relVel.Dot(c) * bounce / (a.Profile.Mass + b.Profile.Mass))

	a.Velocity = a.Velocity.Sub(s.Scale(b.Profile.Mass))
	b.Velocity = b.Velocity.Add(s.Scale(a.Profile.Mass))
	return true
}
