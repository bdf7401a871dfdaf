package simulation

import (
	"math"

	"hitbit/internal/shared/types"
)

// Integrate advances one vehicle in place over dt seconds, split into
// SubSteps equal sub-steps, then applies its control input.
func Integrate(v *VehicleState, halfExtent, dt float64) {
	subDt := dt / SubSteps

	for range SubSteps {
		if offPlatform(v.Position, halfExtent) {
			v.Velocity.Z -= Gravity * subDt
		} else {
			decelerate(v, GroundDragFactor*Gravity*subDt)
		}
		v.Position = v.Position.Add(v.Velocity.Scale(subDt))
		settle(v)
	}

	// A vehicle over the edge cannot steer itself back.
	if offPlatform(v.Position, halfExtent) {
		v.Input = types.ControlInput{}
	}

	if v.Input.Accelerate {
		accelerate(v)
	}
	if v.Input.Brake {
		brake(v, subDt)
	}
	if v.Input.TurnLeft {
		turn(v, v.Profile.TurnRate)
	}
	if v.Input.TurnRight {
		turn(v, -v.Profile.TurnRate)
	}
	settle(v)
}

func offPlatform(p types.Vec3, halfExtent float64) bool {
	return math.Abs(p.X) > halfExtent || math.Abs(p.Y) > halfExtent
}

// decelerate removes up to amount of speed along the current velocity
// direction. The cap keeps a single step from reversing the motion.
func decelerate(v *VehicleState, amount float64) {
	speed := v.Velocity.Norm()
	if speed <= 0 {
		return
	}
	if amount > speed {
		amount = speed
	}
	v.Velocity = v.Velocity.Sub(v.Velocity.Scale(1 / speed).Scale(amount))
}

func settle(v *VehicleState) {
	if v.Velocity.Norm() < RestSpeed {
		v.Velocity = types.Vec3{}
	}
}

// aheadSpeed is the forward component of velocity, never negative.
func aheadSpeed(v *VehicleState) float64 {
	return math.Max(v.Direction.Dot(v.Velocity), 0)
}

// accelerate applies one tick's worth of drive impulse.
func accelerate(v *VehicleState) {
	if aheadSpeed(v) < v.Profile.TopSpeed {
		v.Velocity = v.Velocity.Add(v.Direction.Scale(v.Profile.DriveForce / v.Profile.Mass))
	}
}

func brake(v *VehicleState, subDt float64) {
	decel := v.Profile.DriveForce / v.Profile.Mass * BrakeFactor * subDt
	for range SubSteps {
		decelerate(v, decel)
	}
}

// turn rotates the heading by delta radians; positive is left.
func turn(v *VehicleState, delta float64) {
	angle := v.Heading() + delta
	v.Direction = types.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
}
