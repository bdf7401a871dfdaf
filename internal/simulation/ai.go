package simulation

import (
	"math"

	"hitbit/internal/shared/types"
)

// Decide computes the next control input for the CPU vehicle at index self
// by chasing the nearest opponent still on the platform.
//
// The search is seeded with the lowest index other than self and only
// replaced by strictly closer vehicles that have not fallen, so a fallen
// seed can win when nobody active is closer. That case makes the CPU brake.
func Decide(vehicles []VehicleState, self int) types.ControlInput {
	if len(vehicles) < 2 {
		return types.ControlInput{}
	}
	me := &vehicles[self]

	nearest := 0
	if self == 0 {
		nearest = 1
	}
	best := me.Position.Distance(vehicles[nearest].Position)
	for j := range vehicles {
		if j == self || vehicles[j].Fallen() {
			continue
		}
		if d := me.Position.Distance(vehicles[j].Position); d < best {
			nearest, best = j, d
		}
	}

	offset := vehicles[nearest].Position.Sub(me.Position)
	if offset.Norm() == 0 {
		return types.ControlInput{}
	}
	toNearest := offset.Direction()
	align := me.Direction.Dot(toNearest)
	cross := me.Direction.Cross(toNearest).Z

	var in types.ControlInput
	if vehicles[nearest].Fallen() {
		in.Brake = true
	} else {
		in.Accelerate = math.Abs(cross) < AIAlignCross && align > 0
	}

	switch {
	case cross > AITurnDeadZone:
		in.TurnLeft = true
	case cross < -AITurnDeadZone:
		in.TurnRight = true
	}
	return in
}
