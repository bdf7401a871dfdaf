package simulation

import (
	"math"

	"hitbit/internal/shared/types"
)

// VehicleState is one vehicle's dynamic state. Elimination is a state
// derived from depth, never a removal from the roster.
type VehicleState struct {
	Name      string
	IsCPU     bool
	Direction types.Vec3 // unit heading, z = 0 while on the platform
	Position  types.Vec3
	Velocity  types.Vec3
	Profile   VehicleProfile
	Input     types.ControlInput
}

// Fallen reports whether the vehicle has dropped below the platform surface.
func (v *VehicleState) Fallen() bool {
	return v.Position.Z < 0
}

// Inert reports whether the vehicle has sunk past the elimination depth.
func (v *VehicleState) Inert() bool {
	return v.Position.Z < EliminationDepth
}

// Alive is the survivor-count predicate.
func (v *VehicleState) Alive() bool {
	return v.Position.Z > EliminationDepth
}

// Speed is the magnitude of the velocity.
func (v *VehicleState) Speed() float64 {
	return v.Velocity.Norm()
}

// Heading is the heading angle in radians.
func (v *VehicleState) Heading() float64 {
	return math.Atan2(v.Direction.Y, v.Direction.X)
}

func (v *VehicleState) snapshot(slot int) types.VehicleSnapshot {
	return types.VehicleSnapshot{
		Slot:      slot,
		Name:      v.Name,
		IsCPU:     v.IsCPU,
		Position:  v.Position,
		Velocity:  v.Velocity,
		Direction: v.Direction,
		Radius:    v.Profile.Radius,
		Profile:   v.Profile.Key,
		Fallen:    v.Fallen(),
		Active:    !v.Inert(),
	}
}
