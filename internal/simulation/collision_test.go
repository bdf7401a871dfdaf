package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hitbit/internal/shared/types"
)

func TestResolveEqualMassElasticSwap(t *testing.T) {
	elastic := VehicleProfile{Key: "elastic", Mass: 200, Radius: 1, Restitution: 1}
	a := newVehicle(elastic, types.Vec3{X: -0.5}, types.Vec3{X: 5})
	b := newVehicle(elastic, types.Vec3{X: 0.5}, types.Vec3{X: -5})

	assert.True(t, Resolve(&a, &b))
	assert.InDelta(t, -5.0, a.Velocity.X, 1e-12)
	assert.InDelta(t, 5.0, b.Velocity.X, 1e-12)
}

func TestResolveRawAxisImpulse(t *testing.T) {
	wide := VehicleProfile{Key: "wide", Mass: 200, Radius: 1.5, Restitution: 0.6}
	a := newVehicle(wide, types.Vec3{X: -1.5}, types.Vec3{X: 5})
	b := newVehicle(wide, types.Vec3{X: 1.5}, types.Vec3{X: -5})

	// c = (3,0,0): s.x = 3 * 30 * 1.36 / 400 = 0.306
	assert.True(t, Resolve(&a, &b))
	assert.InDelta(t, -56.2, a.Velocity.X, 1e-9)
	assert.InDelta(t, 56.2, b.Velocity.X, 1e-9)
	assert.Zero(t, a.Velocity.Y)
	assert.Zero(t, b.Velocity.Y)
}

func TestResolveSeparatedIsNoop(t *testing.T) {
	a := newVehicle(Balance, types.Vec3{X: -1.5}, types.Vec3{X: 5})
	b := newVehicle(Balance, types.Vec3{X: 1.5}, types.Vec3{X: -5})

	assert.False(t, Resolve(&a, &b))
	assert.Equal(t, types.Vec3{X: 5}, a.Velocity)
	assert.Equal(t, types.Vec3{X: -5}, b.Velocity)
}

func TestOverlappingIncludesTouching(t *testing.T) {
	a := newVehicle(Balance, types.Vec3{}, types.Vec3{})
	b := newVehicle(Balance, types.Vec3{X: 2}, types.Vec3{})
	assert.True(t, Overlapping(&a, &b))

	b.Position.X = 2.0001
	assert.False(t, Overlapping(&a, &b))
}

func TestResolveDoesNotMovePositions(t *testing.T) {
	a := newVehicle(Tank, types.Vec3{X: -1}, types.Vec3{X: 2})
	b := newVehicle(Sprinter, types.Vec3{X: 1}, types.Vec3{})

	assert.True(t, Resolve(&a, &b))
	assert.Equal(t, types.Vec3{X: -1}, a.Position)
	assert.Equal(t, types.Vec3{X: 1}, b.Position)
	assert.Less(t, a.Velocity.X, 2.0)
	assert.Greater(t, b.Velocity.X, 0.0)
}
