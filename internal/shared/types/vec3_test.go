package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -3, Y: 0, Z: 5}

	assert.Equal(t, Vec3{X: -2, Y: 2, Z: 8}, a.Add(b))
	assert.Equal(t, Vec3{X: 4, Y: 2, Z: -2}, a.Sub(b))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	assert.Equal(t, 12.0, a.Dot(b))
	assert.Equal(t, Vec3{X: 10, Y: -14, Z: 6}, a.Cross(b))
	assert.InDelta(t, math.Sqrt(14), a.Norm(), 1e-12)

	// operands are values and stay untouched
	assert.Equal(t, Vec3{X: 1, Y: 2, Z: 3}, a)
}

func TestVec3CrossZOfPlanarUnits(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	assert.Equal(t, 1.0, x.Cross(y).Z)
	assert.Equal(t, -1.0, y.Cross(x).Z)
}

func TestVec3Direction(t *testing.T) {
	d := Vec3{X: 3, Y: 4}.Direction()
	assert.InDelta(t, 0.6, d.X, 1e-12)
	assert.InDelta(t, 0.8, d.Y, 1e-12)
	assert.InDelta(t, 1.0, d.Norm(), 1e-12)

	assert.Equal(t, Vec3{}, Vec3{}.Direction(), "zero vector has no direction")
}

func TestVec3Distance(t *testing.T) {
	assert.InDelta(t, 3.0, Vec3{X: -1.5}.Distance(Vec3{X: 1.5}), 1e-12)
}
