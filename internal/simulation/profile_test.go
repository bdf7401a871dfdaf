package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbit/internal/shared/types"
)

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("  Tank ")
	require.NoError(t, err)
	assert.Equal(t, Tank, p)

	_, err = LookupProfile("hovercraft")
	assert.ErrorIs(t, err, ErrUnknownProfile)
	assert.Contains(t, err.Error(), "balance, bouncer, sprinter, tank, titan")
}

func TestCatalogProfilesAreValid(t *testing.T) {
	for key, p := range catalog {
		assert.Equal(t, key, p.Key)
		assert.NoError(t, p.Validate(), key)
	}
}

func TestPickableExcludesCPUProfile(t *testing.T) {
	keys := []string{}
	for _, p := range Pickable() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"balance", "tank", "sprinter", "titan"}, keys)
	assert.Equal(t, "bouncer", CPUProfile.Key)
}

func TestProfileValidate(t *testing.T) {
	cases := []struct {
		name string
		p    VehicleProfile
	}{
		{"zero mass", VehicleProfile{Key: "x", Radius: 1, Restitution: 0.5}},
		{"negative radius", VehicleProfile{Key: "x", Mass: 1, Radius: -1}},
		{"restitution above one", VehicleProfile{Key: "x", Mass: 1, Radius: 1, Restitution: 1.2}},
		{"negative restitution", VehicleProfile{Key: "x", Mass: 1, Radius: 1, Restitution: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.p.Validate(), ErrInvalidProfile)
		})
	}
}

func TestProfileWire(t *testing.T) {
	w := Sprinter.Wire()
	assert.Equal(t, "sprinter", w.Key)
	assert.Equal(t, 0.8, w.Radius)
	assert.Equal(t, 100.0, w.Mass)
}

func TestCPUNameWraps(t *testing.T) {
	assert.Equal(t, "Alice", CPUName(0))
	assert.Equal(t, "Freddie", CPUName(49))
	assert.Equal(t, "Alice", CPUName(50))
}

func TestVehicleDepthPredicates(t *testing.T) {
	v := newVehicle(Balance, types.Vec3{}, types.Vec3{})
	assert.False(t, v.Fallen())
	assert.True(t, v.Alive())

	v.Position.Z = -20
	assert.True(t, v.Fallen())
	assert.False(t, v.Inert(), "exactly at the depth is still simulated")
	assert.False(t, v.Alive(), "exactly at the depth no longer counts")

	v.Position.Z = -20.01
	assert.True(t, v.Inert())
}
