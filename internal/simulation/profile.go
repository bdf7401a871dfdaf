package simulation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hitbit/internal/shared/types"
)

var (
	ErrUnknownProfile = errors.New("unknown vehicle profile")
	ErrInvalidProfile = errors.New("invalid vehicle profile")
)

// VehicleProfile is the static performance envelope of an archetype.
type VehicleProfile struct {
	Key         string
	DriveForce  float64 // N
	TopSpeed    float64 // m/s
	TurnRate    float64 // rad per control tick
	Mass        float64 // kg
	Radius      float64 // m, visual scale and collision radius
	Restitution float64 // 0..1, multiplied with the other party's
}

// Validate checks the physical limits of a profile.
func (p VehicleProfile) Validate() error {
	if p.Mass <= 0 {
		return fmt.Errorf("%w %q: mass must be > 0, got=%v", ErrInvalidProfile, p.Key, p.Mass)
	}
	if p.Radius <= 0 {
		return fmt.Errorf("%w %q: radius must be > 0, got=%v", ErrInvalidProfile, p.Key, p.Radius)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("%w %q: restitution must be in [0,1], got=%v", ErrInvalidProfile, p.Key, p.Restitution)
	}
	return nil
}

// Wire converts the profile into its replicated form.
func (p VehicleProfile) Wire() types.Profile {
	return types.Profile{
		Key:         p.Key,
		DriveForce:  p.DriveForce,
		TopSpeed:    p.TopSpeed,
		TurnRate:    p.TurnRate,
		Mass:        p.Mass,
		Radius:      p.Radius,
		Restitution: p.Restitution,
	}
}

var (
	Balance  = VehicleProfile{Key: "balance", DriveForce: 300, TopSpeed: 10, TurnRate: 0.3, Mass: 200, Radius: 1.0, Restitution: 0.6}
	Tank     = VehicleProfile{Key: "tank", DriveForce: 400, TopSpeed: 5, TurnRate: 0.1, Mass: 260, Radius: 1.5, Restitution: 0.6}
	Sprinter = VehicleProfile{Key: "sprinter", DriveForce: 200, TopSpeed: 15, TurnRate: 0.5, Mass: 100, Radius: 0.8, Restitution: 0.6}
	Bouncer  = VehicleProfile{Key: "bouncer", DriveForce: 300, TopSpeed: 10, TurnRate: 0.5, Mass: 200, Radius: 1.0, Restitution: 0.8}
	Titan    = VehicleProfile{Key: "titan", DriveForce: 500, TopSpeed: 15, TurnRate: 0.5, Mass: 300, Radius: 1.0, Restitution: 0.6}
)

// CPUProfile is the fixed archetype every CPU vehicle drives.
var CPUProfile = Bouncer

var catalog = map[string]VehicleProfile{
	Balance.Key:  Balance,
	Tank.Key:     Tank,
	Sprinter.Key: Sprinter,
	Bouncer.Key:  Bouncer,
	Titan.Key:    Titan,
}

// Pickable lists the archetypes offered to human players, in menu order.
func Pickable() []VehicleProfile {
	return []VehicleProfile{Balance, Tank, Sprinter, Titan}
}

// LookupProfile finds a catalog archetype by key, ignoring case.
func LookupProfile(key string) (VehicleProfile, error) {
	p, ok := catalog[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return VehicleProfile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, key, strings.Join(profileKeys(), ", "))
	}
	return p, nil
}

func profileKeys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
