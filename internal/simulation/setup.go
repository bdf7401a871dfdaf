package simulation

import (
	"errors"
	"fmt"
	"math"

	"hitbit/internal/shared/types"
)

var ErrInvalidSetup = errors.New("invalid match setup")

// Setup is what the setup collaborator hands over before a match starts.
type Setup struct {
	HumanProfiles []VehicleProfile // one per human slot, in slot order
	CPUCount      int
	PlatformSize  float64 // full side length of the square platform, m
}

// Validate applies the menu rules of the game to an arbitrary setup.
func (s Setup) Validate() error {
	if s.CPUCount < 0 {
		return fmt.Errorf("%w: cpu count must be >= 0, got=%d", ErrInvalidSetup, s.CPUCount)
	}
	if total := len(s.HumanProfiles) + s.CPUCount; total < 2 {
		return fmt.Errorf("%w: need at least 2 vehicles, got=%d", ErrInvalidSetup, total)
	}
	if s.PlatformSize <= 0 || math.IsNaN(s.PlatformSize) || math.IsInf(s.PlatformSize, 0) {
		return fmt.Errorf("%w: platform size must be > 0, got=%v", ErrInvalidSetup, s.PlatformSize)
	}
	if s.CPUCount >= CrowdedCPUCount && s.PlatformSize < CrowdedMinSize {
		return fmt.Errorf("%w: %d cpus need a platform of at least %v, got=%v",
			ErrInvalidSetup, s.CPUCount, CrowdedMinSize, s.PlatformSize)
	}
	for i, p := range s.HumanProfiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: human %d: %w", ErrInvalidSetup, i+1, err)
		}
	}
	return nil
}

// HalfExtent is half the platform side length.
func (s Setup) HalfExtent() float64 {
	return s.PlatformSize / 2
}

// placeRoster puts every vehicle on a circle of radius size/4 around the
// center, facing inward, at rest.
func placeRoster(s Setup) []VehicleState {
	n := len(s.HumanProfiles) + s.CPUCount
	vehicles := make([]VehicleState, n)
	step := 2 * math.Pi / float64(n)
	ring := s.PlatformSize / 4

	for i := range vehicles {
		theta := step * float64(i)
		x, y := math.Cos(theta), math.Sin(theta)

		v := &vehicles[i]
		v.Direction = types.Vec3{X: x, Y: y}
		v.Position = types.Vec3{X: -ring * x, Y: -ring * y}
		if i < len(s.HumanProfiles) {
			v.Profile = s.HumanProfiles[i]
			v.Name = fmt.Sprintf("Player %d", i+1)
		} else {
			v.Profile = CPUProfile
			v.IsCPU = true
			v.Name = CPUName(i - len(s.HumanProfiles))
		}
	}
	return vehicles
}

var cpuNames = [...]string{
	"Alice", "Bob", "Charlie", "David", "Eric", "Flora", "George", "Helen",
	"Isabel", "Jane", "Kate", "Layla", "Marilyn", "Nancy", "Olive", "Pansy",
	"Ted", "Ulysses", "Victor", "William", "Alex", "Ben", "Cory", "Danny",
	"Edgar", "Frank", "Gene", "Harry", "Ian", "Jack", "Kent", "Leo",
	"Mark", "Nick", "Oscar", "Paul", "Quincy", "Randolf", "Steve", "Tom",
	"Ulric", "Virgil", "Walt", "Zachary", "Anthony", "Brian", "Clark", "Dick",
	"Evan", "Freddie",
}

// CPUName returns the display name of the n-th CPU (0-based).
func CPUName(n int) string {
	return cpuNames[n%len(cpuNames)]
}
