package simulation

import (
	"errors"
	"fmt"

	"hitbit/internal/shared/types"
)

var (
	ErrUnknownSlot = errors.New("unknown vehicle slot")
	ErrNotHuman    = errors.New("slot is cpu-controlled")
)

// Outcome is the match status after a frame.
type Outcome int

const (
	InProgress Outcome = iota
	Victory
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Match owns the roster for one battle. Slots 0..humanCount-1 are human
// controlled, the rest are CPUs. The roster never shrinks.
type Match struct {
	vehicles   []VehicleState
	humanCount int
	halfExtent float64

	frame      uint64
	outcome    Outcome
	survivor   int
	eliminated []int
}

// NewMatch validates the setup and places the roster.
func NewMatch(s Setup) (*Match, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Match{
		vehicles:   placeRoster(s),
		humanCount: len(s.HumanProfiles),
		halfExtent: s.HalfExtent(),
		survivor:   -1,
	}, nil
}

// NewMatchWithRoster builds a match around an explicit roster, for
// scripted scenarios. IsCPU is derived from humanCount.
func NewMatchWithRoster(vehicles []VehicleState, humanCount int, halfExtent float64) (*Match, error) {
	if humanCount < 0 || humanCount > len(vehicles) {
		return nil, fmt.Errorf("%w: human count %d outside roster of %d", ErrInvalidSetup, humanCount, len(vehicles))
	}
	if halfExtent <= 0 {
		return nil, fmt.Errorf("%w: half extent must be > 0, got=%v", ErrInvalidSetup, halfExtent)
	}
	roster := make([]VehicleState, len(vehicles))
	copy(roster, vehicles)
	for i := range roster {
		if err := roster[i].Profile.Validate(); err != nil {
			return nil, fmt.Errorf("%w: slot %d: %w", ErrInvalidSetup, i, err)
		}
		roster[i].IsCPU = i >= humanCount
	}
	return &Match{
		vehicles:   roster,
		humanCount: humanCount,
		halfExtent: halfExtent,
		survivor:   -1,
	}, nil
}

// SetInput replaces the held input of a human slot.
func (m *Match) SetInput(slot int, in types.ControlInput) error {
	if slot < 0 || slot >= len(m.vehicles) {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	if slot >= m.humanCount {
		return fmt.Errorf("%w: %d", ErrNotHuman, slot)
	}
	m.vehicles[slot].Input = in
	return nil
}

// AdvanceFrame runs one simulation frame: CPU decisions, integration,
// pairwise collisions, then the survivor count. Once the outcome is
// decided further calls do nothing.
func (m *Match) AdvanceFrame(dt float64) Outcome {
	if m.outcome != InProgress {
		return m.outcome
	}
	m.frame++
	m.eliminated = m.eliminated[:0]

	for i := m.humanCount; i < len(m.vehicles); i++ {
		if m.vehicles[i].Inert() {
			continue
		}
		m.vehicles[i].Input = Decide(m.vehicles, i)
	}

	wasAlive := make([]bool, len(m.vehicles))
	for i := range m.vehicles {
		v := &m.vehicles[i]
		wasAlive[i] = v.Alive()
		if v.Inert() {
			continue
		}
		Integrate(v, m.halfExtent, dt)
	}

	for i := range m.vehicles {
		if m.vehicles[i].Inert() {
			continue
		}
		for j := i + 1; j < len(m.vehicles); j++ {
			if m.vehicles[j].Inert() {
				continue
			}
			Resolve(&m.vehicles[i], &m.vehicles[j])
		}
	}

	alive, last := 0, -1
	for i := range m.vehicles {
		if m.vehicles[i].Alive() {
			alive++
			last = i
		} else if wasAlive[i] {
			m.eliminated = append(m.eliminated, i)
		}
	}
	switch alive {
	case 0:
		m.outcome = Draw
	case 1:
		m.outcome = Victory
		m.survivor = last
	}
	return m.outcome
}

// Outcome of the match so far.
func (m *Match) Outcome() Outcome { return m.outcome }

// Survivor returns the winning slot once the outcome is Victory.
func (m *Match) Survivor() (int, bool) {
	return m.survivor, m.outcome == Victory
}

// Frame is the number of simulated frames.
func (m *Match) Frame() uint64 { return m.frame }

func (m *Match) HumanCount() int     { return m.humanCount }
func (m *Match) Len() int            { return len(m.vehicles) }
func (m *Match) HalfExtent() float64 { return m.halfExtent }

// LastEliminated lists the slots that dropped below the elimination depth
// during the most recent frame.
func (m *Match) LastEliminated() []int {
	return append([]int(nil), m.eliminated...)
}

// Vehicle returns a copy of the state in slot.
func (m *Match) Vehicle(slot int) VehicleState {
	return m.vehicles[slot]
}

// AliveCount counts vehicles above the elimination depth.
func (m *Match) AliveCount() int {
	n := 0
	for i := range m.vehicles {
		if m.vehicles[i].Alive() {
			n++
		}
	}
	return n
}

// Snapshot copies the render-facing state of every slot.
func (m *Match) Snapshot() []types.VehicleSnapshot {
	out := make([]types.VehicleSnapshot, len(m.vehicles))
	for i := range m.vehicles {
		out[i] = m.vehicles[i].snapshot(i)
	}
	return out
}

// Roster describes the participants.
func (m *Match) Roster() []types.RosterEntry {
	out := make([]types.RosterEntry, len(m.vehicles))
	for i, v := range m.vehicles {
		out[i] = types.RosterEntry{Slot: i, Name: v.Name, IsCPU: v.IsCPU, Profile: v.Profile.Key}
	}
	return out
}
