// Package arena serializes access to one running match so that a ticking
// loop, network readers and replication can share it.
package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hitbit/internal/metrics"
	"hitbit/internal/shared/types"
	"hitbit/internal/simulation"
)

// Event types carried in GameplayEvent.Type.
const (
	EventStart       = "start"
	EventElimination = "elimination"
	EventVictory     = "victory"
	EventDraw        = "draw"
)

// Arena is the authoritative state of the current match.
type Arena struct {
	mu        sync.RWMutex
	matchID   string
	setup     simulation.Setup
	match     *simulation.Match
	createdAt time.Time
	startedAt time.Time
	endedAt   time.Time
	events    []types.GameplayEvent

	log     zerolog.Logger
	metrics *metrics.Recorder
	sinks   []ResultSink
	onFrame func(types.MatchSnapshot)
	now     func() time.Time
}

// Option configures an Arena.
type Option func(*Arena)

func WithLogger(log zerolog.Logger) Option {
	return func(a *Arena) { a.log = log }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Arena) { a.metrics = r }
}

// WithSinks adds destinations for decided match results.
func WithSinks(sinks ...ResultSink) Option {
	return func(a *Arena) { a.sinks = append(a.sinks, sinks...) }
}

// WithFrameHook registers fn to receive a snapshot after every frame
// driven by Run or Simulate. It is called without the arena lock held.
func WithFrameHook(fn func(types.MatchSnapshot)) Option {
	return func(a *Arena) { a.onFrame = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Arena) { a.now = now }
}

// New creates an arena running a fresh match built from setup.
func New(matchID string, setup simulation.Setup, opts ...Option) (*Arena, error) {
	a := &Arena{
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Reset(matchID, setup); err != nil {
		return nil, err
	}
	return a, nil
}

// Reset discards the current match and places a new roster.
func (a *Arena) Reset(matchID string, setup simulation.Setup) error {
	m, err := simulation.NewMatch(setup)
	if err != nil {
		return fmt.Errorf("match %s: %w", matchID, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.matchID = matchID
	a.setup = setup
	a.match = m
	a.createdAt = a.now().UTC()
	a.startedAt = time.Time{}
	a.endedAt = time.Time{}
	a.events = a.events[:0]

	a.log.Info().
		Str("match", matchID).
		Int("humans", m.HumanCount()).
		Int("cpus", m.Len()-m.HumanCount()).
		Float64("platformSize", setup.PlatformSize).
		Msg("match placed")
	return nil
}

// ApplyInput stores the held input for a human slot.
func (a *Arena) ApplyInput(slot int, in types.ControlInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.match.SetInput(slot, in)
}

// Tick advances the match by dt seconds and records the frame's events.
func (a *Arena) Tick(dt float64) simulation.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tickLocked(context.Background(), dt)
}

func (a *Arena) tickLocked(ctx context.Context, dt float64) simulation.Outcome {
	a.events = a.events[:0]
	if a.match.Outcome() != simulation.InProgress {
		return a.match.Outcome()
	}

	began := time.Now()
	now := a.now().UTC()
	first := a.match.Frame() == 0

	outcome := a.match.AdvanceFrame(dt)
	frame := a.match.Frame()
	if first {
		a.startedAt = now
		a.emit(EventStart, -1, "", now)
	}

	for _, slot := range a.match.LastEliminated() {
		v := a.match.Vehicle(slot)
		a.emit(EventElimination, slot, v.Name, now)
		a.metrics.Elimination(ctx, v.Profile.Key, v.IsCPU)
		a.log.Info().Str("match", a.matchID).Uint64("frame", frame).
			Int("slot", slot).Str("name", v.Name).Msg("vehicle eliminated")
	}

	switch outcome {
	case simulation.Victory:
		slot, _ := a.match.Survivor()
		name := a.match.Vehicle(slot).Name
		a.emit(EventVictory, slot, name, now)
		a.finishLocked(ctx, now)
		a.log.Info().Str("match", a.matchID).Uint64("frame", frame).
			Int("slot", slot).Str("winner", name).Msg("match won")
	case simulation.Draw:
		a.emit(EventDraw, -1, "", now)
		a.finishLocked(ctx, now)
		a.log.Info().Str("match", a.matchID).Uint64("frame", frame).Msg("match drawn")
	}

	a.metrics.Frame(ctx, time.Since(began))
	return outcome
}

func (a *Arena) finishLocked(ctx context.Context, now time.Time) {
	a.endedAt = now
	a.metrics.MatchFinished(ctx, a.match.Outcome().String())
}

func (a *Arena) emit(kind string, slot int, name string, at time.Time) {
	a.events = append(a.events, types.GameplayEvent{
		Type:       kind,
		Slot:       slot,
		Name:       name,
		Frame:      a.match.Frame(),
		OccurredMS: at.UnixMilli(),
	})
}

// Snapshot returns a deep copy of state for safe replication.
func (a *Arena) Snapshot() types.MatchSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked()
}

func (a *Arena) snapshotLocked() types.MatchSnapshot {
	events := make([]types.GameplayEvent, len(a.events))
	copy(events, a.events)

	survivor, ok := a.match.Survivor()
	if !ok {
		survivor = -1
	}
	return types.MatchSnapshot{
		MatchID:            a.matchID,
		Frame:              a.match.Frame(),
		CreatedAt:          a.createdAt,
		PlatformHalfExtent: a.match.HalfExtent(),
		HumanCount:         a.match.HumanCount(),
		Vehicles:           a.match.Snapshot(),
		Outcome:            a.match.Outcome().String(),
		Survivor:           survivor,
		Events:             events,
	}
}

// Outcome reports the current match status.
func (a *Arena) Outcome() simulation.Outcome {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.match.Outcome()
}

// MatchID of the current match.
func (a *Arena) MatchID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.matchID
}

// Result summarizes the current match. ok is false until it is decided.
func (a *Arena) Result() (types.MatchResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resultLocked()
}

func (a *Arena) resultLocked() (types.MatchResult, bool) {
	m := a.match
	res := types.MatchResult{
		MatchID:      a.matchID,
		StartedAt:    a.startedAt,
		EndedAt:      a.endedAt,
		Frames:       m.Frame(),
		PlatformSize: a.setup.PlatformSize,
		Humans:       m.HumanCount(),
		CPUs:         m.Len() - m.HumanCount(),
		Outcome:      m.Outcome().String(),
		WinnerSlot:   -1,
		Roster:       m.Roster(),
	}
	if slot, ok := m.Survivor(); ok {
		winner := m.Vehicle(slot)
		res.WinnerSlot = slot
		res.WinnerName = winner.Name
		res.WinnerProfile = winner.Profile.Key
	}
	return res, m.Outcome() != simulation.InProgress
}
