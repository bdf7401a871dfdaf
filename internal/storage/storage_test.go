package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbit/internal/shared/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "hitbit.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func result(id, outcome, winner string, ended time.Time) types.MatchResult {
	res := types.MatchResult{
		MatchID:      id,
		StartedAt:    ended.Add(-time.Minute),
		EndedAt:      ended,
		Frames:       600,
		PlatformSize: 100,
		Humans:       1,
		CPUs:         1,
		Outcome:      outcome,
		WinnerSlot:   -1,
		Roster: []types.RosterEntry{
			{Slot: 0, Name: "Player 1", Profile: "titan"},
			{Slot: 1, Name: "Alice", IsCPU: true, Profile: "bouncer"},
		},
	}
	if winner != "" {
		res.WinnerName = winner
		res.WinnerSlot = 0
		res.WinnerProfile = "titan"
	}
	return res
}

func TestOpenDisabled(t *testing.T) {
	_, err := Open(Config{Type: "none"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = Open(Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestOpenUnknownType(t *testing.T) {
	_, err := Open(Config{Type: "mongo"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}

func TestRecordAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordResult(ctx, result("m1", "victory", "Player 1", ended)))

	recs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "m1", recs[0].MatchID)
	assert.NotZero(t, recs[0].ID)

	res, err := recs[0].Result()
	require.NoError(t, err)
	assert.Equal(t, "Player 1", res.WinnerName)
	assert.Equal(t, uint64(600), res.Frames)
	require.Len(t, res.Roster, 2)
	assert.Equal(t, "Alice", res.Roster[1].Name)
	assert.True(t, res.Roster[1].IsCPU)
	assert.True(t, ended.Equal(res.EndedAt))
}

func TestRecordDuplicateMatchID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.RecordResult(ctx, result("dup", "draw", "", now)))
	assert.Error(t, s.RecordResult(ctx, result("dup", "draw", "", now)))
}

func TestRecentNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, s.RecordResult(ctx, result(fmt.Sprintf("m%d", i), "draw", "", base.Add(time.Duration(i)*time.Minute))))
	}

	recs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "m4", recs[0].MatchID)
	assert.Equal(t, "m3", recs[1].MatchID)
	assert.Equal(t, "m2", recs[2].MatchID)
}

func TestWinsLeaderboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	matches := []struct{ outcome, winner string }{
		{"victory", "Alice"},
		{"victory", "Player 1"},
		{"victory", "Alice"},
		{"draw", ""},
		{"victory", "Bob"},
		{"victory", "Alice"},
		{"victory", "Player 1"},
	}
	for i, m := range matches {
		require.NoError(t, s.RecordResult(ctx, result(fmt.Sprintf("w%d", i), m.outcome, m.winner, now)))
	}

	wins, err := s.Wins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []WinCount{
		{Name: "Alice", Wins: 3},
		{Name: "Player 1", Wins: 2},
		{Name: "Bob", Wins: 1},
	}, wins)
}
