package influx

import (
	"context"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbit/internal/shared/types"
)

func TestResultPoint(t *testing.T) {
	ended := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	p := ResultPoint(types.MatchResult{
		MatchID:       "m1",
		StartedAt:     ended.Add(-30 * time.Second),
		EndedAt:       ended,
		Frames:        300,
		PlatformSize:  50,
		Humans:        1,
		CPUs:          5,
		Outcome:       "victory",
		WinnerSlot:    2,
		WinnerProfile: "bouncer",
	})

	assert.Equal(t, Measurement, p.Name())
	assert.Equal(t, ended, p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"outcome": "victory", "winner_profile": "bouncer"}, tags)

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, int64(300), fields["frames"])
	assert.Equal(t, int64(6), fields["vehicles"])
	assert.Equal(t, 30.0, fields["duration_s"])
	assert.Equal(t, 50.0, fields["platform_size"])

	line := influxdb2_write.PointToLineProtocol(p, time.Second)
	assert.Contains(t, line, "match_result,outcome=victory,winner_profile=bouncer ")
	assert.Contains(t, line, "frames=300i")
}

func TestResultPointDrawHasNoWinner(t *testing.T) {
	p := ResultPoint(types.MatchResult{Outcome: "draw", WinnerSlot: -1})
	for _, tag := range p.TagList() {
		if tag.Key == "winner_profile" {
			assert.Equal(t, "none", tag.Value)
		}
	}
}

func TestNewDisabled(t *testing.T) {
	_, err := New(context.Background(), Config{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := New(ctx, Config{Enabled: true, URL: "http://127.0.0.1:1", Bucket: "b"}, zerolog.Nop())
	require.Error(t, err)
}
