package arena

import (
	"context"
	"errors"
	"time"

	"hitbit/internal/shared/types"
	"hitbit/internal/simulation"
)

// ErrFrameLimit is returned by Simulate when the match is still undecided
// after the allowed number of frames.
var ErrFrameLimit = errors.New("frame limit reached")

// ResultSink receives every decided match.
type ResultSink interface {
	RecordResult(ctx context.Context, res types.MatchResult) error
}

// Run ticks the match once per interval until it is decided, then hands
// the result to every sink. Cancelling ctx abandons the match without
// publishing it.
func (a *Arena) Run(ctx context.Context, interval time.Duration) (types.MatchResult, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()

	for {
		select {
		case <-ctx.Done():
			res, _ := a.Result()
			return res, ctx.Err()
		case <-ticker.C:
			if a.step(ctx, dt) != simulation.InProgress {
				return a.publish(ctx), nil
			}
		}
	}
}

// Simulate advances the match without waiting on a clock, using the
// reference frame duration. maxFrames <= 0 means no limit.
func (a *Arena) Simulate(ctx context.Context, maxFrames int) (types.MatchResult, error) {
	dt := simulation.TickDuration.Seconds()
	for n := 0; maxFrames <= 0 || n < maxFrames; n++ {
		if err := ctx.Err(); err != nil {
			res, _ := a.Result()
			return res, err
		}
		if a.step(ctx, dt) != simulation.InProgress {
			return a.publish(ctx), nil
		}
	}
	res, _ := a.Result()
	return res, ErrFrameLimit
}

func (a *Arena) step(ctx context.Context, dt float64) simulation.Outcome {
	a.mu.Lock()
	outcome := a.tickLocked(ctx, dt)
	var snap types.MatchSnapshot
	if a.onFrame != nil {
		snap = a.snapshotLocked()
	}
	a.mu.Unlock()

	if a.onFrame != nil {
		a.onFrame(snap)
	}
	return outcome
}

func (a *Arena) publish(ctx context.Context) types.MatchResult {
	res, _ := a.Result()
	for _, sink := range a.sinks {
		if err := sink.RecordResult(ctx, res); err != nil {
			a.log.Error().Err(err).Str("match", res.MatchID).Msgf("result sink %T failed", sink)
		}
	}
	return res
}
