// Package metrics publishes simulation counters through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "hitbit/internal/metrics"

// Recorder holds the instruments for one process. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	frames        metric.Int64Counter
	frameDuration metric.Float64Histogram
	eliminations  metric.Int64Counter
	matches       metric.Int64Counter
}

// Default builds a recorder on the global meter provider.
func Default() (*Recorder, error) {
	return New(otel.Meter(instrumentationName))
}

// New creates the instruments on m.
func New(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	r.frames, err = m.Int64Counter(
		"hitbit.frames",
		metric.WithDescription("Simulated frames"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}

	r.frameDuration, err = m.Float64Histogram(
		"hitbit.frame.duration",
		metric.WithDescription("Wall time spent simulating one frame"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}

	r.eliminations, err = m.Int64Counter(
		"hitbit.eliminations",
		metric.WithDescription("Vehicles that sank past the elimination depth"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating elimination counter: %w", err)
	}

	r.matches, err = m.Int64Counter(
		"hitbit.matches",
		metric.WithDescription("Decided matches by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating match counter: %w", err)
	}

	return r, nil
}

// Frame records one simulated frame and how long it took.
func (r *Recorder) Frame(ctx context.Context, took time.Duration) {
	if r == nil {
		return
	}
	r.frames.Add(ctx, 1)
	r.frameDuration.Record(ctx, float64(took.Microseconds())/1000)
}

// Elimination records a vehicle leaving play.
func (r *Recorder) Elimination(ctx context.Context, profile string, cpu bool) {
	if r == nil {
		return
	}
	r.eliminations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("profile", profile),
		attribute.Bool("cpu", cpu),
	))
}

// MatchFinished records a decided match.
func (r *Recorder) MatchFinished(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.matches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
