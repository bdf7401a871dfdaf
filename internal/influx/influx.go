// Package influx writes match results to InfluxDB.
package influx

import (
	"context"
	"errors"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"hitbit/internal/shared/types"
)

const Measurement = "match_result"

var ErrDisabled = errors.New("influx disabled")

// Config locates the InfluxDB bucket.
type Config struct {
	Enabled bool
	URL     string
	Token   string
	Org     string
	Bucket  string
}

// Writer is a result sink backed by a blocking write API.
type Writer struct {
	client influxdb2.Client
	api    influxdb2_api.WriteAPIBlocking
	log    zerolog.Logger
}

// New connects to InfluxDB and checks that it answers.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Writer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = errors.New("server not ready")
		}
		return nil, fmt.Errorf("influx %s: %w", cfg.URL, err)
	}
	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return &Writer{
		client: client,
		api:    client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:    log,
	}, nil
}

// RecordResult writes one match_result point.
func (w *Writer) RecordResult(ctx context.Context, res types.MatchResult) error {
	if err := w.api.WritePoint(ctx, ResultPoint(res)); err != nil {
		return fmt.Errorf("write %s point for %s: %w", Measurement, res.MatchID, err)
	}
	w.log.Trace().Str("match", res.MatchID).Msg("Point written to InfluxDB")
	return nil
}

// Close flushes and releases the client.
func (w *Writer) Close() {
	w.client.Close()
}

// ResultPoint converts a result into a point stamped at its end time.
func ResultPoint(res types.MatchResult) *influxdb2_write.Point {
	profile := res.WinnerProfile
	if profile == "" {
		profile = "none"
	}
	return influxdb2.NewPoint(
		Measurement,
		map[string]string{
			"outcome":        res.Outcome,
			"winner_profile": profile,
		},
		map[string]any{
			"frames":        int64(res.Frames),
			"duration_s":    res.EndedAt.Sub(res.StartedAt).Seconds(),
			"vehicles":      int64(res.Humans + res.CPUs),
			"platform_size": res.PlatformSize,
		},
		res.EndedAt,
	)
}
