package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"hitbit/internal/arena"
	"hitbit/internal/config"
	"hitbit/internal/influx"
	"hitbit/internal/shared/logger"
	"hitbit/internal/simulation"
	"hitbit/internal/storage"
)

func main() {
	matches := flag.Int("matches", 10, "Number of matches to play")
	cpus := flag.Int("cpus", 5, "CPU vehicles per match")
	size := flag.Float64("size", 50, "Platform side length in meters")
	maxFrames := flag.Int("max-frames", 6000, "Give up on a match after this many frames (0 = never)")
	humans := flag.Int("humans", 0, "Idle human vehicles per match")
	configDir := flag.String("config", ".", "Directory holding hitbit.json and .env")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, closer, err := logger.Configure("headless", cfg.LoggerOptions())
	if err != nil {
		log.Warn().Err(err).Msg("graylog unavailable")
	}
	defer closer.Close()

	mc := cfg.Match
	mc.Humans = *humans
	mc.CPUs = *cpus
	mc.PlatformSize = *size
	setup, err := mc.Setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sinks []arena.ResultSink
	if store, err := storage.Open(cfg.StorageConfig(), log); err == nil {
		defer store.Close()
		sinks = append(sinks, store)
	} else if !errors.Is(err, storage.ErrDisabled) {
		log.Error().Err(err).Msg("match store unavailable")
	}
	if w, err := influx.New(ctx, cfg.InfluxConfig(), log); err == nil {
		defer w.Close()
		sinks = append(sinks, w)
	} else if !errors.Is(err, influx.ErrDisabled) {
		log.Error().Err(err).Msg("influx unavailable")
	}

	a, err := arena.New("headless_0", setup, arena.WithLogger(log), arena.WithSinks(sinks...))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	wins := map[string]int{}
	var draws, undecided, played int
	var frames uint64
	for i := range *matches {
		if i > 0 {
			if err := a.Reset(fmt.Sprintf("headless_%d", i), setup); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
		res, err := a.Simulate(ctx, *maxFrames)
		frames += res.Frames
		switch {
		case errors.Is(err, arena.ErrFrameLimit):
			undecided++
		case err != nil:
			log.Warn().Err(err).Msg("stopped early")
			printSummary(played, frames, draws, undecided, wins)
			return
		case res.Outcome == simulation.Draw.String():
			draws++
		default:
			wins[res.WinnerName]++
		}
		played++
	}

	printSummary(played, frames, draws, undecided, wins)
}

func printSummary(played int, frames uint64, draws, undecided int, wins map[string]int) {
	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if wins[names[i]] != wins[names[j]] {
			return wins[names[i]] > wins[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Printf("Completed %d matches in %d frames. draws=%d undecided=%d\n", played, frames, draws, undecided)
	for _, name := range names {
		fmt.Printf("  %-10s %d\n", name, wins[name])
	}
}
