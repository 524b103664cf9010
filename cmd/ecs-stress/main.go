package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/skirmish/internal/config"
	"github.com/plus3/skirmish/internal/logging"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ecs-stress: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	ops := flag.Int("ops", 100, "Random create/kill/add/remove operations applied before each frame.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the random churn.")
	format := flag.String("format", "markdown", "Report format: markdown or json.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "info", "Log level.")
	flag.Parse()

	if *format != "markdown" && *format != "json" {
		return eris.Errorf("unknown report format %q", *format)
	}

	log, err := logging.New(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return eris.Errorf("unknown profile mode %q", *profileMode)
	}

	log.Info("starting ECS stress test", zap.Uint64("seed", *seed))

	w := newWorld(*seed)

	log.Info("populating registry", zap.Int("entities", *entityCount))
	w.populate(*entityCount)
	w.registry.Update()

	stats := w.registry.CollectStats()
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     stats.ComponentTypeCount,
		Systems:        stats.SystemCount,
		OpsPerFrame:    *ops,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, w.frame(*ops, deltaTime.Seconds()))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Churn = w.churn
	report.FinalEntities = w.registry.EntityCount()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Duration("avg", report.UpdateTime.Avg),
		zap.Int("live", report.FinalEntities))

	if *format == "json" {
		return eris.Wrap(report.WriteJSON(os.Stdout), "write report")
	}
	return eris.Wrap(report.Generate(os.Stdout), "write report")
}
