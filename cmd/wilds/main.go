// Package main runs the headless ecosystem simulation and writes
// windowed telemetry to CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/wilds/components"
	"github.com/pthm-cable/wilds/config"
	"github.com/pthm-cable/wilds/sim"
	"github.com/pthm-cable/wilds/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = derive from current time)")
	ticks := flag.Int("ticks", 108000, "Number of ticks to simulate")
	outputDir := flag.String("out", "", "Output directory for telemetry (empty = no output)")
	quiet := flag.Bool("quiet", false, "Suppress info logging")
	trace := flag.Bool("trace", false, "Write per-event traces to stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *quiet {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if *trace {
		sim.SetLogWriter(os.Stderr)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	slog.Info("starting simulation", "seed", *seed, "ticks", *ticks)

	progress := func(stage string, done, total int) {
		if !*quiet {
			slog.Info("terrain generation", "stage", stage, "done", done, "total", total)
		}
	}

	s, err := sim.New(cfg, *seed, progress)
	if err != nil {
		log.Fatalf("failed to build simulation: %v", err)
	}

	if *outputDir != "" {
		out, err := telemetry.NewOutputManager(*outputDir)
		if err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			log.Fatalf("failed to write config snapshot: %v", err)
		}
		s.SetOutput(out)
		slog.Info("writing telemetry", "dir", out.Dir())
	}

	start := time.Now()
	s.Run(*ticks)
	elapsed := time.Since(start)

	slog.Info("simulation finished",
		"ticks", s.Tick(),
		"sim_time", fmt.Sprintf("%.1fs", s.Now()),
		"wall_time", elapsed.Round(time.Millisecond),
		"herbivores", s.Herbivores().Count(),
		"predators", s.Predators().Count(),
	)
	printSummary(s)
}

// printSummary writes the end-of-run tallies to stdout so they survive
// a discarded log stream.
func printSummary(s *sim.Simulation) {
	fmt.Printf("ticks=%d sim_time=%.1fs\n", s.Tick(), s.Now())
	for _, p := range []*sim.Population{s.Herbivores(), s.Predators()} {
		fmt.Printf("%s: alive=%d births=%d\n", p.Species(), p.Count(), p.TotalBirths)
		for c, n := range p.TotalDeaths {
			if c == int(components.CauseNone) || n == 0 {
				continue
			}
			fmt.Printf("  deaths %s: %d\n", components.DeathCause(c), n)
		}
	}
	fmt.Printf("food: nodes=%d available=%d\n", s.Food().Count(), s.Food().AvailableCount())
}
