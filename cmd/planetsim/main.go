// Package main is the entry point for the headless planet-tanks simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/internal/config"
	"github.com/Faultbox/planet-tanks/internal/game"
	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/internal/terrain"
)

var (
	flagReport     = flag.String("report", "", "Write run statistics as YAML to this path (- for stdout)")
	flagSaveConfig = flag.Bool("save-config", false, "Save the effective config to the user config directory")
)

// report is the YAML document written by -report.
type report struct {
	Config *config.Config `yaml:"config"`
	Stats  game.Stats     `yaml:"stats"`
	Meshes struct {
		Patches   int `yaml:"patches"`
		Swaps     int `yaml:"swaps"`
		Triangles int `yaml:"triangles"`
	} `yaml:"meshes"`
}

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitWithOptions(cfg.Logging.Options()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Planet Tanks ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("simulation interrupted", zap.Error(err))
			return
		}
		logger.Error("simulation error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("simulation closed normally")
}

func run(ctx context.Context, cfg *config.Config) error {
	field := height.NewNoise(cfg.Planet.Noise)

	store := terrain.NewMeshStore(0)
	planet, err := terrain.NewPlanet(field, cfg.Planet.Radius, cfg.Terrain, store)
	if err != nil {
		return fmt.Errorf("create planet: %w", err)
	}

	solver, err := ballistics.NewSolver(cfg.Ballistics)
	if err != nil {
		return fmt.Errorf("create solver: %w", err)
	}

	world, err := game.NewWorld(cfg.Simulation, planet, solver)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}

	stats, runErr := world.Run(ctx, cfg.Simulation.Ticks)

	logger.Info("run statistics",
		zap.Int("ticks", stats.Ticks),
		zap.Float64("sim_seconds", stats.SimSeconds),
		zap.Int("patch_updates", stats.PatchUpdates),
		zap.Int("max_triangles", stats.MaxTriangles),
		zap.Int("index_rebuilds", stats.IndexRebuilds),
		zap.Int("target_switches", stats.TargetSwitches),
		zap.Int("shots", stats.Shots),
		zap.Int("impacts", stats.Impacts),
		zap.Int("hits", stats.Hits),
		zap.Int("mesh_swaps", store.Swaps()))

	if *flagReport != "" {
		r := report{Config: cfg, Stats: stats}
		r.Meshes.Patches = store.Len()
		r.Meshes.Swaps = store.Swaps()
		r.Meshes.Triangles = store.TriangleCount()
		if err := writeReport(*flagReport, &r); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return runErr
}

func writeReport(path string, r *report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
